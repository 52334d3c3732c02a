package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/zoomtree/pkg/cache"
	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/httputil"
	zio "github.com/matzehuels/zoomtree/pkg/io"
)

const sample = `{"data": {"name": "root", "children": [{"name": "A", "count": 30}, {"name": "B", "count": 70}]}}`

func TestOpen(t *testing.T) {
	tests := []struct {
		ref      string
		wantType string
		wantCode errors.Code
	}{
		{"data/tree.json", "*source.File", ""},
		{"https://example.org/tree.yaml", "*source.HTTP", ""},
		{"mongo:housing", "*source.Mongo", ""},
		{"mongo:", "", errors.ErrCodeInvalidInput},
		{"", "", errors.ErrCodeInvalidPath},
		{"bad\x00path", "", errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			src, err := Open(tt.ref, Options{})
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Open(%q) error = %v, want %s", tt.ref, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open(%q): %v", tt.ref, err)
			}
			if got := typeName(src); got != tt.wantType {
				t.Errorf("Open(%q) = %s, want %s", tt.ref, got, tt.wantType)
			}
			if src.String() != tt.ref {
				t.Errorf("String() = %q, want %q", src.String(), tt.ref)
			}
		})
	}
}

func typeName(s Source) string {
	switch s.(type) {
	case *File:
		return "*source.File"
	case *HTTP:
		return "*source.HTTP"
	case *Mongo:
		return "*source.Mongo"
	}
	return "?"
}

func TestIsRemote(t *testing.T) {
	for ref, want := range map[string]bool{
		"tree.json":              false,
		"http://host/tree.json":  true,
		"https://host/tree.json": true,
		"mongo:housing":          true,
	} {
		if got := IsRemote(ref); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", ref, got, want)
		}
	}
}

func TestFileFetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yml")
	if err := os.WriteFile(path, []byte("data:\n  name: root\n  count: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := NewFile(path, "").Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if ds.Format != zio.FormatYAML {
		t.Errorf("Format = %q, want yaml", ds.Format)
	}
	raw, err := ds.Decode("")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if raw.Name != "root" || *raw.Count != 4 {
		t.Errorf("raw = %+v", raw)
	}

	_, err = NewFile(filepath.Join(dir, "missing.json"), "").Fetch(context.Background())
	if !errors.Is(err, errors.ErrCodeDataLoad) {
		t.Errorf("missing file error = %v, want DATA_LOAD_FAILURE", err)
	}
}

func TestDatasetDecodeKeepsCode(t *testing.T) {
	ds := Dataset{Ref: "x.json", Format: zio.FormatJSON, Data: []byte("{")}
	_, err := ds.Decode("")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Decode error = %v, want INVALID_FORMAT", err)
	}
}

func TestHTTPFetchCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()

	src, err := Open(srv.URL+"/tree.json", Options{Cache: fc})
	if err != nil {
		t.Fatal(err)
	}
	for range 2 {
		ds, err := src.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if string(ds.Data) != sample {
			t.Errorf("Data = %q", ds.Data)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func TestHTTPFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := httputil.NewClient()
	client.Delay = time.Millisecond

	_, err := NewHTTP(srv.URL, Options{HTTP: client}).Fetch(context.Background())
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("Fetch error = %v, want NETWORK_ERROR", err)
	}
}

type fakeCollection struct {
	docs map[string]bson.M
}

func (f fakeCollection) FindOne(_ context.Context, filter any, _ ...*options.FindOneOptions) *mongo.SingleResult {
	name, _ := filter.(bson.M)["name"].(string)
	if doc, ok := f.docs[name]; ok {
		return mongo.NewSingleResultFromDocument(doc, nil, nil)
	}
	return mongo.NewSingleResultFromDocument(bson.M{}, mongo.ErrNoDocuments, nil)
}

func fakeMongo(name string, docs map[string]bson.M) *Mongo {
	m := NewMongo(name, MongoConfig{})
	m.connect = func(context.Context, MongoConfig) (finder, func(context.Context) error, error) {
		return fakeCollection{docs: docs}, nil, nil
	}
	return m
}

func TestMongoFetch(t *testing.T) {
	docs := map[string]bson.M{
		"housing": {
			"name": "housing",
			"data": bson.M{
				"name": "root",
				"children": bson.A{
					bson.M{"name": "A", "count": int32(30)},
					bson.M{"name": "B", "count": 70.5},
				},
			},
		},
	}

	ds, err := fakeMongo("housing", docs).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if ds.Ref != "mongo:housing" || ds.Format != zio.FormatJSON {
		t.Errorf("dataset = %+v", ds)
	}
	raw, err := ds.Decode("")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if raw.Name != "root" || len(raw.Children) != 2 {
		t.Fatalf("raw = %+v", raw)
	}
	if *raw.Children[0].Count != 30 || *raw.Children[1].Count != 70.5 {
		t.Errorf("counts = %v, %v", *raw.Children[0].Count, *raw.Children[1].Count)
	}

	_, err = fakeMongo("missing", docs).Fetch(context.Background())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing document error = %v, want NOT_FOUND", err)
	}
}

func TestMongoConfigDefaults(t *testing.T) {
	m := NewMongo("x", MongoConfig{Database: "custom"})
	if m.Config.URI != DefaultMongoURI || m.Config.Collection != DefaultMongoCollection {
		t.Errorf("defaults not applied: %+v", m.Config)
	}
	if m.Config.Database != "custom" {
		t.Errorf("explicit database overwritten: %+v", m.Config)
	}
}
