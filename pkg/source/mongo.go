package source

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/zoomtree/pkg/errors"
	zio "github.com/matzehuels/zoomtree/pkg/io"
)

// MongoConfig locates the dataset collection.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Mongo defaults.
const (
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "zoomtree"
	DefaultMongoCollection = "datasets"
)

func (c MongoConfig) withDefaults() MongoConfig {
	if c.URI == "" {
		c.URI = DefaultMongoURI
	}
	if c.Database == "" {
		c.Database = DefaultMongoDatabase
	}
	if c.Collection == "" {
		c.Collection = DefaultMongoCollection
	}
	return c
}

// finder is the slice of *mongo.Collection the loader needs.
type finder interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// Mongo loads the document whose name field matches Name. The document is
// converted to relaxed extended JSON, so the usual {"name", "data"} layout
// decodes with the default data path.
type Mongo struct {
	Name   string
	Config MongoConfig

	// connect is replaced in tests.
	connect func(ctx context.Context, cfg MongoConfig) (finder, func(context.Context) error, error)
}

// NewMongo creates a MongoDB loader.
func NewMongo(name string, cfg MongoConfig) *Mongo {
	return &Mongo{Name: name, Config: cfg.withDefaults(), connect: dial}
}

func dial(ctx context.Context, cfg MongoConfig) (finder, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}
	return client.Database(cfg.Database).Collection(cfg.Collection), client.Disconnect, nil
}

// Fetch connects, loads the document and disconnects.
func (m *Mongo) Fetch(ctx context.Context) (Dataset, error) {
	coll, disconnect, err := m.connect(ctx, m.Config)
	if err != nil {
		return Dataset{}, errors.Wrap(errors.ErrCodeDataLoad, err, "connect %s", m.Config.URI)
	}
	if disconnect != nil {
		defer disconnect(context.WithoutCancel(ctx))
	}

	var doc bson.M
	if err := coll.FindOne(ctx, bson.M{"name": m.Name}).Decode(&doc); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return Dataset{}, errors.New(errors.ErrCodeNotFound, "no dataset named %q in %s.%s", m.Name, m.Config.Database, m.Config.Collection)
		}
		return Dataset{}, errors.Wrap(errors.ErrCodeDataLoad, err, "find %q", m.Name)
	}
	delete(doc, "_id")

	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return Dataset{}, errors.Wrap(errors.ErrCodeDataLoad, err, "convert %q", m.Name)
	}
	return Dataset{Ref: m.String(), Format: zio.FormatJSON, Data: data}, nil
}

func (m *Mongo) String() string { return MongoPrefix + m.Name }
