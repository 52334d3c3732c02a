package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
)

// Format is a dataset document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultDataPath selects the "data" member of the document.
const DefaultDataPath = "$.data"

// maxDepth bounds recursion on hostile inputs.
const maxDepth = 256

// ParseFormat converts a user-supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown dataset format: %q (want json, yaml or toml)", s)
}

// DetectFormat guesses the format from a file name or URL path.
// Unknown extensions are treated as JSON.
func DetectFormat(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return FormatJSON
}

// Decode parses data in the given format and extracts the hierarchy found
// at path. An empty path means [DefaultDataPath].
func Decode(data []byte, f Format, path string) (hierarchy.RawNode, error) {
	doc, err := parse(data, f)
	if err != nil {
		return hierarchy.RawNode{}, err
	}
	v, err := selectRoot(doc, path)
	if err != nil {
		return hierarchy.RawNode{}, err
	}
	return toRaw(v, "$", 0)
}

// Read decodes a dataset from r. It does not close r.
func Read(r io.Reader, f Format, path string) (hierarchy.RawNode, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return hierarchy.RawNode{}, fmt.Errorf("read: %w", err)
	}
	return Decode(data, f, path)
}

// ReadFile reads the dataset at name, detecting the format from its extension.
func ReadFile(name, path string) (hierarchy.RawNode, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return hierarchy.RawNode{}, fmt.Errorf("open %s: %w", name, err)
	}
	raw, err := Decode(data, DetectFormat(name), path)
	if err != nil {
		return hierarchy.RawNode{}, fmt.Errorf("%s: %w", name, err)
	}
	return raw, nil
}

func parse(data []byte, f Format) (any, error) {
	var (
		doc any
		err error
	)
	switch f {
	case FormatJSON, "":
		doc, err = oj.Parse(data)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		var m map[string]any
		err = toml.Unmarshal(data, &m)
		doc = m
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown dataset format: %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", formatName(f))
	}
	return normalize(doc), nil
}

func formatName(f Format) string {
	if f == "" {
		return string(FormatJSON)
	}
	return string(f)
}

// normalize rewrites decoder-specific containers (YAML's map[any]any,
// TOML's []map[string]any) into the map[string]any / []any shapes the
// JSONPath evaluator and toRaw expect.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	case []map[string]any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = normalize(e)
		}
		return s
	}
	return v
}

func selectRoot(doc any, path string) (any, error) {
	explicit := path != "" && path != DefaultDataPath
	if path == "" {
		path = DefaultDataPath
	}
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid data path %q", path)
	}
	if found := x.Get(doc); len(found) > 0 {
		return found[0], nil
	}
	if !explicit {
		if m, ok := doc.(map[string]any); ok {
			if _, ok := m["name"]; ok {
				return doc, nil
			}
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "no hierarchy found at %s", path)
}

func toRaw(v any, where string, depth int) (hierarchy.RawNode, error) {
	if depth > maxDepth {
		return hierarchy.RawNode{}, errors.New(errors.ErrCodeInvalidInput, "%s: hierarchy deeper than %d levels", where, maxDepth)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return hierarchy.RawNode{}, errors.New(errors.ErrCodeInvalidInput, "%s: expected an object, got %T", where, v)
	}

	var raw hierarchy.RawNode
	switch name := m["name"].(type) {
	case nil:
	case string:
		raw.Name = name
	default:
		raw.Name = fmt.Sprint(name)
	}

	var err error
	if raw.Count, err = number(m, "count", where); err != nil {
		return hierarchy.RawNode{}, err
	}
	if raw.TotalCount, err = number(m, "total_count", where); err != nil {
		return hierarchy.RawNode{}, err
	}

	switch kids := m["children"].(type) {
	case nil:
	case []any:
		raw.Children = make([]hierarchy.RawNode, 0, len(kids))
		for i, k := range kids {
			child, err := toRaw(k, where+".children["+strconv.Itoa(i)+"]", depth+1)
			if err != nil {
				return hierarchy.RawNode{}, err
			}
			raw.Children = append(raw.Children, child)
		}
	default:
		return hierarchy.RawNode{}, errors.New(errors.ErrCodeInvalidInput, "%s.children: expected a list, got %T", where, kids)
	}
	return raw, nil
}

func number(m map[string]any, key, where string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s.%s: expected a number, got %T", where, key, v)
	}
	return &f, nil
}
