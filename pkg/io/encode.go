package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/zoomtree/pkg/hierarchy"
)

type document struct {
	Data hierarchy.RawNode `json:"data"`
}

// WriteJSON writes raw to w as {"data": raw}, the layout [Decode] reads by default.
func WriteJSON(raw hierarchy.RawNode, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Data: raw}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes raw to a JSON file at path.
func ExportJSON(raw hierarchy.RawNode, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(raw, f)
}
