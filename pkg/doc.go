// Package pkg provides the core libraries for zoomtree hierarchy visualization.
//
// # Overview
//
// zoomtree turns a nested dataset (a name, an optional count and children)
// into a zoomable treemap: each node is a rectangle whose area follows the
// total count of the leaves below it, and clicking a tile zooms the view into
// that subtree. The pkg directory is organized into these areas:
//
//  1. [hierarchy] - Building the weighted tree from decoded records
//  2. [render] - Treemap layout, colors, scene graph, zoom and export sinks
//  3. [source], [io] - Loading datasets from files, URLs and MongoDB
//  4. [cache], [session] - Dataset and render caching, live server views
//  5. [pipeline] - Orchestration (load → build → layout → render)
//  6. [server] - HTTP API and browser client
//
// # Architecture
//
// The typical data flow through zoomtree:
//
//	File / URL / MongoDB
//	         ↓
//	    [source] + [io] (fetch and decode, select the hierarchy by JSONPath)
//	         ↓
//	    [hierarchy] (weights, depths, IDs)
//	         ↓
//	    [render/treemap] (layout + colors + zoom)
//	         ↓
//	    SVG/PNG/PDF/JSON output, or a live view over a websocket
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/zoomtree/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Source:  "housing.json",
//	    Focus:   "0.2",
//	    Formats: []string{"svg", "png"},
//	})
//	os.WriteFile("housing.svg", result.Artifacts["svg"], 0o644)
//
// [hierarchy]: github.com/matzehuels/zoomtree/pkg/hierarchy
// [render]: github.com/matzehuels/zoomtree/pkg/render
// [source]: github.com/matzehuels/zoomtree/pkg/source
// [io]: github.com/matzehuels/zoomtree/pkg/io
// [cache]: github.com/matzehuels/zoomtree/pkg/cache
// [session]: github.com/matzehuels/zoomtree/pkg/session
// [pipeline]: github.com/matzehuels/zoomtree/pkg/pipeline
// [server]: github.com/matzehuels/zoomtree/pkg/server
package pkg
