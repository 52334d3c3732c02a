package server

import (
	"context"
	"embed"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/zoomtree/pkg/buildinfo"
	"github.com/matzehuels/zoomtree/pkg/cache"
	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	zio "github.com/matzehuels/zoomtree/pkg/io"
	"github.com/matzehuels/zoomtree/pkg/pipeline"
)

//go:embed web/index.html
var web embed.FS

// contentTypes maps render formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"nodes":   s.tree.Stats().Nodes,
		"views":   s.sessions.Len(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := web.ReadFile("web/index.html")
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "read client page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := zio.WriteJSON(s.raw, w); err != nil {
		s.logger.Warn("write tree", "err", err)
	}
}

// handleRender renders a fresh view settled on ?focus=.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := s.requestOptions(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.render(r.Context(), opts, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, data)
}

// requestOptions derives pipeline options for one artifact from the query.
func (s *Server) requestOptions(r *http.Request, format string) (pipeline.Options, error) {
	opts := s.base
	opts.Formats = []string{format}
	q := r.URL.Query()
	if v := q.Get("focus"); v != "" {
		opts.Focus = v
	}
	if v := q.Get("type"); v != "" {
		opts.VizType = v
	}
	var err error
	if opts.Width, err = floatParam(q.Get("width"), opts.Width); err != nil {
		return opts, err
	}
	if opts.Height, err = floatParam(q.Get("height"), opts.Height); err != nil {
		return opts, err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return opts, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return opts, err
	}
	return opts, nil
}

// render produces one artifact, consulting the render cache first.
func (s *Server) render(ctx context.Context, opts pipeline.Options, format string) ([]byte, error) {
	key := s.runner.Keyer.RenderKey(s.hash, opts.RenderKeyOpts(format))
	if data, hit, err := s.runner.Cache.Get(ctx, key); err == nil && hit {
		return data, nil
	}

	tree := hierarchy.Build(s.raw)
	var (
		artifacts map[string][]byte
		err       error
	)
	if opts.IsNodelink() {
		artifacts, err = pipeline.RenderNodelink(ctx, tree, opts)
	} else {
		var v *pipeline.View
		if v, _, err = pipeline.Layout(ctx, tree, opts); err == nil {
			artifacts, err = pipeline.RenderView(ctx, v, opts)
		}
	}
	if err != nil {
		return nil, err
	}

	data := artifacts[format]
	if err := s.runner.Cache.Set(ctx, key, data, cache.TTLRender); err != nil {
		s.logger.Warn("cache render", "format", format, "err", err)
	}
	return data, nil
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func floatParam(v string, fallback float64) (float64, error) {
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid dimension %q", v)
	}
	return f, nil
}
