package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/pipeline"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/color"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/zoom"
	"github.com/matzehuels/zoomtree/pkg/session"
)

// CreateViewRequest is the optional body of POST /api/views.
type CreateViewRequest struct {
	Focus  string  `json:"focus,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// ViewResponse describes a view's settled state.
type ViewResponse struct {
	ID         string           `json:"id"`
	Root       string           `json:"root"`
	Path       string           `json:"path"`
	Categories []color.Category `json:"categories"`
	Snapshot   scene.Snapshot   `json:"snapshot"`
}

// Message is a websocket frame. Clients send "click" (with ID) and "back";
// the server answers with "transition", "noop" or "error", and greets new
// connections with "snapshot".
type Message struct {
	Type       string           `json:"type"`
	ID         string           `json:"id,omitempty"`
	Root       string           `json:"root,omitempty"`
	Path       string           `json:"path,omitempty"`
	Transition *zoom.Transition `json:"transition,omitempty"`
	View       *ViewResponse    `json:"view,omitempty"`
	Error      *ErrorResponse   `json:"error,omitempty"`
}

// Message types.
const (
	MsgClick      = "click"
	MsgBack       = "back"
	MsgTransition = "transition"
	MsgNoop       = "noop"
	MsgError      = "error"
	MsgSnapshot   = "snapshot"
)

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var req CreateViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode view request"))
		return
	}

	opts := s.base
	if req.Focus != "" {
		opts.Focus = req.Focus
	}
	if req.Width > 0 {
		opts.Width = req.Width
	}
	if req.Height > 0 {
		opts.Height = req.Height
	}

	sess, err := s.newSession(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("view created", "id", sess.ID, "root", sess.View.Controller.State().Root.ID)
	writeJSON(w, http.StatusCreated, describe(sess))
}

func (s *Server) newSession(ctx context.Context, opts pipeline.Options) (*session.Session, error) {
	v, err := pipeline.NewView(hierarchy.Build(s.raw), opts, zoom.WithAnimator(scene.Immediate{}))
	if err != nil {
		return nil, err
	}
	if err := v.Focus(ctx, opts.Focus); err != nil {
		return nil, err
	}
	sess, err := session.New(v, opts, s.sessions.TTL())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create session")
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Mu.Lock()
	resp := describe(sess)
	sess.Mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.sessions.Get(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sessions.Delete(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// handleRenderView renders a view in its current state.
func (s *Server) handleRenderView(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := chi.URLParam(r, "format")
	opts := sess.Options
	opts.Formats = []string{format}

	sess.Mu.Lock()
	artifacts, err := pipeline.RenderView(r.Context(), sess.View, opts)
	sess.Mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, artifacts[format])
}

// handleEvents upgrades to a websocket and applies zoom events in order.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "id", sess.ID, "err", err)
		return
	}
	defer conn.Close()

	sess.Mu.Lock()
	hello := describe(sess)
	sess.Mu.Unlock()
	if err := conn.WriteJSON(Message{Type: MsgSnapshot, View: &hello}); err != nil {
		return
	}

	ctx := r.Context()
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket closed", "id", sess.ID, "err", err)
			}
			return
		}
		sess.Touch(s.sessions.TTL())

		reply := s.apply(ctx, sess, msg)
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

// apply runs one zoom event against the session's view.
func (s *Server) apply(ctx context.Context, sess *session.Session, msg Message) Message {
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	t, err := s.zoom(ctx, sess.View.Controller, msg)
	root := sess.View.Controller.State().Root
	switch {
	case err != nil:
		_, code := statusFor(err)
		return Message{Type: MsgError, Root: root.ID, Error: &ErrorResponse{Code: code, Message: errors.UserMessage(err)}}
	case t == nil:
		return Message{Type: MsgNoop, Root: root.ID, Path: root.Path()}
	default:
		s.logger.Debug("zoom", "id", sess.ID, "direction", t.Direction, "from", t.From, "to", t.To)
		return Message{Type: MsgTransition, Root: root.ID, Path: root.Path(), Transition: t}
	}
}

// zoom maps a client event to a controller call the same way the scene
// routes pointer events: the header of a nested root zooms out, tiles with
// children zoom in, leaves are ignored. Only the current root's children
// are tiles.
func (s *Server) zoom(ctx context.Context, c *zoom.Controller, msg Message) (*zoom.Transition, error) {
	switch msg.Type {
	case MsgBack:
		return c.ZoomOut(ctx)
	case MsgClick:
		if err := errors.ValidateNodeID(msg.ID); err != nil {
			return nil, err
		}
		root := c.State().Root
		if msg.ID == root.ID {
			return c.ZoomOut(ctx)
		}
		n, err := c.Tree().Find(msg.ID)
		if err != nil {
			return nil, err
		}
		if n.Parent != root {
			return nil, errors.New(errors.ErrCodeNotVisible, "node %s is not a tile of %s", n.ID, root.ID)
		}
		if n.IsLeaf() {
			return nil, nil
		}
		return c.ZoomIn(ctx, n)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown message type %q", msg.Type)
	}
}

func describe(sess *session.Session) ViewResponse {
	c := sess.View.Controller
	root := c.State().Root
	return ViewResponse{
		ID:         sess.ID,
		Root:       root.ID,
		Path:       root.Path(),
		Categories: c.Colors().Categories(),
		Snapshot:   sess.View.Scene.Snapshot(),
	}
}
