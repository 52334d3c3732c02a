package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/session"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps an error to an HTTP status and error code.
func statusFor(err error) (int, errors.Code) {
	switch {
	case stderrors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, errors.ErrCodeNotFound
	case stderrors.Is(err, session.ErrExpired):
		return http.StatusGone, errors.ErrCodeNotFound
	}

	code := errors.GetCodeOr(err, errors.ErrCodeInternal)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeNotVisible:
		return http.StatusBadRequest, code
	case errors.ErrCodeNotFound:
		return http.StatusNotFound, code
	case errors.ErrCodeTransitionInFlight:
		return http.StatusConflict, code
	case errors.ErrCodeDataLoad, errors.ErrCodeNetwork:
		return http.StatusBadGateway, code
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented, code
	default:
		return http.StatusInternalServerError, errors.ErrCodeInternal
	}
}
