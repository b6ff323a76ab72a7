package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/yaklabco/richdraft/internal/logging"
	"github.com/yaklabco/richdraft/pkg/convert"
	"github.com/yaklabco/richdraft/pkg/editor"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
}

type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func decodeJSON(body io.Reader, v any) error {
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return badRequest("decode request: %v", err)
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		tooLarge *http.MaxBytesError
		reqErr   *requestError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &reqErr),
		errors.Is(err, richtext.ErrMalformedWireFormat),
		errors.Is(err, editor.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, convert.ErrUnsupportedFormat):
		return http.StatusNotFound
	case errors.Is(err, richtext.ErrInvalidSelection),
		errors.Is(err, richtext.ErrNotFound),
		errors.Is(err, editor.ErrCollapsedSelection),
		errors.Is(err, editor.ErrNotCollapsed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var malformed *richtext.MalformedWireFormatError
	if errors.As(err, &malformed) {
		resp.Path = malformed.Path
	}

	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.FieldError, err)
		resp.Error = http.StatusText(status)
	} else {
		logger.Debug("request rejected", logging.FieldStatus, status, logging.FieldError, err)
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
