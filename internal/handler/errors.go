package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pgvcc/agenda/internal/domain"
)

// ErrorDetail is the machine-readable half of an error payload. Code is a
// stable lowercase identifier; Message carries the user-facing Spanish copy.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every error body uses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// respondError maps a service error to the right status and body:
// scheduling rejections become 422 with the reason's code and message,
// missing visits become 404, anything else is a 500 with a generic body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		detail := ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}
		if reason := domain.RejectReason(err); reason != "" {
			detail = ErrorDetail{Code: reason.Code(), Message: reason.Message()}
		}
		s.respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: detail})
	case errors.Is(err, domain.ErrNotFound):
		s.respondJSON(w, http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "not_found", Message: "Evento no encontrado."},
		})
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "internal", Message: "Error interno del servidor."},
		})
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.VisitService.Import: validation error: snapshot must be a
// JSON array" → "snapshot must be a JSON array"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	return msg
}

// respondBadRequest rejects a request before it reaches the service layer
// (missing or malformed body, bad query parameter).
func (s *Server) respondBadRequest(w http.ResponseWriter, message string) {
	s.respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{Code: "bad_request", Message: message},
	})
}
