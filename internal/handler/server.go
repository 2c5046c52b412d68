// Package handler implements the HTTP handlers for the visit scheduling
// API. All handlers are methods on Server; methods are split into
// endpoint-specific files (health.go, visit.go, export.go) but share the
// same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pgvcc/agenda/internal/domain"
	"github.com/pgvcc/agenda/internal/service"
)

// VisitServicer defines the scheduling operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the store or service layer.
type VisitServicer interface {
	Create(ctx context.Context, c service.Candidate) (domain.ScheduledVisit, error)
	Update(ctx context.Context, c service.Candidate) (domain.ScheduledVisit, error)
	Move(ctx context.Context, visitID, targetDateKey string, targetStartHour int) (domain.ScheduledVisit, error)
	MoveToDay(ctx context.Context, visitID, targetDateKey string) (domain.ScheduledVisit, error)
	Delete(ctx context.Context, visitID string) error
	Get(visitID string) (domain.ScheduledVisit, error)
	List(p domain.PaginationParams) ([]domain.ScheduledVisit, int)
	All() []domain.ScheduledVisit
	Import(ctx context.Context, raw []byte) ([]domain.ScheduledVisit, int, error)
}

// Server holds the dependencies shared by all endpoint handlers.
type Server struct {
	visits VisitServicer
	log    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(visits VisitServicer, log *slog.Logger) *Server {
	return &Server{visits: visits, log: log}
}

// Routes registers every endpoint on a fresh router. Middleware is wired
// by the caller (main.go) around this router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Route("/visits", func(r chi.Router) {
		r.Get("/", s.ListVisits)
		r.Post("/", s.CreateVisit)
		r.Post("/import", s.ImportVisits)
		r.Get("/export", s.ExportVisits)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetVisit)
			r.Put("/", s.UpdateVisit)
			r.Delete("/", s.DeleteVisit)
			r.Post("/move", s.MoveVisit)
		})
	})
	return r
}

// respondJSON writes v as a JSON body with the given status. Encoding
// failures are logged, not surfaced: the status line is already gone.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encode failed", "error", err)
	}
}
