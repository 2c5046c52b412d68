package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pgvcc/agenda/internal/domain"
	"github.com/pgvcc/agenda/internal/service"
)

// visitRequest is the body of POST /visits and PUT /visits/{id}. Dates are
// YYYY-MM-DD keys and times HH:MM, matching the stored representation.
type visitRequest struct {
	SiteID        int    `json:"siteId"`
	SiteTitle     string `json:"siteTitle"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Location      string `json:"location"`
	LabelColor    string `json:"labelColor"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	RequesterName string `json:"requesterName"`
	Reminders     []int  `json:"reminders"`
}

// moveRequest is the body of POST /visits/{id}/move. Hour present means an
// hour-precision drop; absent means a whole-day drop that keeps the
// current time slot.
type moveRequest struct {
	Date string `json:"date"`
	Hour *int   `json:"hour"`
}

// listResponse pages the collection the same way every list endpoint does.
type listResponse struct {
	Data       []domain.ScheduledVisit `json:"data"`
	Pagination pagination              `json:"pagination"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// CreateVisit handles POST /visits.
func (s *Server) CreateVisit(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeCandidate(w, r, "")
	if !ok {
		return
	}
	created, err := s.visits.Create(r.Context(), c)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

// ListVisits handles GET /visits.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListVisits(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	visits, total := s.visits.List(params)
	s.respondJSON(w, http.StatusOK, listResponse{
		Data: visits,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetVisit handles GET /visits/{id}.
func (s *Server) GetVisit(w http.ResponseWriter, r *http.Request) {
	visit, err := s.visits.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, visit)
}

// UpdateVisit handles PUT /visits/{id}.
func (s *Server) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeCandidate(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	updated, err := s.visits.Update(r.Context(), c)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

// DeleteVisit handles DELETE /visits/{id}.
func (s *Server) DeleteVisit(w http.ResponseWriter, r *http.Request) {
	if err := s.visits.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveVisit handles POST /visits/{id}/move: the commit half of a drag.
// With an hour the visit is re-slotted at that start hour keeping its
// duration; without one only the date changes.
func (s *Server) MoveVisit(w http.ResponseWriter, r *http.Request) {
	var body moveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondBadRequest(w, "cuerpo de la petición inválido")
		return
	}
	id := chi.URLParam(r, "id")

	var (
		moved domain.ScheduledVisit
		err   error
	)
	if body.Hour != nil {
		moved, err = s.visits.Move(r.Context(), id, body.Date, *body.Hour)
	} else {
		moved, err = s.visits.MoveToDay(r.Context(), id, body.Date)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, moved)
}

// ImportVisits handles POST /visits/import: replaces the whole collection
// with the posted JSON array. Unusable entries are dropped and counted.
func (s *Server) ImportVisits(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondBadRequest(w, "no fue posible leer el cuerpo de la petición")
		return
	}
	visits, dropped, err := s.visits.Import(r.Context(), raw)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"imported": len(visits),
		"dropped":  dropped,
	})
}

// decodeCandidate parses a visitRequest body into a service.Candidate.
// Returns ok=false after writing the error response.
func (s *Server) decodeCandidate(w http.ResponseWriter, r *http.Request, visitID string) (service.Candidate, bool) {
	var body visitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondBadRequest(w, "cuerpo de la petición inválido")
		return service.Candidate{}, false
	}
	status := domain.VisitStatus(body.Status)
	if body.Status != "" && !status.Valid() {
		s.respondBadRequest(w, "estado de visita desconocido")
		return service.Candidate{}, false
	}
	return service.Candidate{
		VisitID:       visitID,
		SiteID:        body.SiteID,
		SiteTitle:     body.SiteTitle,
		Title:         body.Title,
		Description:   body.Description,
		DateKey:       body.Date,
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
		Location:      body.Location,
		LabelColor:    body.LabelColor,
		Type:          body.Type,
		Status:        status,
		RequesterName: body.RequesterName,
		Reminders:     body.Reminders,
	}, true
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
