// Package handler — export.go implements GET /visits/export.
// Returns the full collection in the requested format: JSON (default),
// flat CSV via ?format=csv, or an iCalendar feed via ?format=ics.
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/pgvcc/agenda/internal/domain"
	"github.com/pgvcc/agenda/internal/ics"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "site_id", "site_title", "date", "time_slot",
	"type", "status", "requester_name",
	"title", "description", "location", "label_color", "reminders",
}

// ExportVisits handles GET /visits/export.
func (s *Server) ExportVisits(w http.ResponseWriter, r *http.Request) {
	visits := s.visits.All()

	switch r.URL.Query().Get("format") {
	case "csv":
		s.writeCSV(w, visits)
	case "ics":
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="visitas.ics"`)
		if _, err := w.Write([]byte(ics.Export(visits))); err != nil {
			s.log.Error("ics export write failed", "error", err)
		}
	default:
		s.respondJSON(w, http.StatusOK, visits)
	}
}

// writeCSV encodes the visits as a flat CSV table. Reminder offsets within
// a row are pipe-separated ("|") to keep each visit on a single line.
func (s *Server) writeCSV(w http.ResponseWriter, visits []domain.ScheduledVisit) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, v := range visits {
		//nolint:errcheck
		cw.Write(visitToCSVRecord(v))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="visitas.csv"`)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Error("csv export write failed", "error", err)
	}
}

func visitToCSVRecord(v domain.ScheduledVisit) []string {
	reminders := make([]string, len(v.Reminders))
	for i, m := range v.Reminders {
		reminders[i] = strconv.Itoa(m)
	}
	return []string{
		v.ID,
		strconv.Itoa(v.SiteID),
		v.SiteTitle,
		v.Date,
		v.TimeSlot,
		v.Type,
		string(v.Status),
		v.RequesterName,
		v.Title,
		v.Description,
		v.Location,
		v.LabelColor,
		strings.Join(reminders, "|"),
	}
}
