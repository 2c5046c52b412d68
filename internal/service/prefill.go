package service

import (
	"fmt"

	"github.com/pgvcc/agenda/internal/domain"
	"github.com/pgvcc/agenda/internal/schedule"
)

// DraftMode distinguishes the two event-modal flavors.
type DraftMode string

const (
	DraftCreate DraftMode = "create"
	DraftEdit   DraftMode = "edit"
)

// Draft is the prefilled state of the event modal: a one-hour slot for
// creates, the projected stored values for edits. It is transient UI state,
// never persisted.
type Draft struct {
	Mode        DraftMode
	VisitID     string
	Title       string
	Description string
	DateKey     string
	StartTime   string
	EndTime     string
	Location    string
	LabelColor  string
	Reminders   []int
}

// PrefillCreate builds the draft for a new visit on an empty cell: a
// one-hour slot starting at the clicked hour (09:00 when no hour was
// clicked), clamped to the operating window, never shorter than fifteen
// minutes. Rejects unparseable and past dates up front so the modal never
// opens on a day the engine would refuse.
func (s *VisitService) PrefillCreate(dateKey string, startHour *int, siteTitle string) (Draft, error) {
	date, ok := schedule.FromDateKey(dateKey)
	if !ok {
		return Draft{}, domain.Reject(domain.ReasonInvalidDate)
	}
	if !schedule.IsSelectable(date, s.Today()) {
		return Draft{}, domain.Reject(domain.ReasonPastDate)
	}

	hour := 9
	if startHour != nil {
		hour = *startHour
	}
	start := schedule.ClampToWindow(hour * 60)
	end := schedule.ClampToWindow(start + 60)
	if end < start+15 {
		end = start + 15
	}

	return Draft{
		Mode:       DraftCreate,
		DateKey:    dateKey,
		StartTime:  schedule.FormatMinutes(start),
		EndTime:    schedule.FormatMinutes(end),
		Location:   siteTitle,
		LabelColor: domain.DefaultLabelColor,
	}, nil
}

// PrefillEdit builds the draft for an existing visit from its display
// projection. A stored slot that no longer parses surfaces InvalidTime.
func (s *VisitService) PrefillEdit(visitID string) (Draft, error) {
	visit, err := s.store.Get(visitID)
	if err != nil {
		return Draft{}, fmt.Errorf("service.VisitService.PrefillEdit: %w", err)
	}
	slot, ok := schedule.ParseTimeSlot(visit.TimeSlot)
	if !ok {
		return Draft{}, domain.Reject(domain.ReasonInvalidTime)
	}

	d := visit.Display()
	return Draft{
		Mode:        DraftEdit,
		VisitID:     visit.ID,
		Title:       d.DisplayTitle,
		Description: visit.Description,
		DateKey:     visit.Date,
		StartTime:   schedule.FormatMinutes(slot.Start),
		EndTime:     schedule.FormatMinutes(slot.End),
		Location:    d.DisplayLocation,
		LabelColor:  d.DisplayColor,
		Reminders:   visit.Reminders,
	}, nil
}

// DefaultVocabulary returns the default title and type for a new visit at a
// site. Inspections use the technical-review vocabulary; everything else is
// a regular site visit. Validation rules are identical either way.
func DefaultVocabulary(siteTitle string, isInspection bool) (title, visitType string) {
	if isInspection {
		return "Inspección: " + siteTitle, "Revisión Técnica"
	}
	return "Visita a " + siteTitle, "Escolar"
}
