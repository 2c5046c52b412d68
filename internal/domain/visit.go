// Package domain contains the core data types for the visit scheduling
// service. This package has zero external dependencies beyond uuid and is
// imported by every other internal package (store, service, handler).
package domain

// VisitStatus is the externally-driven lifecycle tag of a visit.
// The scheduling core stores and round-trips it but does not manage
// transitions between values.
type VisitStatus string

const (
	StatusPending   VisitStatus = "Pending"
	StatusConfirmed VisitStatus = "Confirmed"
	StatusCompleted VisitStatus = "Completed"
)

// Valid reports whether s is one of the three known status values.
func (s VisitStatus) Valid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

// DefaultLabelColor is the tint applied to visits without an explicit color.
const DefaultLabelColor = "#ec4899"

// PresetReminders are the minute offsets offered by the scheduling UI.
// Custom positive offsets are also accepted.
var PresetReminders = []int{5, 10, 30, 60, 1440}

// ScheduledVisit is the sole durable entity of the scheduling core.
//
// Date is a canonical YYYY-MM-DD key and TimeSlot a "HH:MM - HH:MM"
// interval inside a single day; both are validated by the scheduling
// engine, never by the store. Title, Description, Location, LabelColor
// and Reminders are optional display overrides — read them through
// Display(), which applies the fallback chain.
type ScheduledVisit struct {
	ID            string      `json:"id"`
	SiteID        int         `json:"siteId"`
	SiteTitle     string      `json:"siteTitle"`
	Date          string      `json:"date"`
	TimeSlot      string      `json:"timeSlot"`
	Type          string      `json:"type"`
	Status        VisitStatus `json:"status"`
	RequesterName string      `json:"requesterName"`
	Title         string      `json:"title,omitempty"`
	Description   string      `json:"description,omitempty"`
	Location      string      `json:"location,omitempty"`
	LabelColor    string      `json:"labelColor,omitempty"`
	Reminders     []int       `json:"reminders,omitempty"`
}

// VisitUpdate carries the fields a move operation may change.
// Everything else on the visit is immutable under a move.
type VisitUpdate struct {
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
}

// SeedVisit is the canonical record used when durable storage holds no
// valid entries.
func SeedVisit() ScheduledVisit {
	return ScheduledVisit{
		ID:            "v1",
		SiteID:        1,
		SiteTitle:     "Chichén Itzá",
		Date:          "2025-12-17",
		TimeSlot:      "09:15 - 10:15",
		Type:          "Escolar",
		Status:        StatusConfirmed,
		RequesterName: "Escuela Primaria Benito Juárez",
	}
}
