package store

import (
	"encoding/json"

	"github.com/pgvcc/agenda/internal/domain"
)

// EncodeSnapshot marshals the collection as the JSON array the browser
// portal stored under its pgvcc.scheduledVisits key. The wire shape is the
// storage contract and must stay importable by DecodeSnapshot.
func EncodeSnapshot(visits []domain.ScheduledVisit) ([]byte, error) {
	if visits == nil {
		visits = []domain.ScheduledVisit{}
	}
	return json.Marshal(visits)
}

// DecodeSnapshot parses a snapshot document, silently dropping every entry
// that fails the shape contract (wrong type, unknown status, non-numeric
// reminders, and so on). It returns the surviving visits and how many
// entries were dropped. A document that is not a JSON array yields zero
// visits — the caller falls back to the seed.
func DecodeSnapshot(raw []byte) (visits []domain.ScheduledVisit, dropped int) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, 0
	}
	visits = make([]domain.ScheduledVisit, 0, len(entries))
	for _, entry := range entries {
		v, ok := decodeVisit(entry)
		if !ok {
			dropped++
			continue
		}
		visits = append(visits, v)
	}
	return visits, dropped
}

// decodeVisit validates one snapshot entry structurally and maps it to the
// domain type. Mirrors the shape guard the browser applied on load.
func decodeVisit(raw json.RawMessage) (domain.ScheduledVisit, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.ScheduledVisit{}, false
	}

	var v domain.ScheduledVisit
	if !requireString(fields, "id", &v.ID) ||
		!requireNumber(fields, "siteId", &v.SiteID) ||
		!requireString(fields, "siteTitle", &v.SiteTitle) ||
		!requireString(fields, "date", &v.Date) ||
		!requireString(fields, "timeSlot", &v.TimeSlot) ||
		!requireString(fields, "type", &v.Type) ||
		!requireString(fields, "requesterName", &v.RequesterName) {
		return domain.ScheduledVisit{}, false
	}

	var status string
	if !requireString(fields, "status", &status) || !domain.VisitStatus(status).Valid() {
		return domain.ScheduledVisit{}, false
	}
	v.Status = domain.VisitStatus(status)

	if !optionalString(fields, "title", &v.Title) ||
		!optionalString(fields, "description", &v.Description) ||
		!optionalString(fields, "location", &v.Location) ||
		!optionalString(fields, "labelColor", &v.LabelColor) {
		return domain.ScheduledVisit{}, false
	}

	if rawReminders, ok := fields["reminders"]; ok {
		var reminders []float64
		if err := json.Unmarshal(rawReminders, &reminders); err != nil {
			return domain.ScheduledVisit{}, false
		}
		v.Reminders = make([]int, len(reminders))
		for i, r := range reminders {
			v.Reminders[i] = int(r)
		}
	}

	return v, true
}

func requireString(fields map[string]json.RawMessage, key string, dst *string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func optionalString(fields map[string]json.RawMessage, key string, dst *string) bool {
	raw, ok := fields[key]
	if !ok {
		return true
	}
	return json.Unmarshal(raw, dst) == nil
}

func requireNumber(fields map[string]json.RawMessage, key string, dst *int) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return false
	}
	*dst = int(f)
	return true
}
