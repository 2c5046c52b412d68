// Package view computes the read-side projections of the calendar: the
// per-date and per-hour event index the grids render from, header labels,
// and the month grid cells. Everything here is derived from the visit list
// and rebuilt whenever it changes.
package view

import (
	"fmt"
	"time"

	"github.com/pgvcc/agenda/internal/domain"
	"github.com/pgvcc/agenda/internal/schedule"
)

// EventIndex groups visits by the keys the calendar grids look up:
// whole-day lists, hour rows, and per-date / per-month counters.
type EventIndex struct {
	ByDate       map[string][]domain.ScheduledVisit
	ByDateHour   map[string][]domain.ScheduledVisit
	CountByDate  map[string]int
	CountByMonth map[string]int
}

// HourKey is the lookup key for an hour row.
func HourKey(dateKey string, hour int) string {
	return fmt.Sprintf("%s|%d", dateKey, hour)
}

// MonthKey is the lookup key for a month counter.
func MonthKey(date time.Time) string {
	return fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
}

// BuildIndex computes the event index for the given list in one pass.
// Visits with an unparseable date still land in ByDate and CountByDate
// under their raw key; visits with an unparseable time slot are simply
// absent from the hour rows.
func BuildIndex(visits []domain.ScheduledVisit) *EventIndex {
	idx := &EventIndex{
		ByDate:       make(map[string][]domain.ScheduledVisit),
		ByDateHour:   make(map[string][]domain.ScheduledVisit),
		CountByDate:  make(map[string]int),
		CountByMonth: make(map[string]int),
	}
	for _, v := range visits {
		idx.ByDate[v.Date] = append(idx.ByDate[v.Date], v)
		idx.CountByDate[v.Date]++

		if d, ok := schedule.FromDateKey(v.Date); ok {
			idx.CountByMonth[MonthKey(d)]++
		}

		if slot, ok := schedule.ParseTimeSlot(v.TimeSlot); ok {
			key := HourKey(v.Date, slot.StartHour())
			idx.ByDateHour[key] = append(idx.ByDateHour[key], v)
		}
	}
	return idx
}

// AtHour returns the visits whose slot starts in the given hour of a day.
func (idx *EventIndex) AtHour(dateKey string, hour int) []domain.ScheduledVisit {
	return idx.ByDateHour[HourKey(dateKey, hour)]
}
