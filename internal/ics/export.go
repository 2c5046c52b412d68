// Package ics renders the visit collection as an iCalendar feed so visits
// can be subscribed to from external calendar clients.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/pgvcc/agenda/internal/domain"
	"github.com/pgvcc/agenda/internal/schedule"
)

const prodID = "-//PGVCC//Agenda de Visitas//ES"

// Export serializes the visits to an iCalendar document. Visits whose date
// or time slot cannot be parsed are skipped rather than poisoning the feed.
// Reminders become DISPLAY alarms with negative triggers.
func Export(visits []domain.ScheduledVisit) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	for _, v := range visits {
		date, ok := schedule.FromDateKey(v.Date)
		if !ok {
			continue
		}
		slot, ok := schedule.ParseTimeSlot(v.TimeSlot)
		if !ok {
			continue
		}
		dv := v.Display()

		start := date.Add(time.Duration(slot.Start) * time.Minute)
		end := date.Add(time.Duration(slot.End) * time.Minute)

		ev := cal.AddEvent(fmt.Sprintf("%s@pgvcc.agenda", v.ID))
		ev.SetSummary(dv.DisplayTitle)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetLocation(dv.DisplayLocation)
		if v.Description != "" {
			ev.SetDescription(v.Description)
		}
		ev.SetProperty(ical.ComponentPropertyStatus, statusValue(v.Status))
		ev.SetProperty(ical.ComponentPropertyCategories, v.Type)

		for _, minutes := range v.Reminders {
			alarm := ev.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", minutes))
		}
	}
	return cal.Serialize()
}

// statusValue maps visit status to the VEVENT STATUS vocabulary.
func statusValue(s domain.VisitStatus) string {
	switch s {
	case domain.StatusConfirmed, domain.StatusCompleted:
		return "CONFIRMED"
	default:
		return "TENTATIVE"
	}
}
