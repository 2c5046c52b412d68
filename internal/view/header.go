package view

import (
	"fmt"
	"time"

	"github.com/pgvcc/agenda/internal/schedule"
)

// Calendar copy is Spanish throughout, matching the rest of the surface.
var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

var weekdayNames = [7]string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

// MonthName returns the Spanish name of date's month.
func MonthName(date time.Time) string { return monthNames[int(date.Month())-1] }

// WeekdayName returns the Spanish name of date's weekday.
func WeekdayName(date time.Time) string { return weekdayNames[int(date.Weekday())] }

// Mode mirrors the calendar's four granularities for label purposes.
type Mode string

const (
	ModeDay   Mode = "Día"
	ModeWeek  Mode = "Semana"
	ModeMonth Mode = "Mes"
	ModeYear  Mode = "Año"
)

// HeaderTitle builds the large header label for the active date and view.
// Week titles span the Sunday-to-Saturday range and show both month names
// when the week crosses a month boundary.
func HeaderTitle(date time.Time, mode Mode) string {
	switch mode {
	case ModeYear:
		return fmt.Sprintf("%d", date.Year())
	case ModeMonth:
		return fmt.Sprintf("%s %d", MonthName(date), date.Year())
	case ModeWeek:
		weekStart := schedule.StartOfWeek(date)
		weekEnd := schedule.AddDays(weekStart, 6)
		monthLabel := MonthName(weekStart)
		if weekStart.Month() != weekEnd.Month() {
			monthLabel = fmt.Sprintf("%s / %s", MonthName(weekStart), MonthName(weekEnd))
		}
		return fmt.Sprintf("%d–%d %s %d", weekStart.Day(), weekEnd.Day(), monthLabel, weekEnd.Year())
	default:
		return fmt.Sprintf("%d %s %d", date.Day(), MonthName(date), date.Year())
	}
}

// HeaderSubtitle is the small caption under the title: the weekday name on
// the day view, the view's own name otherwise.
func HeaderSubtitle(date time.Time, mode Mode) string {
	if mode == ModeDay {
		return WeekdayName(date)
	}
	return string(mode)
}

// LongDate renders "Miércoles, 17 de Diciembre de 2025", as shown in the
// visit editor.
func LongDate(date time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d", WeekdayName(date), date.Day(), MonthName(date), date.Year())
}
