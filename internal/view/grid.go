package view

import (
	"time"

	"github.com/pgvcc/agenda/internal/schedule"
)

// GridCell is one square of a month grid.
type GridCell struct {
	Date    time.Time
	DateKey string
	InMonth bool
}

// MonthGrid lays out the 6x7 grid for the month containing date. The grid
// always has 42 cells; the leading and trailing cells spill into the
// neighboring months and are marked InMonth=false. Weeks start on Sunday.
func MonthGrid(date time.Time) []GridCell {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	startOffset := int(first.Weekday())

	cells := make([]GridCell, 0, 42)
	for i := 0; i < 42; i++ {
		d := first.AddDate(0, 0, i-startOffset)
		cells = append(cells, GridCell{
			Date:    d,
			DateKey: schedule.ToDateKey(d),
			InMonth: d.Month() == date.Month(),
		})
	}
	return cells
}

// WeekDays returns the seven days of the week containing date, Sunday first.
func WeekDays(date time.Time) []time.Time {
	start := schedule.StartOfWeek(date)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = schedule.AddDays(start, i)
	}
	return days
}
