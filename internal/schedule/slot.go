package schedule

import "strings"

// Operating window of every site: visits must fall entirely inside
// 09:00–17:00.
const (
	OpenMinutes  = 9 * 60
	CloseMinutes = 17 * 60
)

// Hours lists the grid rows of the day and week views (9:00 through 17:00).
func Hours() []int {
	hours := make([]int, 0, 9)
	for h := 9; h <= 17; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Slot is a parsed time interval within a single day, in minutes after
// midnight. Start < End for every slot the engine accepts.
type Slot struct {
	Start int
	End   int
}

// Duration returns the slot length in minutes, never negative.
func (s Slot) Duration() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Overlaps applies the strict interval intersection test. Touching slots
// (one ends exactly where the other starts) do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	return max(s.Start, o.Start) < min(s.End, o.End)
}

// StartHour is the hour-of-day the slot begins in, used by the per-hour
// render index.
func (s Slot) StartHour() int {
	return s.Start / 60
}

// String renders the slot in its canonical "HH:MM - HH:MM" form.
func (s Slot) String() string {
	return FormatMinutes(s.Start) + " - " + FormatMinutes(s.End)
}

// ParseTimeSlot parses an "HH:MM - HH:MM" string. Returns ok=false when
// either side fails to parse.
func ParseTimeSlot(timeSlot string) (Slot, bool) {
	parts := strings.SplitN(timeSlot, "-", 2)
	if len(parts) != 2 {
		return Slot{}, false
	}
	start, okStart := ParseTimeToMinutes(parts[0])
	end, okEnd := ParseTimeToMinutes(parts[1])
	if !okStart || !okEnd {
		return Slot{}, false
	}
	return Slot{Start: start, End: end}, true
}

// InWindow reports whether the slot lies entirely inside the operating
// window. The window is inclusive on both edges: a visit may start at
// 09:00 and end at 17:00.
func (s Slot) InWindow() bool {
	return s.Start >= OpenMinutes && s.End <= CloseMinutes
}

// ClampToWindow snaps a minute value into the operating window.
func ClampToWindow(minutes int) int {
	if minutes < OpenMinutes {
		return OpenMinutes
	}
	if minutes > CloseMinutes {
		return CloseMinutes
	}
	return minutes
}
