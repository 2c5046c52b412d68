package gesture

import (
	"time"

	"github.com/pgvcc/agenda/internal/schedule"
)

// ViewMode is the granularity of the calendar surface.
type ViewMode string

const (
	ViewDay   ViewMode = "Día"
	ViewWeek  ViewMode = "Semana"
	ViewMonth ViewMode = "Mes"
	ViewYear  ViewMode = "Año"
)

// Navigator holds the view mode and drives prev/next stepping. Each step
// moves the tracker's active date by one unit of the current view.
type Navigator struct {
	tracker *Tracker
	view    ViewMode
}

// NewNavigator wraps tracker with view navigation, starting on the day view.
func NewNavigator(tracker *Tracker) *Navigator {
	return &Navigator{tracker: tracker, view: ViewDay}
}

func (n *Navigator) View() ViewMode        { return n.view }
func (n *Navigator) SetView(view ViewMode) { n.view = view }

// Prev steps the active date one unit back for the current view.
func (n *Navigator) Prev() time.Time { return n.step(-1) }

// Next steps the active date one unit forward.
func (n *Navigator) Next() time.Time { return n.step(1) }

func (n *Navigator) step(dir int) time.Time {
	d := n.tracker.ActiveDate()
	switch n.view {
	case ViewYear:
		d = schedule.AddYears(d, dir)
	case ViewMonth:
		d = schedule.AddMonths(d, dir)
	case ViewWeek:
		d = schedule.AddDays(d, 7*dir)
	default:
		d = schedule.AddDays(d, dir)
	}
	// Stepping bypasses selectability on purpose: browsing into the past
	// is allowed, scheduling into it is not.
	n.tracker.activeDate = d
	return d
}
