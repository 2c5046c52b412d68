// Package gesture is the interaction controller of the calendar: it
// translates pointer, drag, and touch input into scheduling-engine calls
// and owns all transient interaction state (in-flight drag payload, drop
// target, per-pointer gesture record). Nothing here mutates a visit — the
// tracker only resolves gestures into actions the host executes through
// the engine.
package gesture

import (
	"math"
	"time"

	"github.com/pgvcc/agenda/internal/clock"
	"github.com/pgvcc/agenda/internal/schedule"
)

// DragThreshold is the movement (in pixels) that separates a tap from a
// drag. Below the threshold a pointer-up is a tap; at or above it the
// gesture is a drag.
const DragThreshold = 8.0

// Cell identifies a calendar drop cell. Hour is nil for whole-day cells
// (month and year grids), set for the hour rows of the day and week grids.
type Cell struct {
	DateKey string
	Hour    *int
}

// SpatialIndex resolves a screen coordinate to the calendar cell beneath
// it. The production implementation hit-tests the rendered grid; tests
// inject a fake, which keeps the gesture state machine independent of any
// rendering surface.
type SpatialIndex interface {
	CellAt(x, y float64) (Cell, bool)
}

// Phase is the state of the touch gesture machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePressed
	PhaseDragging
)

// ActionKind tells the host what to do after a gesture resolves.
type ActionKind int

const (
	// ActionNone: nothing to do (cancelled drag, drop on dead space).
	ActionNone ActionKind = iota
	// ActionOpenEdit: the gesture was a tap on a visit; open its editor.
	ActionOpenEdit
	// ActionMoveToHour: drop on an hour cell; attempt an hour-precision
	// move through the engine.
	ActionMoveToHour
	// ActionMoveToDay: drop on a whole-day cell; attempt a date-only move.
	ActionMoveToDay
)

// Action is the resolved outcome of a gesture.
type Action struct {
	Kind    ActionKind
	VisitID string
	DateKey string
	Hour    int // meaningful only for ActionMoveToHour
}

// touchState is the gesture record of the single active touch pointer.
type touchState struct {
	visitID   string
	pointerID int
	dragging  bool
	startX    float64
	startY    float64
	x         float64
	y         float64
}

// Tracker mediates pointer input for one calendar surface. It is used from
// the UI event loop only and is not safe for concurrent use.
type Tracker struct {
	index SpatialIndex
	clock clock.Clock

	draggingVisitID string
	dropTarget      *Cell
	touch           *touchState
	activeDate      time.Time
}

// NewTracker constructs a Tracker hit-testing against index. The clock
// supplies the reference "today" for drop-target selectability.
func NewTracker(index SpatialIndex, clk clock.Clock, activeDate time.Time) *Tracker {
	return &Tracker{index: index, clock: clk, activeDate: schedule.StartOfDay(activeDate)}
}

// DraggingVisitID returns the id of the visit currently being dragged, or
// "" when no drag is in flight.
func (t *Tracker) DraggingVisitID() string { return t.draggingVisitID }

// DropTarget returns the currently highlighted drop cell, or nil.
func (t *Tracker) DropTarget() *Cell { return t.dropTarget }

// ActiveDate is the day the calendar is focused on. Drag-enter over a
// selectable day moves the focus there, like the original surface did.
func (t *Tracker) ActiveDate() time.Time { return t.activeDate }

// SelectDate focuses the calendar on a day. Past days are not selectable;
// the focus stays put and the caller shows the past-date message.
func (t *Tracker) SelectDate(date time.Time) bool {
	if !schedule.IsSelectable(date, schedule.StartOfDay(t.clock.Now())) {
		return false
	}
	t.activeDate = schedule.StartOfDay(date)
	return true
}

// Phase reports the state of the touch gesture machine.
func (t *Tracker) Phase() Phase {
	switch {
	case t.touch == nil:
		return PhaseIdle
	case t.touch.dragging:
		return PhaseDragging
	default:
		return PhasePressed
	}
}

// GhostPosition returns the floating ghost coordinates while dragging.
func (t *Tracker) GhostPosition() (x, y float64, ok bool) {
	if t.touch == nil || !t.touch.dragging {
		return 0, 0, false
	}
	return t.touch.x, t.touch.y, true
}

// ---- native drag-and-drop (pointer devices) --------------------------------

// DragStart begins a native drag carrying visitID.
func (t *Tracker) DragStart(visitID string) {
	t.draggingVisitID = visitID
	t.dropTarget = nil
}

// DragEnd clears all drag state without resolving an action.
func (t *Tracker) DragEnd() {
	t.draggingVisitID = ""
	t.dropTarget = nil
}

// DragEnterDay highlights a whole-day cell as the drop target. Past and
// unparseable days are ignored: they never become targets.
func (t *Tracker) DragEnterDay(dateKey string) {
	date, ok := schedule.FromDateKey(dateKey)
	if !ok {
		return
	}
	if !schedule.IsSelectable(date, schedule.StartOfDay(t.clock.Now())) {
		return
	}
	t.activeDate = date
	t.dropTarget = &Cell{DateKey: dateKey}
}

// DragEnterHour highlights an hour cell as the drop target.
func (t *Tracker) DragEnterHour(dateKey string, hour int) {
	date, ok := schedule.FromDateKey(dateKey)
	if !ok {
		return
	}
	if !schedule.IsSelectable(date, schedule.StartOfDay(t.clock.Now())) {
		return
	}
	h := hour
	t.dropTarget = &Cell{DateKey: dateKey, Hour: &h}
}

// Drop resolves a native drop on the given cell. payloadVisitID is the id
// carried by the drag payload; when empty the tracker falls back to the
// drag it started itself. Drag state is cleared either way.
func (t *Tracker) Drop(cell Cell, payloadVisitID string) Action {
	visitID := payloadVisitID
	if visitID == "" {
		visitID = t.draggingVisitID
	}
	t.DragEnd()
	if visitID == "" {
		return Action{Kind: ActionNone}
	}
	return resolveDrop(visitID, &cell)
}

// ---- touch gestures --------------------------------------------------------

// PointerDown starts tracking a touch on a visit. The visit becomes the
// dragging candidate immediately, but no drag begins until the movement
// threshold is crossed.
func (t *Tracker) PointerDown(pointerID int, visitID string, x, y float64) {
	t.draggingVisitID = visitID
	t.dropTarget = nil
	t.touch = &touchState{
		visitID:   visitID,
		pointerID: pointerID,
		startX:    x,
		startY:    y,
		x:         x,
		y:         y,
	}
}

// PointerMove updates the active gesture. Once total movement from the
// press point reaches DragThreshold the gesture is promoted to a drag and
// stays one; while dragging, the drop target tracks the cell under the
// pointer. Moves from other pointers are ignored.
func (t *Tracker) PointerMove(pointerID int, x, y float64) {
	if t.touch == nil || t.touch.pointerID != pointerID {
		return
	}
	t.touch.x, t.touch.y = x, y
	if !t.touch.dragging {
		dx := x - t.touch.startX
		dy := y - t.touch.startY
		if math.Hypot(dx, dy) >= DragThreshold {
			t.touch.dragging = true
		}
	}
	if t.touch.dragging {
		t.updateTouchTarget(x, y)
	}
}

// PointerUp resolves the gesture. A press that never crossed the threshold
// is a tap and opens the visit editor; a drag resolves against the last
// drop target. Either way the machine returns to idle.
func (t *Tracker) PointerUp(pointerID int) Action {
	if t.touch == nil || t.touch.pointerID != pointerID {
		return Action{Kind: ActionNone}
	}
	touch := t.touch
	target := t.dropTarget
	t.touch = nil
	t.DragEnd()

	if !touch.dragging {
		return Action{Kind: ActionOpenEdit, VisitID: touch.visitID}
	}
	return resolveDrop(touch.visitID, target)
}

// Cancel aborts any in-flight gesture (pointer capture lost, surface
// unmounted).
func (t *Tracker) Cancel() {
	t.touch = nil
	t.DragEnd()
}

// updateTouchTarget recomputes the drop target by hit-testing the cell
// under the pointer. Hour cells win over whole-day cells; selectable
// whole-day cells also pull the calendar focus, matching drag-enter.
func (t *Tracker) updateTouchTarget(x, y float64) {
	cell, ok := t.index.CellAt(x, y)
	if !ok {
		t.dropTarget = nil
		return
	}
	if cell.Hour != nil {
		t.dropTarget = &Cell{DateKey: cell.DateKey, Hour: cell.Hour}
		return
	}
	if date, ok := schedule.FromDateKey(cell.DateKey); ok {
		if schedule.IsSelectable(date, schedule.StartOfDay(t.clock.Now())) {
			t.activeDate = date
		}
	}
	t.dropTarget = &Cell{DateKey: cell.DateKey}
}

// resolveDrop maps a drop cell to the move action the engine should
// attempt. The engine still validates the target; the tracker only
// classifies the gesture.
func resolveDrop(visitID string, cell *Cell) Action {
	if cell == nil {
		return Action{Kind: ActionNone}
	}
	if cell.Hour != nil {
		return Action{Kind: ActionMoveToHour, VisitID: visitID, DateKey: cell.DateKey, Hour: *cell.Hour}
	}
	return Action{Kind: ActionMoveToDay, VisitID: visitID, DateKey: cell.DateKey}
}
