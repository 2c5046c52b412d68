package reminder

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pgvcc/agenda/internal/domain"
)

// stepClock is a manually advanced time source.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *stepClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixedLister struct {
	visits []domain.ScheduledVisit
}

func (l *fixedLister) All() []domain.ScheduledVisit { return l.visits }

type captureNotifier struct {
	calls []struct {
		visitID string
		offset  int
	}
	err error
}

func (n *captureNotifier) Notify(_ context.Context, v domain.ScheduledVisit, offset int) error {
	if n.err != nil {
		return n.err
	}
	n.calls = append(n.calls, struct {
		visitID string
		offset  int
	}{v.ID, offset})
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweeper_FiresDueReminders(t *testing.T) {
	// Visit at 10:00 with 5 and 30 minute reminders: due at 09:30 and 09:55.
	visits := []domain.ScheduledVisit{{
		ID:        "v1",
		Date:      "2025-12-17",
		TimeSlot:  "10:00 - 11:00",
		Status:    domain.StatusConfirmed,
		Reminders: []int{5, 30},
	}}

	clk := &stepClock{t: time.Date(2025, 12, 17, 9, 29, 0, 0, time.UTC)}
	sink := &captureNotifier{}
	s := New(&fixedLister{visits: visits}, sink, clk, discard())

	// 09:29 -> 09:31 covers the 30-minute reminder.
	clk.advance(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep(context.Background()))
	assert.Equal(t, "v1", sink.calls[0].visitID)
	assert.Equal(t, 30, sink.calls[0].offset)

	// Nothing due between 09:31 and 09:50.
	clk.advance(19 * time.Minute)
	assert.Zero(t, s.Sweep(context.Background()))

	// 09:50 -> 09:56 covers the 5-minute reminder.
	clk.advance(6 * time.Minute)
	assert.Equal(t, 1, s.Sweep(context.Background()))
	assert.Equal(t, 5, sink.calls[1].offset)
}

func TestSweeper_WindowFiresOnce(t *testing.T) {
	visits := []domain.ScheduledVisit{{
		ID:        "v1",
		Date:      "2025-12-17",
		TimeSlot:  "10:00 - 11:00",
		Reminders: []int{10},
	}}

	clk := &stepClock{t: time.Date(2025, 12, 17, 9, 49, 0, 0, time.UTC)}
	sink := &captureNotifier{}
	s := New(&fixedLister{visits: visits}, sink, clk, discard())

	clk.advance(time.Minute) // exactly 09:50, inclusive upper bound
	assert.Equal(t, 1, s.Sweep(context.Background()))

	// Re-sweeping at the same instant does not fire again.
	assert.Zero(t, s.Sweep(context.Background()))
	clk.advance(time.Minute)
	assert.Zero(t, s.Sweep(context.Background()))
}

func TestSweeper_SkipsPastRemindersOnStartup(t *testing.T) {
	visits := []domain.ScheduledVisit{{
		ID:        "v1",
		Date:      "2025-12-17",
		TimeSlot:  "10:00 - 11:00",
		Reminders: []int{60},
	}}

	// Constructed at 09:30: the 09:00 reminder is already in the past.
	clk := &stepClock{t: time.Date(2025, 12, 17, 9, 30, 0, 0, time.UTC)}
	sink := &captureNotifier{}
	s := New(&fixedLister{visits: visits}, sink, clk, discard())

	clk.advance(time.Minute)
	assert.Zero(t, s.Sweep(context.Background()))
	assert.Empty(t, sink.calls)
}

func TestSweeper_IgnoresMalformedVisits(t *testing.T) {
	visits := []domain.ScheduledVisit{
		{ID: "bad-date", Date: "ayer", TimeSlot: "10:00 - 11:00", Reminders: []int{5}},
		{ID: "bad-slot", Date: "2025-12-17", TimeSlot: "nope", Reminders: []int{5}},
		{ID: "no-reminders", Date: "2025-12-17", TimeSlot: "10:00 - 11:00"},
	}

	clk := &stepClock{t: time.Date(2025, 12, 17, 9, 54, 0, 0, time.UTC)}
	sink := &captureNotifier{}
	s := New(&fixedLister{visits: visits}, sink, clk, discard())

	clk.advance(2 * time.Minute)
	assert.Zero(t, s.Sweep(context.Background()))
}

func TestSweeper_NotifyErrorDoesNotAbort(t *testing.T) {
	visits := []domain.ScheduledVisit{{
		ID:        "v1",
		Date:      "2025-12-17",
		TimeSlot:  "10:00 - 11:00",
		Reminders: []int{5, 10},
	}}

	clk := &stepClock{t: time.Date(2025, 12, 17, 9, 49, 0, 0, time.UTC)}
	sink := &captureNotifier{err: context.DeadlineExceeded}
	s := New(&fixedLister{visits: visits}, sink, clk, discard())

	clk.advance(10 * time.Minute)
	// Both reminders fall in the window but every notify fails.
	assert.Zero(t, s.Sweep(context.Background()))
}
