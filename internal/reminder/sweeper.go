// Package reminder runs the background sweep that fires visit reminders.
// Each visit may carry minute offsets; the sweeper wakes on a cron
// schedule and notifies for every offset whose moment fell inside the
// window since the previous sweep.
package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pgvcc/agenda/internal/clock"
	"github.com/pgvcc/agenda/internal/domain"
	"github.com/pgvcc/agenda/internal/schedule"
)

// DefaultSpec sweeps every minute; reminder offsets are minute-granular.
const DefaultSpec = "* * * * *"

// Lister supplies the current visit collection.
type Lister interface {
	All() []domain.ScheduledVisit
}

// Notifier receives one call per due reminder. Implementations deliver
// however they like (log line, webhook, mail); delivery errors are logged
// and do not stop the sweep.
type Notifier interface {
	Notify(ctx context.Context, visit domain.ScheduledVisit, offsetMinutes int) error
}

// LogNotifier writes due reminders to the structured log. It is the
// default sink when no external channel is configured.
type LogNotifier struct {
	Log *slog.Logger
}

func (n *LogNotifier) Notify(_ context.Context, visit domain.ScheduledVisit, offsetMinutes int) error {
	n.Log.Info("reminder due",
		"visit_id", visit.ID,
		"title", visit.Display().DisplayTitle,
		"date", visit.Date,
		"time_slot", visit.TimeSlot,
		"offset_minutes", offsetMinutes,
	)
	return nil
}

// Sweeper scans the visit list on a schedule and notifies due reminders.
type Sweeper struct {
	lister   Lister
	notifier Notifier
	clock    clock.Clock
	log      *slog.Logger

	cron *cron.Cron

	mu        sync.Mutex
	lastSweep time.Time
}

// New builds a Sweeper. The first sweep's window opens at construction
// time, so reminders already in the past never fire on startup.
func New(lister Lister, notifier Notifier, clk clock.Clock, log *slog.Logger) *Sweeper {
	return &Sweeper{
		lister:    lister,
		notifier:  notifier,
		clock:     clk,
		log:       log,
		lastSweep: clk.Now(),
	}
}

// Start registers the sweep on a cron schedule (five-field spec) and runs
// it in the background until Stop.
func (s *Sweeper) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { s.Sweep(context.Background()) }); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep fires every reminder whose moment lies in (lastSweep, now]. The
// half-open window makes consecutive sweeps fire each reminder exactly
// once regardless of tick jitter.
func (s *Sweeper) Sweep(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	since := s.lastSweep
	s.lastSweep = now

	fired := 0
	for _, visit := range s.lister.All() {
		start, ok := visitStart(visit)
		if !ok {
			continue
		}
		for _, offset := range visit.Reminders {
			due := start.Add(-time.Duration(offset) * time.Minute)
			if due.After(since) && !due.After(now) {
				if err := s.notifier.Notify(ctx, visit, offset); err != nil {
					s.log.Error("reminder notify failed", "visit_id", visit.ID, "error", err)
					continue
				}
				fired++
			}
		}
	}
	return fired
}

// visitStart resolves the wall-clock start of a visit from its date key
// and time slot.
func visitStart(v domain.ScheduledVisit) (time.Time, bool) {
	date, ok := schedule.FromDateKey(v.Date)
	if !ok {
		return time.Time{}, false
	}
	slot, ok := schedule.ParseTimeSlot(v.TimeSlot)
	if !ok {
		return time.Time{}, false
	}
	return date.Add(time.Duration(slot.Start) * time.Minute), true
}
