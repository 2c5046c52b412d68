// Package store holds the authoritative in-memory visit collection and
// mirrors it to durable storage. No business validation lives here — the
// scheduling engine is the only caller allowed to mutate the collection,
// which keeps this layer dumb and independently testable.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/pgvcc/agenda/internal/domain"
)

// ErrNoSnapshot is returned by SnapshotStore.Load when no snapshot has been
// written yet. The store treats it like an empty collection and seeds.
var ErrNoSnapshot = errors.New("no snapshot")

// SnapshotStore persists the whole collection as one JSON array document.
// Last write wins at document granularity; there is no concurrency token.
// Implementations: file (fileSnapshot) and Postgres jsonb (pgSnapshot).
type SnapshotStore interface {
	// Save overwrites the snapshot with data (a JSON array of visits).
	Save(ctx context.Context, data []byte) error

	// Load returns the raw snapshot document.
	// Returns ErrNoSnapshot when none has been written.
	Load(ctx context.Context) ([]byte, error)
}

// PersistOutcome classifies the result of mirroring to durable storage.
type PersistOutcome string

const (
	PersistSaved  PersistOutcome = "saved"
	PersistFailed PersistOutcome = "failed"
)

// PersistResult records what happened on the last snapshot write. Failures
// are deliberately non-fatal — the in-memory state stays authoritative for
// the session — but they are logged and observable here rather than
// silently swallowed.
type PersistResult struct {
	Outcome PersistOutcome
	Err     error
}

// VisitStore is the canonical ordered collection of scheduled visits.
// Insertion order is most-recent-first. All methods are safe for concurrent
// use; every mutation runs its snapshot write inside the critical section,
// so validate-then-commit sequences observe a consistent collection.
type VisitStore struct {
	mu          sync.Mutex
	visits      []domain.ScheduledVisit
	snapshot    SnapshotStore
	log         *slog.Logger
	lastPersist PersistResult
}

// New constructs a VisitStore mirroring to the given snapshot store.
// Call Open before first use to rehydrate the collection.
func New(snapshot SnapshotStore, log *slog.Logger) *VisitStore {
	if log == nil {
		log = slog.Default()
	}
	return &VisitStore{snapshot: snapshot, log: log}
}

// Open rehydrates the collection from durable storage. Malformed entries
// are dropped silently; when nothing valid remains the store seeds itself
// with the canonical default visit. Open never fails on snapshot problems —
// a broken snapshot degrades to the seed, matching the browser behavior the
// portal shipped with.
func (s *VisitStore) Open(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.snapshot.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			s.log.Warn("snapshot load failed, seeding", "error", err)
		}
		s.visits = []domain.ScheduledVisit{domain.SeedVisit()}
		return
	}

	visits, dropped := DecodeSnapshot(raw)
	if dropped > 0 {
		s.log.Warn("snapshot entries dropped", "dropped", dropped, "kept", len(visits))
	}
	if len(visits) == 0 {
		visits = []domain.ScheduledVisit{domain.SeedVisit()}
	}
	s.visits = visits
}

// List returns a copy of the collection in insertion order
// (most recent first).
func (s *VisitStore) List() []domain.ScheduledVisit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ScheduledVisit, len(s.visits))
	copy(out, s.visits)
	return out
}

// Get returns the visit with the given id.
// Returns domain.ErrNotFound when it does not exist.
func (s *VisitStore) Get(id string) (domain.ScheduledVisit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.visits {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.ScheduledVisit{}, domain.ErrNotFound
}

// Add prepends a visit to the collection and persists.
func (s *VisitStore) Add(ctx context.Context, v domain.ScheduledVisit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits = append([]domain.ScheduledVisit{v}, s.visits...)
	s.persistLocked(ctx)
}

// Update applies a date/timeSlot change to the visit with the given id.
// Returns domain.ErrNotFound when it does not exist.
func (s *VisitStore) Update(ctx context.Context, id string, upd domain.VisitUpdate) (domain.ScheduledVisit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.visits {
		if s.visits[i].ID == id {
			s.visits[i].Date = upd.Date
			s.visits[i].TimeSlot = upd.TimeSlot
			s.persistLocked(ctx)
			return s.visits[i], nil
		}
	}
	return domain.ScheduledVisit{}, domain.ErrNotFound
}

// Upsert replaces the visit with a matching id, or prepends it when the id
// is new.
func (s *VisitStore) Upsert(ctx context.Context, v domain.ScheduledVisit) domain.ScheduledVisit {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.visits {
		if s.visits[i].ID == v.ID {
			s.visits[i] = v
			s.persistLocked(ctx)
			return v
		}
	}
	s.visits = append([]domain.ScheduledVisit{v}, s.visits...)
	s.persistLocked(ctx)
	return v
}

// Remove deletes the visit with the given id.
// Returns domain.ErrNotFound when it does not exist.
func (s *VisitStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.visits {
		if s.visits[i].ID == id {
			s.visits = append(s.visits[:i], s.visits[i+1:]...)
			s.persistLocked(ctx)
			return nil
		}
	}
	return domain.ErrNotFound
}

// Replace swaps in a whole new collection (used by snapshot import).
// An empty collection is replaced by the seed, like on Open.
func (s *VisitStore) Replace(ctx context.Context, visits []domain.ScheduledVisit) []domain.ScheduledVisit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(visits) == 0 {
		visits = []domain.ScheduledVisit{domain.SeedVisit()}
	}
	s.visits = make([]domain.ScheduledVisit, len(visits))
	copy(s.visits, visits)
	s.persistLocked(ctx)
	return s.listLocked()
}

// LastPersist reports the outcome of the most recent snapshot write.
func (s *VisitStore) LastPersist() PersistResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPersist
}

// persistLocked mirrors the collection to durable storage, fire-and-forget.
// The caller must hold s.mu.
func (s *VisitStore) persistLocked(ctx context.Context) {
	data, err := EncodeSnapshot(s.visits)
	if err == nil {
		err = s.snapshot.Save(ctx, data)
	}
	if err != nil {
		s.lastPersist = PersistResult{Outcome: PersistFailed, Err: err}
		s.log.Warn("snapshot save failed, in-memory state remains authoritative", "error", err)
		return
	}
	s.lastPersist = PersistResult{Outcome: PersistSaved}
}

// listLocked returns a copy of the collection; caller must hold s.mu.
func (s *VisitStore) listLocked() []domain.ScheduledVisit {
	out := make([]domain.ScheduledVisit, len(s.visits))
	copy(out, s.visits)
	return out
}
