// Package service contains the scheduling engine: validation, conflict
// detection, and the commit paths that are the only way the visit store is
// mutated in response to user action. Validation functions are pure — they
// operate on the passed-in visit snapshot plus the candidate and have no
// side effects on rejection.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pgvcc/agenda/internal/clock"
	"github.com/pgvcc/agenda/internal/domain"
	"github.com/pgvcc/agenda/internal/schedule"
)

// Store defines the collection operations the engine commits through.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets engine
// tests inject a mock without a snapshot backend.
type Store interface {
	List() []domain.ScheduledVisit
	Get(id string) (domain.ScheduledVisit, error)
	Add(ctx context.Context, v domain.ScheduledVisit)
	Update(ctx context.Context, id string, upd domain.VisitUpdate) (domain.ScheduledVisit, error)
	Upsert(ctx context.Context, v domain.ScheduledVisit) domain.ScheduledVisit
	Remove(ctx context.Context, id string) error
	Replace(ctx context.Context, visits []domain.ScheduledVisit) []domain.ScheduledVisit
}

// VisitService implements the scheduling engine over a visit store and an
// injected clock. The clock supplies the reference "today" for past-date
// checks; it is never read from the wall clock inside validation logic.
type VisitService struct {
	store Store
	clock clock.Clock
	newID func() string
}

// NewVisitService constructs a VisitService backed by the provided store
// and clock.
func NewVisitService(store Store, clk clock.Clock) *VisitService {
	return &VisitService{store: store, clock: clk, newID: uuid.NewString}
}

// Today returns the engine's reference day at midnight.
func (s *VisitService) Today() time.Time {
	return schedule.StartOfDay(s.clock.Now())
}

// Candidate is a proposed visit creation or edit, pre-normalization.
// VisitID is empty on create; on edit it names the visit being changed so
// conflict detection can exclude it.
type Candidate struct {
	VisitID       string
	SiteID        int
	SiteTitle     string
	Title         string
	Description   string
	DateKey       string
	StartTime     string
	EndTime       string
	Location      string
	LabelColor    string
	Type          string
	Status        domain.VisitStatus
	RequesterName string
	Reminders     []int
}

// Resolution is the engine's validated, normalized output ready for commit.
type Resolution struct {
	Title     string
	DateKey   string
	Slot      schedule.Slot
	TimeSlot  string
	Reminders []int
}

// ValidateCreateOrEdit runs the full validation chain over a candidate
// against a snapshot of existing visits. First failure wins; the order is
// part of the contract: EmptyTitle, InvalidDate, PastDate, InvalidTime,
// InvertedRange, OutOfHours, Conflict.
func (s *VisitService) ValidateCreateOrEdit(c Candidate, existing []domain.ScheduledVisit) (Resolution, error) {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return Resolution{}, domain.Reject(domain.ReasonEmptyTitle)
	}

	date, ok := schedule.FromDateKey(c.DateKey)
	if !ok {
		return Resolution{}, domain.Reject(domain.ReasonInvalidDate)
	}
	if !schedule.IsSelectable(date, s.Today()) {
		return Resolution{}, domain.Reject(domain.ReasonPastDate)
	}

	start, okStart := schedule.ParseTimeToMinutes(c.StartTime)
	end, okEnd := schedule.ParseTimeToMinutes(c.EndTime)
	if !okStart || !okEnd {
		return Resolution{}, domain.Reject(domain.ReasonInvalidTime)
	}
	if start >= end {
		return Resolution{}, domain.Reject(domain.ReasonInvertedRange)
	}

	slot := schedule.Slot{Start: start, End: end}
	if !slot.InWindow() {
		return Resolution{}, domain.Reject(domain.ReasonOutOfHours)
	}

	if hasConflict(existing, c.DateKey, slot, c.VisitID) {
		return Resolution{}, domain.Reject(domain.ReasonConflict)
	}

	return Resolution{
		Title:     title,
		DateKey:   c.DateKey,
		Slot:      slot,
		TimeSlot:  slot.String(),
		Reminders: NormalizeReminders(c.Reminders),
	}, nil
}

// ValidateMove resolves an hour-precision move: the visit keeps its
// original duration and the new slot starts on targetStartHour. Applies the
// same date-selectability, operating-window, and conflict checks as
// ValidateCreateOrEdit, excluding the moved visit from conflicts.
func (s *VisitService) ValidateMove(visitID, targetDateKey string, targetStartHour int, existing []domain.ScheduledVisit) (domain.VisitUpdate, error) {
	date, ok := schedule.FromDateKey(targetDateKey)
	if !ok {
		return domain.VisitUpdate{}, domain.Reject(domain.ReasonInvalidDate)
	}
	if !schedule.IsSelectable(date, s.Today()) {
		return domain.VisitUpdate{}, domain.Reject(domain.ReasonPastDate)
	}

	visit, found := findVisit(existing, visitID)
	if !found {
		return domain.VisitUpdate{}, fmt.Errorf("service.VisitService.ValidateMove: %w", domain.ErrNotFound)
	}
	current, ok := schedule.ParseTimeSlot(visit.TimeSlot)
	if !ok {
		return domain.VisitUpdate{}, domain.Reject(domain.ReasonInvalidTime)
	}

	slot := schedule.Slot{
		Start: targetStartHour * 60,
		End:   targetStartHour*60 + current.Duration(),
	}
	if slot.Start < schedule.OpenMinutes || slot.Start >= schedule.CloseMinutes || slot.End > schedule.CloseMinutes {
		return domain.VisitUpdate{}, domain.Reject(domain.ReasonOutOfHours)
	}

	if hasConflict(existing, targetDateKey, slot, visitID) {
		return domain.VisitUpdate{}, domain.Reject(domain.ReasonConflict)
	}

	return domain.VisitUpdate{Date: targetDateKey, TimeSlot: slot.String()}, nil
}

// ValidateMoveToDay resolves a whole-day move: the visit keeps its original
// time slot and only the date changes. Still conflict-checked on the target
// day.
func (s *VisitService) ValidateMoveToDay(visitID, targetDateKey string, existing []domain.ScheduledVisit) (domain.VisitUpdate, error) {
	date, ok := schedule.FromDateKey(targetDateKey)
	if !ok {
		return domain.VisitUpdate{}, domain.Reject(domain.ReasonInvalidDate)
	}
	if !schedule.IsSelectable(date, s.Today()) {
		return domain.VisitUpdate{}, domain.Reject(domain.ReasonPastDate)
	}

	visit, found := findVisit(existing, visitID)
	if !found {
		return domain.VisitUpdate{}, fmt.Errorf("service.VisitService.ValidateMoveToDay: %w", domain.ErrNotFound)
	}
	slot, ok := schedule.ParseTimeSlot(visit.TimeSlot)
	if !ok {
		return domain.VisitUpdate{}, domain.Reject(domain.ReasonInvalidTime)
	}

	if hasConflict(existing, targetDateKey, slot, visitID) {
		return domain.VisitUpdate{}, domain.Reject(domain.ReasonConflict)
	}

	return domain.VisitUpdate{Date: targetDateKey, TimeSlot: visit.TimeSlot}, nil
}

// Create validates the candidate and commits a new visit. The id is
// assigned here; status defaults to Pending (a request from the public
// portal awaits confirmation) unless the candidate carries a valid status.
func (s *VisitService) Create(ctx context.Context, c Candidate) (domain.ScheduledVisit, error) {
	res, err := s.ValidateCreateOrEdit(c, s.store.List())
	if err != nil {
		return domain.ScheduledVisit{}, err
	}

	status := c.Status
	if !status.Valid() {
		status = domain.StatusPending
	}
	visitType := c.Type
	if visitType == "" {
		visitType = "Evento"
	}
	requester := strings.TrimSpace(c.RequesterName)
	if requester == "" {
		requester = "Usuario Web"
	}

	visit := domain.ScheduledVisit{
		ID:            s.newID(),
		SiteID:        c.SiteID,
		SiteTitle:     c.SiteTitle,
		Date:          res.DateKey,
		TimeSlot:      res.TimeSlot,
		Type:          visitType,
		Status:        status,
		RequesterName: requester,
		Title:         res.Title,
		Description:   strings.TrimSpace(c.Description),
		Location:      strings.TrimSpace(c.Location),
		LabelColor:    strings.TrimSpace(c.LabelColor),
		Reminders:     res.Reminders,
	}
	s.store.Add(ctx, visit)
	return visit, nil
}

// Update validates the candidate against all visits except itself and
// commits the edit. Site reference, type, status, and requester are
// immutable under edit and carried over from the stored visit.
func (s *VisitService) Update(ctx context.Context, c Candidate) (domain.ScheduledVisit, error) {
	existing, err := s.store.Get(c.VisitID)
	if err != nil {
		return domain.ScheduledVisit{}, fmt.Errorf("service.VisitService.Update: %w", err)
	}

	res, err := s.ValidateCreateOrEdit(c, s.store.List())
	if err != nil {
		return domain.ScheduledVisit{}, err
	}

	next := existing
	next.Date = res.DateKey
	next.TimeSlot = res.TimeSlot
	next.Title = res.Title
	next.Description = strings.TrimSpace(c.Description)
	next.Location = strings.TrimSpace(c.Location)
	next.LabelColor = strings.TrimSpace(c.LabelColor)
	next.Reminders = res.Reminders

	return s.store.Upsert(ctx, next), nil
}

// Move commits an hour-precision move.
func (s *VisitService) Move(ctx context.Context, visitID, targetDateKey string, targetStartHour int) (domain.ScheduledVisit, error) {
	upd, err := s.ValidateMove(visitID, targetDateKey, targetStartHour, s.store.List())
	if err != nil {
		return domain.ScheduledVisit{}, err
	}
	moved, err := s.store.Update(ctx, visitID, upd)
	if err != nil {
		return domain.ScheduledVisit{}, fmt.Errorf("service.VisitService.Move: %w", err)
	}
	return moved, nil
}

// MoveToDay commits a whole-day move, keeping the original time slot.
func (s *VisitService) MoveToDay(ctx context.Context, visitID, targetDateKey string) (domain.ScheduledVisit, error) {
	upd, err := s.ValidateMoveToDay(visitID, targetDateKey, s.store.List())
	if err != nil {
		return domain.ScheduledVisit{}, err
	}
	moved, err := s.store.Update(ctx, visitID, upd)
	if err != nil {
		return domain.ScheduledVisit{}, fmt.Errorf("service.VisitService.MoveToDay: %w", err)
	}
	return moved, nil
}

// Delete removes a visit.
// Returns domain.ErrNotFound when it does not exist.
func (s *VisitService) Delete(ctx context.Context, visitID string) error {
	if err := s.store.Remove(ctx, visitID); err != nil {
		return fmt.Errorf("service.VisitService.Delete: %w", err)
	}
	return nil
}

// Get returns a single visit by id.
func (s *VisitService) Get(visitID string) (domain.ScheduledVisit, error) {
	visit, err := s.store.Get(visitID)
	if err != nil {
		return domain.ScheduledVisit{}, fmt.Errorf("service.VisitService.Get: %w", err)
	}
	return visit, nil
}

// List returns one page of the collection plus the total count.
func (s *VisitService) List(p domain.PaginationParams) ([]domain.ScheduledVisit, int) {
	visits := s.store.List()
	return p.Slice(visits), len(visits)
}

// All returns the whole collection, most recent first.
func (s *VisitService) All() []domain.ScheduledVisit {
	return s.store.List()
}

// NormalizeReminders drops non-positive offsets, collapses duplicates, and
// sorts ascending. Returns nil when nothing survives, so empty reminder
// sets stay absent in the stored record.
func NormalizeReminders(reminders []int) []int {
	seen := make(map[int]struct{}, len(reminders))
	out := make([]int, 0, len(reminders))
	for _, r := range reminders {
		if r <= 0 {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Ints(out)
	return out
}

// hasConflict reports whether any visit on dateKey other than excludeID
// overlaps slot. Visits with unparseable slots cannot conflict.
func hasConflict(visits []domain.ScheduledVisit, dateKey string, slot schedule.Slot, excludeID string) bool {
	for _, v := range visits {
		if excludeID != "" && v.ID == excludeID {
			continue
		}
		if v.Date != dateKey {
			continue
		}
		other, ok := schedule.ParseTimeSlot(v.TimeSlot)
		if !ok {
			continue
		}
		if slot.Overlaps(other) {
			return true
		}
	}
	return false
}

// findVisit locates a visit by id in a snapshot.
func findVisit(visits []domain.ScheduledVisit, id string) (domain.ScheduledVisit, bool) {
	for _, v := range visits {
		if v.ID == id {
			return v, true
		}
	}
	return domain.ScheduledVisit{}, false
}
