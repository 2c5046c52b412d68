package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgvcc/agenda/internal/domain"
	"github.com/pgvcc/agenda/internal/store"
)

// Import replaces the whole collection from a raw snapshot document — the
// same JSON array the browser portal kept in local storage. Entries failing
// the shape contract are dropped silently; when nothing valid remains the
// collection falls back to the seed record, mirroring the rehydration
// behavior. A document that is not a JSON array at all is rejected rather
// than silently seeding, so a bad import never destroys the collection.
// Returns the resulting collection and how many entries were dropped.
func (s *VisitService) Import(ctx context.Context, raw []byte) ([]domain.ScheduledVisit, int, error) {
	var probe []json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, 0, fmt.Errorf("service.VisitService.Import: %w: snapshot must be a JSON array", domain.ErrValidation)
	}
	visits, dropped := store.DecodeSnapshot(raw)
	result := s.store.Replace(ctx, visits)
	return result, dropped, nil
}
