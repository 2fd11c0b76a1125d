// Package profile implements the single-record manager for the site
// owner's profile. At most one row ever exists; saves always upsert and
// no delete is exposed.
package profile

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/avoronkov/portfolio-backend/internal/domain"
)

type recordStore interface {
	List(ctx context.Context, collection string) ([]domain.Record, error)
	Upsert(ctx context.Context, collection string, fields map[string]any) (domain.Record, error)
}

// Service manages the profile record.
type Service struct {
	store recordStore
	log   *slog.Logger

	mu       sync.Mutex
	loadedID *uuid.UUID
}

// NewService creates the profile service.
func NewService(log *slog.Logger, store recordStore) *Service {
	return &Service{
		store: store,
		log:   log.With("service", "profile"),
	}
}

// Load fetches the profile record, or an all-empty-defaults record when
// none exists yet. Only genuine store failures are errors; an empty
// collection is not one.
func (s *Service) Load(ctx context.Context) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.List(ctx, "profile")
	if err != nil {
		return domain.Record{}, err
	}

	if len(records) == 0 {
		s.loadedID = nil
		return emptyProfile(), nil
	}

	rec := records[0]
	id := rec.ID
	s.loadedID = &id

	// Backfill defaults so the form always sees every field.
	filled := emptyProfile()
	for k, v := range rec.Fields {
		if v != nil {
			filled.Fields[k] = v
		}
	}
	filled.ID = rec.ID
	filled.CreatedAt = rec.CreatedAt
	return filled, nil
}

// Save upserts the profile. When a record was previously loaded its
// identifier is included so the store updates in place; otherwise the
// store creates the first record.
func (s *Service) Save(ctx context.Context, fields map[string]any) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := domain.LookupCollection("profile")
	if err != nil {
		return domain.Record{}, err
	}

	normalized := domain.NormalizeFields(col, fields)
	if s.loadedID != nil {
		normalized["id"] = *s.loadedID
	}

	rec, err := s.store.Upsert(ctx, "profile", normalized)
	if err != nil {
		s.log.ErrorContext(ctx, "save failed", slog.String("error", err.Error()))
		return domain.Record{}, err
	}

	id := rec.ID
	s.loadedID = &id
	s.log.InfoContext(ctx, "profile saved", slog.String("profile_id", id.String()))
	return rec, nil
}

// emptyProfile builds a record with every profile field at its empty default.
func emptyProfile() domain.Record {
	col, _ := domain.LookupCollection("profile")
	fields := make(map[string]any, len(col.Fields))
	for _, name := range col.Fields {
		fields[name] = ""
	}
	return domain.Record{Fields: fields}
}
