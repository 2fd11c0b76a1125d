// Package site serves the public read side of the portfolio: the same
// content the admin edits, shaped for the marketing pages. All reads go
// straight to the store; an empty collection is an empty list, not an
// error.
package site

import (
	"context"
	"log/slog"

	"github.com/avoronkov/portfolio-backend/internal/domain"
)

type recordStore interface {
	List(ctx context.Context, collection string) ([]domain.Record, error)
}

// Service aggregates the public site content.
type Service struct {
	store recordStore
	log   *slog.Logger
}

// NewService creates the site service.
func NewService(log *slog.Logger, store recordStore) *Service {
	return &Service{
		store: store,
		log:   log.With("service", "site"),
	}
}

// Profile returns the owner's profile record, or nil when none exists yet.
func (s *Service) Profile(ctx context.Context) (*domain.Record, error) {
	records, err := s.store.List(ctx, "profile")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	rec := records[0]
	return &rec, nil
}

// EnabledSkills returns the enabled skill labels in catalog order.
func (s *Service) EnabledSkills(ctx context.Context) ([]string, error) {
	records, err := s.store.List(ctx, "skills")
	if err != nil {
		return nil, err
	}

	stored := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.BoolField("is_enabled") {
			stored[rec.StringField("name")] = true
		}
	}

	out := []string{}
	for _, label := range domain.SkillCatalog {
		if stored[label] {
			out = append(out, label)
		}
	}
	return out, nil
}

// Records returns a collection's records in display order. The profile and
// skills collections have dedicated accessors and are rejected here.
func (s *Service) Records(ctx context.Context, collection string) ([]domain.Record, error) {
	col, err := domain.LookupCollection(collection)
	if err != nil {
		return nil, err
	}
	if col.Single || col.Name == "skills" {
		return nil, domain.NewValidationError("collection", "not a listable collection")
	}
	return s.store.List(ctx, collection)
}
