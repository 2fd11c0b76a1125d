// Package skills implements the toggle-set manager: a closed catalog of
// labels, each persisted as a row only once it has been toggled. Absence
// of a row means disabled.
package skills

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/avoronkov/portfolio-backend/internal/domain"
)

type recordStore interface {
	List(ctx context.Context, collection string) ([]domain.Record, error)
	Insert(ctx context.Context, collection string, fields map[string]any) (domain.Record, error)
	Update(ctx context.Context, collection string, id uuid.UUID, fields map[string]any) error
}

// Service manages which catalog skills are displayed on the site.
type Service struct {
	store recordStore
	log   *slog.Logger

	mu      sync.Mutex
	enabled map[string]bool
	rowIDs  map[string]uuid.UUID
}

// NewService creates the skills service.
func NewService(log *slog.Logger, store recordStore) *Service {
	return &Service{
		store:   store,
		log:     log.With("service", "skills"),
		enabled: make(map[string]bool),
		rowIDs:  make(map[string]uuid.UUID),
	}
}

// Load fetches all skill rows and rebuilds the enabled set.
func (s *Service) Load(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.List(ctx, "skills")
	if err != nil {
		return nil, err
	}

	s.enabled = make(map[string]bool, len(records))
	s.rowIDs = make(map[string]uuid.UUID, len(records))
	for _, rec := range records {
		name := rec.StringField("name")
		if name == "" {
			continue
		}
		s.rowIDs[name] = rec.ID
		if rec.BoolField("is_enabled") {
			s.enabled[name] = true
		}
	}

	return s.enabledLocked(), nil
}

// Toggle flips the enabled state of a catalog label. The in-memory set is
// updated optimistically; a store failure reverts it and surfaces the
// error. Unknown rows are inserted with the computed state, existing rows
// updated in place.
func (s *Service) Toggle(ctx context.Context, label string) error {
	if !domain.InSkillCatalog(label) {
		return domain.NewValidationError("name", "not in the skill catalog")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wasEnabled := s.enabled[label]
	newEnabled := !wasEnabled

	// Optimistic flip; reverted below on failure.
	if newEnabled {
		s.enabled[label] = true
	} else {
		delete(s.enabled, label)
	}

	var err error
	id, known := s.rowIDs[label]
	if !known {
		// Rows written outside this process (seeding, another instance)
		// are not in the map; look the label up before inserting, or the
		// insert trips the unique constraint on name.
		id, known, err = s.findRow(ctx, label)
		if err == nil && known {
			s.rowIDs[label] = id
		}
	}
	if err == nil {
		if known {
			err = s.store.Update(ctx, "skills", id, map[string]any{"is_enabled": newEnabled})
		} else {
			var rec domain.Record
			rec, err = s.store.Insert(ctx, "skills", map[string]any{"name": label, "is_enabled": newEnabled})
			if err == nil {
				s.rowIDs[label] = rec.ID
			}
		}
	}

	if err != nil {
		if wasEnabled {
			s.enabled[label] = true
		} else {
			delete(s.enabled, label)
		}
		s.log.ErrorContext(ctx, "toggle failed",
			slog.String("skill", label),
			slog.String("error", err.Error()),
		)
		return err
	}

	return nil
}

// findRow scans the stored rows for a label. Called with the mutex held.
func (s *Service) findRow(ctx context.Context, label string) (uuid.UUID, bool, error) {
	records, err := s.store.List(ctx, "skills")
	if err != nil {
		return uuid.Nil, false, err
	}
	for _, rec := range records {
		if rec.StringField("name") == label {
			return rec.ID, true, nil
		}
	}
	return uuid.Nil, false, nil
}

// Enabled returns the currently enabled labels in catalog order.
func (s *Service) Enabled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabledLocked()
}

func (s *Service) enabledLocked() []string {
	out := []string{}
	for _, label := range domain.SkillCatalog {
		if s.enabled[label] {
			out = append(out, label)
		}
	}
	return out
}

// Catalog returns every known label with its current enabled state, in
// catalog order, for the admin toggle grid.
func (s *Service) Catalog() []CatalogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CatalogEntry, 0, len(domain.SkillCatalog))
	for _, label := range domain.SkillCatalog {
		out = append(out, CatalogEntry{Name: label, Enabled: s.enabled[label]})
	}
	return out
}

// CatalogEntry pairs a catalog label with its enabled state.
type CatalogEntry struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}
