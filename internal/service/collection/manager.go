// Package collection implements the ordered-collection manager: the single
// owner of one collection's cached record list, its edit form, and every
// mutation against it. One manager serves one collection; all operations
// are serialized behind the manager's mutex so no two mutations for the
// same collection are ever in flight together.
package collection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/avoronkov/portfolio-backend/internal/domain"
)

// State is the manager's lifecycle state. Idle managers have never loaded;
// every successful mutation passes through Loading back to Ready.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

type recordStore interface {
	List(ctx context.Context, collection string) ([]domain.Record, error)
	Insert(ctx context.Context, collection string, fields map[string]any) (domain.Record, error)
	Update(ctx context.Context, collection string, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, collection string, id uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Manager owns one collection's list state.
type Manager struct {
	col   domain.Collection
	store recordStore
	tx    txManager
	log   *slog.Logger

	mu      sync.Mutex
	state   State
	items   []domain.Record
	editID  *uuid.UUID
	form    map[string]any
	lastErr string
}

// NewManager creates a manager for one registered collection.
func NewManager(log *slog.Logger, col domain.Collection, store recordStore, tx txManager) *Manager {
	return &Manager{
		col:   col,
		store: store,
		tx:    tx,
		log:   log.With("collection", col.Name),
		state: StateIdle,
	}
}

// Snapshot is a read-only view of the manager for transport.
type Snapshot struct {
	Collection string          `json:"collection"`
	State      State           `json:"state"`
	Items      []domain.Record `json:"items"`
	EditID     *uuid.UUID      `json:"edit_id,omitempty"`
	Form       map[string]any  `json:"form,omitempty"`
	LastError  string          `json:"last_error,omitempty"`
}

// Snapshot returns the current state, items, edit target, and retained form.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]domain.Record, len(m.items))
	copy(items, m.items)

	var form map[string]any
	if m.form != nil {
		form = make(map[string]any, len(m.form))
		for k, v := range m.form {
			form[k] = v
		}
	}

	return Snapshot{
		Collection: m.col.Name,
		State:      m.state,
		Items:      items,
		EditID:     m.editID,
		Form:       form,
		LastError:  m.lastErr,
	}
}

// Reload fetches the full list from the store. On failure the previous
// snapshot is kept and the manager enters the error state.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reloadLocked(ctx)
}

func (m *Manager) reloadLocked(ctx context.Context) error {
	m.state = StateLoading

	items, err := m.store.List(ctx, m.col.Name)
	if err != nil {
		m.state = StateError
		m.lastErr = err.Error()
		m.log.ErrorContext(ctx, "reload failed", slog.String("error", err.Error()))
		return err
	}

	m.items = items
	m.state = StateReady
	m.lastErr = ""
	return nil
}

// Submit creates or updates a record from form fields. With an edit target
// set it updates that record; without one it inserts, appending to the end
// of ranked collections (order_index = current length). Success clears the
// edit target and the retained form and reloads; failure retains the
// submitted fields so the client can retry.
func (m *Manager) Submit(ctx context.Context, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalized := domain.NormalizeFields(m.col, fields)

	var err error
	if m.editID != nil {
		delete(normalized, "order_index") // rank is changed through Move only
		err = m.store.Update(ctx, m.col.Name, *m.editID, normalized)
	} else {
		if m.col.Ranked {
			normalized["order_index"] = len(m.items)
		}
		_, err = m.store.Insert(ctx, m.col.Name, normalized)
	}

	if err != nil {
		m.form = copyFields(fields)
		m.lastErr = err.Error()
		m.log.ErrorContext(ctx, "submit failed", slog.String("error", err.Error()))
		return err
	}

	m.editID = nil
	m.form = nil
	return m.reloadLocked(ctx)
}

// BeginEdit copies a record's fields into the retained form and sets the
// edit target. Array fields become ", "-joined display strings.
func (m *Manager) BeginEdit(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.items {
		if rec.ID != id {
			continue
		}
		form := rec.CopyFields()
		for _, name := range m.col.ArrayFields {
			form[name] = domain.JoinToolList(rec.StringSliceField(name))
		}
		m.form = form
		target := id
		m.editID = &target
		return nil
	}

	return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
}

// CancelEdit clears the edit target and the retained form without
// contacting the store.
func (m *Manager) CancelEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editID = nil
	m.form = nil
}

// Delete removes a record. The confirmed flag carries the client's
// explicit confirmation; without it the call is a no-op. Success reloads;
// failure keeps the stale snapshot.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, m.col.Name, id); err != nil {
		m.lastErr = err.Error()
		m.log.ErrorContext(ctx, "delete failed", slog.String("error", err.Error()))
		return err
	}

	if m.editID != nil && *m.editID == id {
		m.editID = nil
		m.form = nil
	}

	return m.reloadLocked(ctx)
}

// Move shifts the record at index by direction (-1 up, +1 down) and
// rewrites order_index = position for every record inside one transaction,
// so ranks are exactly {0..n-1} after every successful move. A target
// outside the list bounds is a no-op with zero store writes.
func (m *Manager) Move(ctx context.Context, index, direction int) error {
	if direction != -1 && direction != 1 {
		return domain.NewValidationError("direction", "must be -1 or +1")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.col.Ranked {
		return domain.NewValidationError("collection", "not rank-ordered")
	}

	if index < 0 || index >= len(m.items) {
		return nil
	}
	newIndex := index + direction
	if newIndex < 0 || newIndex >= len(m.items) {
		return nil
	}

	// Splice: remove at index, reinsert at newIndex.
	reordered := make([]domain.Record, len(m.items))
	copy(reordered, m.items)
	moved := reordered[index]
	reordered = append(reordered[:index], reordered[index+1:]...)
	reordered = append(reordered, domain.Record{})
	copy(reordered[newIndex+1:], reordered[newIndex:])
	reordered[newIndex] = moved

	err := m.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for pos, rec := range reordered {
			if err := m.store.Update(txCtx, m.col.Name, rec.ID, map[string]any{"order_index": pos}); err != nil {
				return fmt.Errorf("write rank %d: %w", pos, err)
			}
		}
		return nil
	})
	if err != nil {
		m.lastErr = err.Error()
		m.log.ErrorContext(ctx, "reorder failed", slog.String("error", err.Error()))
		return err
	}

	return m.reloadLocked(ctx)
}

// Items returns the cached record list.
func (m *Manager) Items() []domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]domain.Record, len(m.items))
	copy(items, m.items)
	return items
}

// Collection returns the managed collection's registry entry.
func (m *Manager) Collection() domain.Collection {
	return m.col
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
