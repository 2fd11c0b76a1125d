package recordstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/avoronkov/portfolio-backend/internal/domain"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func expectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStore_List_RankedOrdering(t *testing.T) {
	store, mock := newMockStore(t)
	id1, id2 := uuid.New(), uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "created_at", "title", "company", "duration", "order_index"}).
		AddRow(id1, now, "engineer", "ACME", "2020", int32(0)).
		AddRow(id2, now, "lead", "ACME", "2022", int32(1))
	mock.ExpectQuery(`SELECT id, created_at, title, company, duration, order_index FROM experience ORDER BY order_index ASC, created_at ASC`).
		WillReturnRows(rows)

	records, err := store.List(context.Background(), "experience")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].ID != id1 {
		t.Errorf("first record id = %s", records[0].ID)
	}
	if records[0].StringField("title") != "engineer" {
		t.Errorf("title = %q", records[0].StringField("title"))
	}
	if records[1].IntField("order_index") != 1 {
		t.Errorf("order_index = %d", records[1].IntField("order_index"))
	}
	expectationsWereMet(t, mock)
}

func TestStore_List_BlogsOrderedByPublishedAtDesc(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM blogs ORDER BY published_at DESC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "title", "url", "description", "cover_image", "published_at"}))

	records, err := store.List(context.Background(), "blogs")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if records == nil {
		t.Error("empty collection must be an empty slice, not nil")
	}
	expectationsWereMet(t, mock)
}

func TestStore_List_CoercesTextArray(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "created_at", "name", "description", "tools", "role", "code_url", "demo_url", "image", "order_index"}).
		AddRow(id, now, "site", "d", []any{"Go", "pgx"}, "dev", "", "", nil, int32(0))
	mock.ExpectQuery(`FROM projects`).WillReturnRows(rows)

	records, err := store.List(context.Background(), "projects")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := records[0].StringSliceField("tools")
	if len(got) != 2 || got[0] != "Go" || got[1] != "pgx" {
		t.Errorf("tools = %v", got)
	}
	expectationsWereMet(t, mock)
}

func TestStore_List_UnknownCollection(t *testing.T) {
	store, _ := newMockStore(t)

	_, err := store.List(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Insert(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now()

	// Columns appear in sorted order, so the SQL is deterministic.
	mock.ExpectQuery(`INSERT INTO experience \(company,duration,title\) VALUES \(\$1,\$2,\$3\) RETURNING id, created_at`).
		WithArgs("ACME", "2020", "engineer").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))

	rec, err := store.Insert(context.Background(), "experience", map[string]any{
		"title": "engineer", "company": "ACME", "duration": "2020",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if rec.ID != id {
		t.Errorf("id = %s, want %s", rec.ID, id)
	}
	if rec.StringField("title") != "engineer" {
		t.Errorf("title = %q", rec.StringField("title"))
	}
	expectationsWereMet(t, mock)
}

func TestStore_Insert_NoWritableFields(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now()

	// An empty column list is invalid SQL; the row comes from defaults.
	mock.ExpectQuery(`INSERT INTO profile DEFAULT VALUES RETURNING id, created_at`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))

	rec, err := store.Insert(context.Background(), "profile", map[string]any{"bogus": 1})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if rec.ID != id {
		t.Errorf("id = %s, want %s", rec.ID, id)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Insert_RejectsID(t *testing.T) {
	store, mock := newMockStore(t)

	_, err := store.Insert(context.Background(), "experience", map[string]any{
		"id": uuid.New(), "title": "x",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Insert_UniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO skills`).
		WithArgs(true, "Go").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := store.Insert(context.Background(), "skills", map[string]any{
		"name": "Go", "is_enabled": true,
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Update(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE experience SET order_index = \$1 WHERE id = \$2`).
		WithArgs(3, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := store.Update(context.Background(), "experience", id, map[string]any{"order_index": 3})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Update_NoWritableFields(t *testing.T) {
	store, mock := newMockStore(t)

	// Nothing writable survives the whitelist: no SQL is issued.
	err := store.Update(context.Background(), "experience", uuid.New(), map[string]any{
		"id": "forged", "created_at": "2020", "bogus": 1,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Upsert_WithoutIDInserts(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO profile \(name\) VALUES \(\$1\) RETURNING id, created_at`).
		WithArgs("Ada").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))

	rec, err := store.Upsert(context.Background(), "profile", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if rec.ID != id {
		t.Errorf("id = %s", rec.ID)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Upsert_WithIDUpdatesInPlace(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO profile \(id,name\) VALUES \(\$1,\$2\) ON CONFLICT \(id\) DO UPDATE SET name = EXCLUDED\.name RETURNING created_at`).
		WithArgs(id, "Ada").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	rec, err := store.Upsert(context.Background(), "profile", map[string]any{"id": id, "name": "Ada"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if rec.ID != id {
		t.Errorf("id = %s, want %s", rec.ID, id)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Upsert_WithIDNoWritableFields(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now()

	// An empty SET list is invalid SQL; reassigning the id keeps the
	// statement a valid no-op that still returns the row.
	mock.ExpectQuery(`INSERT INTO profile \(id\) VALUES \(\$1\) ON CONFLICT \(id\) DO UPDATE SET id = EXCLUDED\.id RETURNING created_at`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	rec, err := store.Upsert(context.Background(), "profile", map[string]any{"id": id})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if rec.ID != id {
		t.Errorf("id = %s, want %s", rec.ID, id)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Upsert_StringID(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`ON CONFLICT \(id\) DO UPDATE`).
		WithArgs(id, "Ada").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	if _, err := store.Upsert(context.Background(), "profile", map[string]any{"id": id.String(), "name": "Ada"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Upsert_BadID(t *testing.T) {
	store, _ := newMockStore(t)

	_, err := store.Upsert(context.Background(), "profile", map[string]any{"id": "not-a-uuid"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM experience WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := store.Delete(context.Background(), "experience", id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Delete_MissingRowIsNotAnError(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM experience`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := store.Delete(context.Background(), "experience", id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	expectationsWereMet(t, mock)
}

func TestStore_Count(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM projects`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	count, err := store.Count(context.Background(), "projects")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
	expectationsWereMet(t, mock)
}

func TestOrderClause(t *testing.T) {
	experience, _ := domain.LookupCollection("experience")
	blogs, _ := domain.LookupCollection("blogs")
	skillsCol, _ := domain.LookupCollection("skills")

	if got := orderClause(experience); got != "order_index ASC, created_at ASC" {
		t.Errorf("experience order = %q", got)
	}
	if got := orderClause(blogs); got != "published_at DESC" {
		t.Errorf("blogs order = %q", got)
	}
	if got := orderClause(skillsCol); got != "created_at ASC" {
		t.Errorf("skills order = %q", got)
	}
}

func TestWhitelistFields(t *testing.T) {
	col, _ := domain.LookupCollection("experience")

	names, values := whitelistFields(col, map[string]any{
		"title":      "engineer",
		"company":    "ACME",
		"id":         "forged",
		"created_at": "2020",
		"bogus":      1,
	})

	if len(names) != 2 || names[0] != "company" || names[1] != "title" {
		t.Errorf("names = %v, want sorted [company title]", names)
	}
	if values[0] != "ACME" || values[1] != "engineer" {
		t.Errorf("values = %v", values)
	}
}
