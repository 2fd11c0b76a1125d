// Package recordstore implements uniform access to the named content
// collections in PostgreSQL. Collections are described by the domain
// registry; SQL is built dynamically against the registered tables and
// whitelisted columns, so one store serves every content type.
package recordstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/avoronkov/portfolio-backend/internal/adapter/postgres"
	"github.com/avoronkov/portfolio-backend/internal/domain"
)

// Store provides collection persistence backed by PostgreSQL.
// All operations honor a transaction carried in the context.
type Store struct {
	db postgres.Querier
	sb squirrel.StatementBuilderType
}

// New creates a record store over the given querier (normally the pool).
func New(db postgres.Querier) *Store {
	return &Store{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns all records of a collection ordered by its configured
// strategy. Returns an empty slice (not nil) when the collection is empty.
func (s *Store) List(ctx context.Context, collection string) ([]domain.Record, error) {
	col, err := domain.LookupCollection(collection)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", collection, err)
	}

	columns := append([]string{"id", "created_at"}, col.Fields...)
	q := s.sb.Select(columns...).From(col.Table).OrderBy(orderClause(col))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, s.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, collection)
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, postgres.MapError(err, collection)
		}
		rec, err := recordFromValues(col, values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", collection, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, collection)
	}

	return records, nil
}

// Insert creates a new record. The store assigns the identifier and the
// creation timestamp; fields must not carry an "id".
func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (domain.Record, error) {
	col, err := domain.LookupCollection(collection)
	if err != nil {
		return domain.Record{}, fmt.Errorf("collection %q: %w", collection, err)
	}
	if _, ok := fields["id"]; ok {
		return domain.Record{}, domain.NewValidationError("id", "must not be set on insert")
	}

	names, values := whitelistFields(col, fields)

	var (
		sql  string
		args []any
	)
	if len(names) == 0 {
		// An empty column list is a syntax error in Postgres.
		sql = "INSERT INTO " + col.Table + " DEFAULT VALUES RETURNING id, created_at"
	} else {
		q := s.sb.Insert(col.Table).
			Columns(names...).
			Values(values...).
			Suffix("RETURNING id, created_at")

		sql, args, err = q.ToSql()
		if err != nil {
			return domain.Record{}, fmt.Errorf("build insert query: %w", err)
		}
	}

	var (
		id        uuid.UUID
		createdAt time.Time
	)
	row := postgres.QuerierFromCtx(ctx, s.db).QueryRow(ctx, sql, args...)
	if err := row.Scan(&id, &createdAt); err != nil {
		return domain.Record{}, postgres.MapError(err, collection)
	}

	return domain.Record{ID: id, CreatedAt: createdAt, Fields: fieldMap(names, values)}, nil
}

// Update applies a partial update by identifier. Updating a record that
// does not exist is treated as success.
func (s *Store) Update(ctx context.Context, collection string, id uuid.UUID, fields map[string]any) error {
	col, err := domain.LookupCollection(collection)
	if err != nil {
		return fmt.Errorf("collection %q: %w", collection, err)
	}

	names, values := whitelistFields(col, fields)
	if len(names) == 0 {
		return nil
	}

	q := s.sb.Update(col.Table).Where(squirrel.Eq{"id": id})
	for i, name := range names {
		q = q.Set(name, values[i])
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, s.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, collection)
	}

	return nil
}

// Upsert inserts when fields carry no identifier and updates in place when
// they do (INSERT … ON CONFLICT (id) DO UPDATE). Used for collections that
// hold a single logical record.
func (s *Store) Upsert(ctx context.Context, collection string, fields map[string]any) (domain.Record, error) {
	col, err := domain.LookupCollection(collection)
	if err != nil {
		return domain.Record{}, fmt.Errorf("collection %q: %w", collection, err)
	}

	id, hasID, err := extractID(fields)
	if err != nil {
		return domain.Record{}, err
	}
	if !hasID {
		rest := make(map[string]any, len(fields))
		for k, v := range fields {
			if k == "id" {
				continue
			}
			rest[k] = v
		}
		return s.Insert(ctx, collection, rest)
	}

	names, values := whitelistFields(col, fields)

	// With no writable fields the SET list would be empty, which Postgres
	// rejects; reassigning the id keeps the statement valid and still
	// returns the existing row through RETURNING.
	assignments := "id = EXCLUDED.id"
	if len(names) > 0 {
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = name + " = EXCLUDED." + name
		}
		assignments = strings.Join(parts, ", ")
	}

	q := s.sb.Insert(col.Table).
		Columns(append([]string{"id"}, names...)...).
		Values(append([]any{id}, values...)...).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + assignments).
		Suffix("RETURNING created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return domain.Record{}, fmt.Errorf("build upsert query: %w", err)
	}

	var createdAt time.Time
	row := postgres.QuerierFromCtx(ctx, s.db).QueryRow(ctx, sql, args...)
	if err := row.Scan(&createdAt); err != nil {
		return domain.Record{}, postgres.MapError(err, collection)
	}

	return domain.Record{ID: id, CreatedAt: createdAt, Fields: fieldMap(names, values)}, nil
}

// Delete removes a record by identifier. Deleting a non-existent
// identifier is not an error.
func (s *Store) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	col, err := domain.LookupCollection(collection)
	if err != nil {
		return fmt.Errorf("collection %q: %w", collection, err)
	}

	sql, args, err := s.sb.Delete(col.Table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, s.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, collection)
	}

	return nil
}

// Count returns the number of records in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	col, err := domain.LookupCollection(collection)
	if err != nil {
		return 0, fmt.Errorf("collection %q: %w", collection, err)
	}

	sql, args, err := s.sb.Select("count(*)").From(col.Table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	row := postgres.QuerierFromCtx(ctx, s.db).QueryRow(ctx, sql, args...)
	if err := row.Scan(&count); err != nil {
		return 0, postgres.MapError(err, collection)
	}

	return count, nil
}

// orderClause picks the ORDER BY for a collection: explicit rank for ranked
// collections, the configured field otherwise, insertion order as fallback.
func orderClause(col domain.Collection) string {
	if col.Ranked {
		return "order_index ASC, created_at ASC"
	}
	if col.OrderBy.Field != "" {
		dir := "ASC"
		if col.OrderBy.Desc {
			dir = "DESC"
		}
		return col.OrderBy.Field + " " + dir
	}
	return "created_at ASC"
}

// whitelistFields filters a raw field map down to the collection's writable
// columns, in sorted column order so generated SQL is deterministic.
func whitelistFields(col domain.Collection, fields map[string]any) ([]string, []any) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if name == "id" || name == "created_at" {
			continue
		}
		if col.WritableField(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	values := make([]any, len(names))
	for i, name := range names {
		values[i] = fields[name]
	}
	return names, values
}

func fieldMap(names []string, values []any) map[string]any {
	out := make(map[string]any, len(names))
	for i, name := range names {
		out[name] = values[i]
	}
	return out
}

// extractID pulls an identifier out of a field map. Accepts uuid.UUID or
// its string form; any other type is a validation error.
func extractID(fields map[string]any) (uuid.UUID, bool, error) {
	raw, ok := fields["id"]
	if !ok || raw == nil {
		return uuid.Nil, false, nil
	}
	switch v := raw.(type) {
	case uuid.UUID:
		if v == uuid.Nil {
			return uuid.Nil, false, nil
		}
		return v, true, nil
	case string:
		if v == "" {
			return uuid.Nil, false, nil
		}
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, false, domain.NewValidationError("id", "not a valid UUID")
		}
		return id, true, nil
	default:
		return uuid.Nil, false, domain.NewValidationError("id", "unsupported identifier type")
	}
}

// recordFromValues maps a scanned row (id, created_at, fields in registry
// order) into a Record, coercing driver types into plain Go values.
func recordFromValues(col domain.Collection, values []any) (domain.Record, error) {
	if len(values) != len(col.Fields)+2 {
		return domain.Record{}, fmt.Errorf("row has %d values, want %d", len(values), len(col.Fields)+2)
	}

	id, err := toUUID(values[0])
	if err != nil {
		return domain.Record{}, fmt.Errorf("scan id: %w", err)
	}

	createdAt, _ := values[1].(time.Time)

	fields := make(map[string]any, len(col.Fields))
	for i, name := range col.Fields {
		fields[name] = coerceValue(values[i+2])
	}

	return domain.Record{ID: id, CreatedAt: createdAt, Fields: fields}, nil
}

func toUUID(v any) (uuid.UUID, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, nil
	case [16]byte:
		return uuid.UUID(id), nil
	case string:
		return uuid.Parse(id)
	default:
		return uuid.Nil, fmt.Errorf("unexpected id type %T", v)
	}
}

// coerceValue flattens pgx driver representations into plain values:
// text[] arrives as []any of strings, which is kept as []string.
func coerceValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, e := range val {
			s, ok := e.(string)
			if !ok {
				return v
			}
			out = append(out, s)
		}
		return out
	default:
		return v
	}
}
