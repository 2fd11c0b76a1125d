package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is one row of a collection: a system-assigned identifier, a
// creation timestamp, and the editable field values keyed by column name.
type Record struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Fields    map[string]any
}

// Field returns the named field value, or nil when absent.
func (r Record) Field(name string) any {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[name]
}

// StringField returns the named field as a string, or "" when absent or
// of another type.
func (r Record) StringField(name string) string {
	s, _ := r.Field(name).(string)
	return s
}

// IntField returns the named field as an int. Integer values arrive from
// the store as several widths, so all are accepted.
func (r Record) IntField(name string) int {
	switch v := r.Field(name).(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// BoolField returns the named field as a bool, false when absent.
func (r Record) BoolField(name string) bool {
	b, _ := r.Field(name).(bool)
	return b
}

// StringSliceField returns the named field as a string slice. The store
// returns text[] columns either as []string or as []any.
func (r Record) StringSliceField(name string) []string {
	switch v := r.Field(name).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// CopyFields returns a shallow copy of the field map, safe for callers to edit.
func (r Record) CopyFields() map[string]any {
	out := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		out[k] = v
	}
	return out
}

// MarshalJSON flattens the record into a single JSON object:
// {"id": ..., "created_at": ..., <fields>...}.
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		flat[k] = v
	}
	flat["id"] = r.ID
	flat["created_at"] = r.CreatedAt
	return json.Marshal(flat)
}
