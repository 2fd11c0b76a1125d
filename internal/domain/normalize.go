package domain

import "strings"

// ParseToolList converts a comma-separated form string into the stored
// representation: a trimmed list with empty segments dropped.
// "Go, pgx,, React " -> ["Go", "pgx", "React"].
func ParseToolList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// JoinToolList converts a stored list back into the form display string.
func JoinToolList(tools []string) string {
	return strings.Join(tools, ", ")
}

// NormalizeAssetRef maps a blank asset URL to nil so the store persists NULL,
// never an empty string.
func NormalizeAssetRef(url string) *string {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NormalizeFields applies the collection's field rules to a raw form payload:
// unknown fields are dropped, array fields given as strings are parsed into
// lists, and blank asset references become nil.
func NormalizeFields(c Collection, fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for name, value := range fields {
		if !c.WritableField(name) {
			continue
		}
		if c.IsArrayField(name) {
			if s, ok := value.(string); ok {
				out[name] = ParseToolList(s)
				continue
			}
		}
		if c.IsAssetField(name) {
			if s, ok := value.(string); ok {
				if ref := NormalizeAssetRef(s); ref == nil {
					out[name] = nil
				} else {
					out[name] = *ref
				}
				continue
			}
		}
		out[name] = value
	}
	return out
}
