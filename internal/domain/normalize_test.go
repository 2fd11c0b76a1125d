package domain

import (
	"reflect"
	"testing"
)

func TestParseToolList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "Go, pgx, React", []string{"Go", "pgx", "React"}},
		{"extra whitespace", "  Go ,  pgx  ", []string{"Go", "pgx"}},
		{"empty segments dropped", "Go,,React,", []string{"Go", "React"}},
		{"empty string", "", []string{}},
		{"only commas", ",,,", []string{}},
		{"single value", "Docker", []string{"Docker"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseToolList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseToolList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestJoinToolList_RoundTrip(t *testing.T) {
	in := []string{"Go", "pgx", "React"}
	joined := JoinToolList(in)
	if joined != "Go, pgx, React" {
		t.Errorf("JoinToolList() = %q", joined)
	}
	if got := ParseToolList(joined); !reflect.DeepEqual(got, in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}

func TestNormalizeAssetRef(t *testing.T) {
	if got := NormalizeAssetRef(""); got != nil {
		t.Errorf("expected nil for empty, got %v", *got)
	}
	if got := NormalizeAssetRef("   "); got != nil {
		t.Errorf("expected nil for whitespace, got %v", *got)
	}
	got := NormalizeAssetRef(" https://cdn.example.com/a.png ")
	if got == nil || *got != "https://cdn.example.com/a.png" {
		t.Errorf("expected trimmed URL, got %v", got)
	}
}

func TestNormalizeFields(t *testing.T) {
	col, err := LookupCollection("projects")
	if err != nil {
		t.Fatalf("LookupCollection: %v", err)
	}

	out := NormalizeFields(col, map[string]any{
		"name":       "portfolio",
		"tools":      "Go, Postgres",
		"image":      "  ",
		"unknown":    "dropped",
		"created_at": "2024-01-01", // system column, not writable
	})

	if _, ok := out["unknown"]; ok {
		t.Error("unknown field was not dropped")
	}
	if _, ok := out["created_at"]; ok {
		t.Error("system field was not dropped")
	}
	if got, want := out["name"], "portfolio"; got != want {
		t.Errorf("name = %v, want %v", got, want)
	}
	if got, want := out["tools"], []string{"Go", "Postgres"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tools = %v, want %v", got, want)
	}
	if v, ok := out["image"]; !ok || v != nil {
		t.Errorf("blank asset ref should normalize to nil, got %v (present=%v)", v, ok)
	}
}

func TestNormalizeFields_ArrayAlreadyList(t *testing.T) {
	col, _ := LookupCollection("projects")
	out := NormalizeFields(col, map[string]any{"tools": []string{"Go"}})
	if got, want := out["tools"], []string{"Go"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tools = %v, want %v", got, want)
	}
}
