// Package domain defines the content model of the portfolio site:
// the collection registry, record field rules, and the skill catalog.
package domain

// Ordering describes how a collection's records are sorted when listed.
type Ordering struct {
	// Field is the column to sort by ("order_index", "created_at", "published_at").
	Field string
	// Desc sorts descending when true.
	Desc bool
}

// Collection describes one named set of records and the rules for editing it.
type Collection struct {
	// Name is the public collection name used in API routes.
	Name string
	// Table is the backing PostgreSQL table.
	Table string
	// Fields are the writable columns. Anything else submitted by a client
	// is dropped before the write reaches the store.
	Fields []string
	// ArrayFields are text[] columns edited in forms as comma-separated strings.
	ArrayFields []string
	// AssetFields hold object-storage URLs; blank values are normalized to NULL.
	AssetFields []string
	// Ranked collections carry an explicit zero-based order_index and support Move.
	Ranked bool
	// OrderBy applies to non-ranked collections.
	OrderBy Ordering
	// Single collections hold at most one record (profile).
	Single bool
}

// WritableField reports whether name is an editable column of the collection.
func (c Collection) WritableField(name string) bool {
	for _, f := range c.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// IsArrayField reports whether name is edited as a comma-separated string.
func (c Collection) IsArrayField(name string) bool {
	for _, f := range c.ArrayFields {
		if f == name {
			return true
		}
	}
	return false
}

// IsAssetField reports whether name holds an asset URL.
func (c Collection) IsAssetField(name string) bool {
	for _, f := range c.AssetFields {
		if f == name {
			return true
		}
	}
	return false
}

// Registry of all collections. Order matters only for listings in the admin UI.
var collections = []Collection{
	{
		Name:   "profile",
		Table:  "profile",
		Fields: []string{
			"name", "designation", "description", "bio", "email", "phone",
			"address", "github", "facebook", "linkedin", "twitter",
			"stackoverflow", "leetcode", "dev_username", "resume", "profile_image",
		},
		AssetFields: []string{"resume", "profile_image"},
		Single:      true,
	},
	{
		Name:   "experience",
		Table:  "experience",
		Fields: []string{"title", "company", "duration", "order_index"},
		Ranked: true,
	},
	{
		Name:    "skills",
		Table:   "skills",
		Fields:  []string{"name", "is_enabled"},
		OrderBy: Ordering{Field: "created_at"},
	},
	{
		Name:   "education",
		Table:  "education",
		Fields: []string{"title", "institution", "duration", "order_index"},
		Ranked: true,
	},
	{
		Name:        "projects",
		Table:       "projects",
		Fields:      []string{"name", "description", "tools", "role", "code_url", "demo_url", "image", "order_index"},
		ArrayFields: []string{"tools"},
		AssetFields: []string{"image"},
		Ranked:      true,
	},
	{
		Name:        "achievements",
		Table:       "achievements",
		Fields:      []string{"title", "description", "image", "date", "order_index"},
		AssetFields: []string{"image"},
		Ranked:      true,
	},
	{
		Name:        "certificates",
		Table:       "certificates",
		Fields:      []string{"title", "issuer", "image", "date", "order_index"},
		AssetFields: []string{"image"},
		Ranked:      true,
	},
	{
		Name:        "blogs",
		Table:       "blogs",
		Fields:      []string{"title", "url", "description", "cover_image", "published_at"},
		AssetFields: []string{"cover_image"},
		OrderBy:     Ordering{Field: "published_at", Desc: true},
	},
}

// Collections returns all registered collections.
func Collections() []Collection {
	out := make([]Collection, len(collections))
	copy(out, collections)
	return out
}

// LookupCollection finds a collection by its public name.
// Returns ErrNotFound for unregistered names.
func LookupCollection(name string) (Collection, error) {
	for _, c := range collections {
		if c.Name == name {
			return c, nil
		}
	}
	return Collection{}, ErrNotFound
}

// OrderedCollections returns the collections managed by the ordered-collection
// manager: everything except the single-record profile and the toggle-set skills.
func OrderedCollections() []Collection {
	var out []Collection
	for _, c := range collections {
		if c.Single || c.Name == "skills" {
			continue
		}
		out = append(out, c)
	}
	return out
}
