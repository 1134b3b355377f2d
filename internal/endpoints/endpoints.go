package endpoints

import (
	"sort"
	"strings"
)

// Endpoint describes one named resource of the US-RSE public API.
// Skip lists fields excluded from table display, NoTruncate lists fields
// that must keep their full content (links become useless when cut).
type Endpoint struct {
	Name       string
	Path       string
	Title      string
	Emoji      string
	Skip       []string
	NoTruncate []string

	// Key identifies a record across fetches (used by watch mode to
	// detect new entries). Empty means the whole record is the identity.
	Key string

	// ColumnOrder lists fields to show first, in this order. Remaining
	// fields follow alphabetically.
	ColumnOrder []string

	// SortField orders records for display. Empty keeps server order.
	SortField      string
	SortDescending bool
}

// URL joins the base URL with the endpoint path.
func (e Endpoint) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(e.Path, "/")
}

// Skips reports whether the field is excluded from table display.
func (e Endpoint) Skips(field string) bool {
	for _, f := range e.Skip {
		if f == field {
			return true
		}
	}
	return false
}

// KeepsWhole reports whether the field is exempt from truncation.
func (e Endpoint) KeepsWhole(field string) bool {
	for _, f := range e.NoTruncate {
		if f == field {
			return true
		}
	}
	return false
}

// Order returns a display-ordered copy of records. The input is not
// mutated. Records missing the sort field sort last.
func (e Endpoint) Order(records []map[string]string) []map[string]string {
	ordered := make([]map[string]string, len(records))
	copy(ordered, records)
	if e.SortField == "" {
		return ordered
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, aok := ordered[i][e.SortField]
		b, bok := ordered[j][e.SortField]
		if aok != bok {
			return aok
		}
		if e.SortDescending {
			return a > b
		}
		return a < b
	})
	return ordered
}

// Registry returns the known endpoints keyed by name. Built fresh on
// each call so callers can safely modify their copy.
func Registry() map[string]Endpoint {
	reg := make(map[string]Endpoint, len(known))
	for _, e := range known {
		reg[e.Name] = e
	}
	return reg
}

// Names returns the registered endpoint names, sorted.
func Names() []string {
	names := make([]string, 0, len(known))
	for _, e := range known {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

var known = []Endpoint{
	{
		Name:           "jobs",
		Path:           "jobs.json",
		Title:          "US-RSE Jobs",
		Emoji:          "💼",
		NoTruncate:     []string{"url"},
		Key:            "url",
		ColumnOrder:    []string{"name", "institution", "location", "url"},
		SortField:      "expires",
		SortDescending: true,
	},
	{
		Name:           "posts",
		Path:           "posts.json",
		Title:          "US-RSE Blog Posts",
		Emoji:          "📰",
		Skip:           []string{"content", "excerpt"},
		NoTruncate:     []string{"url"},
		Key:            "url",
		ColumnOrder:    []string{"title", "author", "date", "url"},
		SortField:      "date",
		SortDescending: true,
	},
	{
		Name:           "events",
		Path:           "events.json",
		Title:          "US-RSE Events",
		Emoji:          "📅",
		Skip:           []string{"description"},
		NoTruncate:     []string{"url"},
		Key:            "url",
		ColumnOrder:    []string{"name", "date", "location", "url"},
		SortField:      "date",
		SortDescending: true,
	},
	{
		Name:           "newsletters",
		Path:           "newsletters.json",
		Title:          "US-RSE Newsletters",
		Emoji:          "✉️",
		NoTruncate:     []string{"url"},
		Key:            "url",
		ColumnOrder:    []string{"name", "date", "url"},
		SortField:      "date",
		SortDescending: true,
	},
	{
		Name:        "member-counts",
		Path:        "member-counts.json",
		Title:       "US-RSE Member Counts",
		Emoji:       "👥",
		ColumnOrder: []string{"date", "count"},
		SortField:   "date",
	},
}
