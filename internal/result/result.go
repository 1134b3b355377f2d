package result

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/USRSE/usrse-go/internal/endpoints"
)

// Record is one entity returned by an endpoint, field name to value.
type Record = map[string]string

// DefaultLimit caps the number of rows shown in table views.
const DefaultLimit = 25

// FallbackWidth is assumed when no terminal is attached.
const FallbackWidth = 120

// Result holds one fetch worth of normalized records plus the layout
// metadata derived from them. Construct with New; read-only afterwards.
type Result struct {
	Endpoint endpoints.Endpoint

	records   []Record
	maxWidths map[string]int
	logger    *slog.Logger
}

// New builds a Result from raw records and the endpoint that produced
// them. Records are display-ordered by the endpoint, then made
// key-uniform: every record gains the union of all field names, missing
// fields filled with "". A nil logger falls back to slog.Default.
func New(records []Record, ep endpoints.Endpoint, logger *slog.Logger) *Result {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Result{
		Endpoint:  ep,
		records:   ep.Order(records),
		maxWidths: make(map[string]int),
		logger:    logger,
	}
	r.ensureComplete()
	return r
}

// ensureComplete fills missing fields and records the widest value seen
// for each field exempt from truncation. Filled-in empties do not count
// toward the width: only genuinely present values reserve space.
func (r *Result) ensureComplete() {
	fields := make(map[string]bool)
	for _, rec := range r.records {
		for f := range rec {
			fields[f] = true
		}
	}

	for _, rec := range r.records {
		for f := range fields {
			v, present := rec[f]
			if !present {
				rec[f] = ""
				continue
			}
			if r.Endpoint.KeepsWhole(f) {
				if w := runewidth.StringWidth(v); w > r.maxWidths[f] {
					r.maxWidths[f] = w
				}
			}
		}
	}
}

// Columns returns the displayable field names: the endpoint's preferred
// columns first, remaining fields alphabetically, skip-listed fields
// removed. An empty Result yields an empty list.
func (r *Result) Columns() []string {
	if len(r.records) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var columns []string
	add := func(f string) {
		if !seen[f] && !r.Endpoint.Skips(f) {
			seen[f] = true
			columns = append(columns, f)
		}
	}

	for _, f := range r.Endpoint.ColumnOrder {
		if _, ok := r.records[0][f]; ok {
			add(f)
		}
	}

	rest := make([]string, 0, len(r.records[0]))
	for f := range r.records[0] {
		rest = append(rest, f)
	}
	sort.Strings(rest)
	for _, f := range rest {
		add(f)
	}
	return columns
}

// SurfaceWidth returns the current terminal width, or FallbackWidth
// when stdout is not a terminal or the size cannot be determined.
func SurfaceWidth() int {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return FallbackWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return FallbackWidth
	}
	return w
}

// AvailableWidth computes the per-column width budget for truncatable
// columns: the surface minus the space reserved for never-truncated
// fields, split evenly among the rest. When the reserved fields alone
// exceed the surface, or every column is reserved, it falls back to a
// plain even split. Never negative.
func (r *Result) AvailableWidth(columns []string, surface int) int {
	if len(columns) == 0 {
		return 0
	}

	naive := surface / len(columns)

	remaining := surface
	for _, needed := range r.maxWidths {
		remaining -= needed
	}

	if remaining < 0 {
		r.logger.Warn("terminal too small to render without overlap", "surface", surface)
		return naive
	}

	free := len(columns) - len(r.maxWidths)
	if free <= 0 {
		return naive
	}
	return remaining / free
}

// Rows yields one value list per record, in display order, up to limit
// rows (limit <= 0 means all). Cells wider than the column budget are
// cut to the budget and suffixed with "...", unless the field is exempt
// from truncation. The sequence is single-use.
func (r *Result) Rows(columns []string, limit, surface int) iter.Seq[[]string] {
	width := r.AvailableWidth(columns, surface)

	return func(yield func([]string) bool) {
		for i, rec := range r.records {
			if limit > 0 && i >= limit {
				return
			}
			row := make([]string, len(columns))
			for j, col := range columns {
				content := rec[col]
				if content != "" && !r.Endpoint.KeepsWhole(col) && runewidth.StringWidth(content) > width {
					content = runewidth.Truncate(content, width, "") + "..."
				}
				row[j] = content
			}
			if !yield(row) {
				return
			}
		}
	}
}

// ToRecords returns the normalized records unchanged.
func (r *Result) ToRecords() []Record {
	return r.records
}

// Count returns the number of records.
func (r *Result) Count() int {
	return len(r.records)
}

// MaxWidths returns a copy of the reserved-width map.
func (r *Result) MaxWidths() map[string]int {
	out := make(map[string]int, len(r.maxWidths))
	for k, v := range r.maxWidths {
		out[k] = v
	}
	return out
}

// WriteJSON writes the normalized records as indented JSON.
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.records); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return nil
}

// WriteYAML writes the normalized records as YAML.
func (r *Result) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(r.records)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return nil
}

// Save writes the normalized records as JSON to path, overwriting any
// existing file.
func (r *Result) Save(path string) error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	r.logger.Info("saving records", "endpoint", r.Endpoint.Name, "path", path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
