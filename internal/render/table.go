package render

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/USRSE/usrse-go/internal/result"
)

// Options controls table rendering.
type Options struct {
	Limit   int           // max rows; 0 uses result.DefaultLimit
	Surface int           // terminal width; 0 detects
	Delay   time.Duration // animation step unit; 0 uses DefaultDelay
	Seed    int64         // color shuffle seed; 0 seeds from the clock
	NoColor bool
}

// DefaultDelay is the animation step unit, matching a gentle reveal.
const DefaultDelay = 40 * time.Millisecond

func (o Options) limit() int {
	if o.Limit == 0 {
		return result.DefaultLimit
	}
	return o.Limit
}

func (o Options) surface() int {
	if o.Surface == 0 {
		return result.SurfaceWidth()
	}
	return o.Surface
}

func (o Options) delay() time.Duration {
	if o.Delay == 0 {
		return DefaultDelay
	}
	return o.Delay
}

func (o Options) rng() *rand.Rand {
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Table writes a static table of the result to w, centered against the
// surface width. Each column gets a distinct color from the palette.
func Table(w io.Writer, res *result.Result, opts Options) error {
	surface := opts.surface()
	f := buildFrame(res, opts, surface)
	f.shown = -1

	if len(f.columns) == 0 {
		if _, err := fmt.Fprintf(w, "%s\nno records\n", res.Endpoint.Title); err != nil {
			return err
		}
		return nil
	}

	if _, err := fmt.Fprintln(w, f.render(surface)); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}

// buildFrame assembles the full drawable state for a result: columns,
// colors, and the truncated row matrix.
func buildFrame(res *result.Result, opts Options, surface int) *frame {
	columns := res.Columns()

	var rows [][]string
	for row := range res.Rows(columns, opts.limit(), surface) {
		rows = append(rows, row)
	}

	return &frame{
		title:   res.Endpoint.Title,
		columns: columns,
		colors:  assignColors(len(columns), opts.rng()),
		rows:    rows,
		padEdge: true,
		noColor: opts.NoColor,
	}
}
