package render

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/USRSE/usrse-go/internal/result"
)

const caption = "the United States Research Software Engineer Association"

type stepFn func(*frame)

type stepMsg time.Time

// animation progressively reveals a table: columns first, then title,
// caption, rows one by one, and finally the decorative restyling.
type animation struct {
	frame   *frame
	steps   []stepFn
	idx     int
	beat    time.Duration
	surface int
}

func (m animation) Init() tea.Cmd {
	return tea.Batch(tea.ClearScreen, m.tick())
}

func (m animation) tick() tea.Cmd {
	return tea.Tick(m.beat, func(t time.Time) tea.Msg { return stepMsg(t) })
}

func (m animation) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.surface = msg.Width
		}
	case stepMsg:
		if m.idx >= len(m.steps) {
			return m, tea.Quit
		}
		m.steps[m.idx](m.frame)
		m.idx++
		if m.idx >= len(m.steps) {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m animation) View() string {
	return m.frame.render(m.surface) + "\n"
}

// Animate plays the staged table reveal. Each step is separated by ten
// times the configured delay. Without a terminal it falls back to the
// static renderer.
func Animate(res *result.Result, opts Options) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return Table(os.Stdout, res, opts)
	}

	surface := opts.surface()
	full := buildFrame(res, opts, surface)

	if len(full.columns) == 0 {
		return Table(os.Stdout, res, opts)
	}

	start := &frame{
		rows:    full.rows,
		padEdge: true,
		noColor: full.noColor,
	}

	m := animation{
		frame:   start,
		steps:   buildSteps(res, full),
		beat:    10 * opts.delay(),
		surface: surface,
	}

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("running animation: %w", err)
	}
	return nil
}

func buildSteps(res *result.Result, full *frame) []stepFn {
	ep := res.Endpoint

	steps := []stepFn{
		func(f *frame) {
			f.columns = full.columns
			f.colors = full.colors
		},
		func(f *frame) { f.title = ep.Title },
		func(f *frame) { f.title = ep.Emoji + " " + ep.Title + " " + ep.Emoji },
		func(f *frame) { f.caption = caption },
		func(f *frame) { f.captionHot = true },
	}

	for range full.rows {
		steps = append(steps, func(f *frame) { f.shown++ })
	}

	steps = append(steps,
		func(f *frame) {
			f.footer = fmt.Sprintf("%d of %d records", len(full.rows), res.Count())
			f.boldHeader = true
		},
		func(f *frame) { f.altRows = true },
		func(f *frame) {
			f.borderHot = true
			f.minimal = true
		},
		func(f *frame) { f.padEdge = false },
	)
	return steps
}
