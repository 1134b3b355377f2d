package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// frame is the drawable state of a table: which parts are visible and
// how they are styled. The static renderer builds a fully revealed
// frame; the animated renderer mutates one step by step.
type frame struct {
	title      string
	caption    string
	captionHot bool
	columns    []string
	colors     []lipgloss.Color
	rows       [][]string
	shown      int // revealed row count; -1 shows all
	boldHeader bool
	altRows    bool
	footer     string
	minimal    bool
	borderHot  bool
	padEdge    bool
	noColor    bool
}

var (
	captionStyle    = lipgloss.NewStyle().Faint(true)
	captionHotStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	titleStyle      = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Faint(true)
	hotBorderColor  = lipgloss.Color("11")
)

func (f *frame) visibleRows() [][]string {
	if f.shown < 0 || f.shown >= len(f.rows) {
		return f.rows
	}
	return f.rows[:f.shown]
}

func (f *frame) style(s lipgloss.Style, text string) string {
	if f.noColor {
		return text
	}
	return s.Render(text)
}

// render draws the frame centered against the surface width.
func (f *frame) render(surface int) string {
	var parts []string

	if f.title != "" {
		parts = append(parts, f.style(titleStyle, f.title))
	}

	if len(f.columns) > 0 {
		parts = append(parts, f.renderTable())
	}

	if f.caption != "" {
		if f.captionHot {
			parts = append(parts, f.style(captionHotStyle, f.caption))
		} else {
			parts = append(parts, f.style(captionStyle, f.caption))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if surface > lipgloss.Width(body) {
		body = lipgloss.PlaceHorizontal(surface, lipgloss.Center, body)
	}
	return body
}

func (f *frame) renderTable() string {
	rows := f.visibleRows()
	headers := make([]string, len(f.columns))
	for i, c := range f.columns {
		headers[i] = capitalize(c)
	}

	widths := make([]int, len(f.columns))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := runewidth.StringWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var b strings.Builder

	if !f.minimal {
		b.WriteString(f.hline(widths, "╭", "─", "┬", "╮"))
		b.WriteString("\n")
	}

	b.WriteString(f.renderRow(headers, widths, f.headerStyles()))
	b.WriteString("\n")
	if f.minimal {
		b.WriteString(f.hline(widths, "", "─", "┼", ""))
	} else {
		b.WriteString(f.hline(widths, "├", "─", "┼", "┤"))
	}

	for ri, row := range rows {
		b.WriteString("\n")
		b.WriteString(f.renderRow(row, widths, f.rowStyles(ri)))
	}

	if f.footer != "" {
		b.WriteString("\n")
		if f.minimal {
			b.WriteString(f.hline(widths, "", "─", "┴", ""))
		} else {
			b.WriteString(f.hline(widths, "├", "─", "┴", "┤"))
		}
		b.WriteString("\n")
		b.WriteString(f.footerLine(widths))
	}

	if !f.minimal {
		b.WriteString("\n")
		if f.footer != "" {
			b.WriteString(f.hline(widths, "╰", "─", "─", "╯"))
		} else {
			b.WriteString(f.hline(widths, "╰", "─", "┴", "╯"))
		}
	}

	return b.String()
}

func (f *frame) headerStyles() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(f.columns))
	for i := range styles {
		s := lipgloss.NewStyle()
		if i < len(f.colors) {
			s = s.Foreground(f.colors[i])
		}
		if f.boldHeader {
			s = s.Bold(true)
		}
		styles[i] = s
	}
	return styles
}

func (f *frame) rowStyles(rowIdx int) []lipgloss.Style {
	styles := make([]lipgloss.Style, len(f.columns))
	for i := range styles {
		s := lipgloss.NewStyle()
		if i < len(f.colors) {
			s = s.Foreground(f.colors[i])
		}
		if f.altRows && rowIdx%2 == 1 {
			s = s.Faint(true)
		}
		styles[i] = s
	}
	return styles
}

func (f *frame) border(text string) string {
	if f.noColor || !f.borderHot {
		return text
	}
	return lipgloss.NewStyle().Foreground(hotBorderColor).Render(text)
}

func (f *frame) hline(widths []int, left, fill, mid, right string) string {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		fw := w + 2
		if !f.padEdge {
			if i == 0 {
				fw--
			}
			if i == len(widths)-1 {
				fw--
			}
		}
		b.WriteString(strings.Repeat(fill, fw))
		if i < len(widths)-1 {
			b.WriteString(mid)
		}
	}
	b.WriteString(right)
	return f.border(b.String())
}

func (f *frame) renderRow(cells []string, widths []int, styles []lipgloss.Style) string {
	edge := " "
	if !f.padEdge {
		edge = ""
	}
	vert := "│"

	var b strings.Builder
	if !f.minimal {
		b.WriteString(f.border(vert))
	}
	b.WriteString(edge)
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded := cell + strings.Repeat(" ", max(0, w-runewidth.StringWidth(cell)))
		b.WriteString(f.style(styles[i], padded))
		if i < len(widths)-1 {
			b.WriteString(" ")
			b.WriteString(f.border(vert))
			b.WriteString(" ")
		}
	}
	b.WriteString(edge)
	if !f.minimal {
		b.WriteString(f.border(vert))
	}
	return b.String()
}

func (f *frame) footerLine(widths []int) string {
	inner := 0
	for _, w := range widths {
		inner += w + 2
	}
	inner += len(widths) - 1
	if !f.padEdge {
		inner -= 2
	}

	text := f.footer
	if runewidth.StringWidth(text) > inner {
		text = runewidth.Truncate(text, inner, "...")
	}
	padded := text + strings.Repeat(" ", max(0, inner-runewidth.StringWidth(text)))

	var b strings.Builder
	if !f.minimal {
		b.WriteString(f.border("│"))
	}
	b.WriteString(f.style(dimStyle, padded))
	if !f.minimal {
		b.WriteString(f.border("│"))
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
