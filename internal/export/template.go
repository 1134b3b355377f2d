package export

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/USRSE/usrse-go/internal/result"
)

// Template renders each record through a Go text/template with Sprig
// functions, one line per record. The record is the template's dot, so
// {{.name}} and {{.url | upper}} work.
func Template(w io.Writer, records []result.Record, tmplStr string) error {
	t, err := template.New("export").Funcs(sprig.TxtFuncMap()).Parse(tmplStr)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	for i, rec := range records {
		var b strings.Builder
		if err := t.Execute(&b, rec); err != nil {
			return fmt.Errorf("executing template on record %d: %w", i, err)
		}
		line := b.String()
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	return nil
}
