package notify

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/USRSE/usrse-go/internal/endpoints"
	"github.com/USRSE/usrse-go/internal/result"
)

// DefaultTemplate summarizes new records with a link per entry.
const DefaultTemplate = `{{endpoint.emoji}} {{count}} new in {{endpoint.title}}:
{{range records}}- {{or .name .title .date "entry"}}{{with .url}} ({{.}}){{end}}
{{end}}`

// TemplateData holds everything available to notification templates.
type TemplateData struct {
	Endpoint map[string]string
	Records  []result.Record
	Count    int
}

// BuildTemplateData constructs template data for a batch of records
// from one endpoint.
func BuildTemplateData(ep endpoints.Endpoint, records []result.Record) TemplateData {
	return TemplateData{
		Endpoint: map[string]string{
			"name":  ep.Name,
			"title": ep.Title,
			"emoji": ep.Emoji,
		},
		Records: records,
		Count:   len(records),
	}
}

// Render executes a Go text/template string with Sprig functions and
// the accessor functions (endpoint, records, count), so
// {{endpoint.title}} and {{range records}} work without a leading dot.
func Render(tmplStr string, data TemplateData) (string, error) {
	funcMap := sprig.TxtFuncMap()
	funcMap["endpoint"] = func() map[string]string { return data.Endpoint }
	funcMap["records"] = func() []result.Record { return data.Records }
	funcMap["count"] = func() int { return data.Count }

	t, err := template.New("notify").Funcs(funcMap).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}
