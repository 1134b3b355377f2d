package notify

import (
	"strings"
	"testing"

	"github.com/USRSE/usrse-go/internal/endpoints"
	"github.com/USRSE/usrse-go/internal/result"
)

func jobsEndpoint() endpoints.Endpoint {
	return endpoints.Endpoint{Name: "jobs", Title: "US-RSE Jobs", Emoji: "💼"}
}

func TestRenderAccessors(t *testing.T) {
	data := BuildTemplateData(jobsEndpoint(), []result.Record{
		{"name": "RSE at LabX", "url": "https://example.com/1"},
	})

	got, err := Render(`{{endpoint.name}}/{{count}}`, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "jobs/1" {
		t.Errorf("result = %q, want %q", got, "jobs/1")
	}
}

func TestRenderRecords(t *testing.T) {
	data := BuildTemplateData(jobsEndpoint(), []result.Record{
		{"name": "First", "url": "https://example.com/1"},
		{"name": "Second", "url": "https://example.com/2"},
	})

	got, err := Render(`{{range records}}{{.name}};{{end}}`, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "First;Second;" {
		t.Errorf("result = %q, want %q", got, "First;Second;")
	}
}

func TestRenderSprigFunctions(t *testing.T) {
	data := BuildTemplateData(jobsEndpoint(), nil)

	got, err := Render(`{{endpoint.name | upper}}`, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "JOBS" {
		t.Errorf("result = %q, want %q", got, "JOBS")
	}
}

func TestRenderDefaultTemplate(t *testing.T) {
	data := BuildTemplateData(jobsEndpoint(), []result.Record{
		{"name": "RSE at LabX", "url": "https://example.com/1"},
	})

	got, err := Render(DefaultTemplate, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"1 new in US-RSE Jobs", "RSE at LabX", "https://example.com/1"} {
		if !strings.Contains(got, want) {
			t.Errorf("default template output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderBadTemplate(t *testing.T) {
	data := BuildTemplateData(jobsEndpoint(), nil)
	if _, err := Render(`{{unterminated`, data); err == nil {
		t.Fatal("bad template parsed without error")
	}
}

func TestResolveTargets(t *testing.T) {
	services := map[string]ServiceDef{
		"telegram": {URL: "telegram://token@telegram", Params: map[string]string{"chats": "42"}},
	}
	data := BuildTemplateData(jobsEndpoint(), []result.Record{{"name": "x"}})

	targets, err := ResolveTargets(services, []string{"telegram"}, `{{count}} new`, data)
	if err != nil {
		t.Fatalf("ResolveTargets: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("targets = %d, want 1", len(targets))
	}
	if targets[0].Message != "1 new" {
		t.Errorf("message = %q, want %q", targets[0].Message, "1 new")
	}
	if targets[0].Params["chats"] != "42" {
		t.Errorf("params not carried through: %v", targets[0].Params)
	}
}

func TestResolveTargetsUnknownService(t *testing.T) {
	data := BuildTemplateData(jobsEndpoint(), nil)
	_, err := ResolveTargets(nil, []string{"nope"}, `x`, data)
	if err == nil {
		t.Fatal("unknown service resolved without error")
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("error does not name the service: %v", err)
	}
}
