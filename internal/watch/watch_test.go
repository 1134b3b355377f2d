package watch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/USRSE/usrse-go/internal/client"
	"github.com/USRSE/usrse-go/internal/config"
	"github.com/USRSE/usrse-go/internal/endpoints"
	"github.com/USRSE/usrse-go/internal/notify"
	"github.com/USRSE/usrse-go/internal/result"
)

// jobServer serves a mutable jobs.json payload.
type jobServer struct {
	mu   sync.Mutex
	jobs []map[string]string
	srv  *httptest.Server
}

func newJobServer(t *testing.T, jobs ...map[string]string) *jobServer {
	t.Helper()
	js := &jobServer{jobs: jobs}
	js.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		js.mu.Lock()
		defer js.mu.Unlock()
		json.NewEncoder(w).Encode(js.jobs)
	}))
	t.Cleanup(js.srv.Close)
	return js
}

func (js *jobServer) add(job map[string]string) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.jobs = append(js.jobs, job)
}

func newTestWatcher(t *testing.T, js *jobServer, opts Options) *Watcher {
	t.Helper()
	opts.Endpoint = "jobs"
	c := client.New(js.srv.URL, endpoints.Registry(), nil)
	w, err := New(c, nil, opts, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestRunOncePrimesThenDetectsNew(t *testing.T) {
	js := newJobServer(t,
		map[string]string{"name": "First", "url": "https://example.com/1"},
	)
	w := newTestWatcher(t, js, Options{})

	first := w.RunOnce(context.Background())
	if first.Err != nil {
		t.Fatalf("first run: %v", first.Err)
	}
	if first.Fetched != 1 {
		t.Errorf("fetched = %d, want 1", first.Fetched)
	}
	if len(first.New) != 0 {
		t.Errorf("baseline run reported %d new records, want 0", len(first.New))
	}

	// Nothing changed: second run sees nothing new.
	second := w.RunOnce(context.Background())
	if len(second.New) != 0 {
		t.Errorf("unchanged run reported %d new records, want 0", len(second.New))
	}

	js.add(map[string]string{"name": "Second", "url": "https://example.com/2"})
	third := w.RunOnce(context.Background())
	if len(third.New) != 1 {
		t.Fatalf("new records = %d, want 1", len(third.New))
	}
	if third.New[0]["name"] != "Second" {
		t.Errorf("new record = %v, want Second", third.New[0])
	}
}

func TestRunOnceNotifiesDryRun(t *testing.T) {
	js := newJobServer(t, map[string]string{"name": "First", "url": "https://example.com/1"})
	w := newTestWatcher(t, js, Options{
		Notify: []string{"logger://"},
		DryRun: true,
	})

	w.RunOnce(context.Background())
	js.add(map[string]string{"name": "Second", "url": "https://example.com/2"})

	res := w.RunOnce(context.Background())
	if res.Err != nil {
		t.Fatalf("run: %v (stage %s)", res.Err, res.ErrStage)
	}
	if len(res.Notified) != 1 || res.Notified[0] != "logger" {
		t.Errorf("notified = %v, want [logger]", res.Notified)
	}
	if !res.DryRun {
		t.Error("result not marked dry-run")
	}
}

func TestRunOnceFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := client.New(srv.URL, endpoints.Registry(), nil)
	w, err := New(c, nil, Options{Endpoint: "jobs"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := w.RunOnce(context.Background())
	if res.Err == nil {
		t.Fatal("run succeeded against a failing server")
	}
	if res.ErrStage != "fetch" {
		t.Errorf("stage = %q, want fetch", res.ErrStage)
	}
}

func TestNewUnknownEndpoint(t *testing.T) {
	c := client.New("http://localhost", endpoints.Registry(), nil)
	if _, err := New(c, nil, Options{Endpoint: "nope"}, nil); err == nil {
		t.Fatal("New accepted an unknown endpoint")
	}
}

func TestRecordKey(t *testing.T) {
	rec := result.Record{"url": "https://example.com/1", "name": "x"}
	if got := recordKey(rec, "url"); got != "https://example.com/1" {
		t.Errorf("key = %q, want the url field", got)
	}

	// No key field: canonical form is order-independent.
	a := result.Record{"x": "1", "y": "2"}
	b := result.Record{"y": "2", "x": "1"}
	if recordKey(a, "") != recordKey(b, "") {
		t.Error("canonical keys differ for equal records")
	}

	// Missing key field falls back to the canonical form.
	c := result.Record{"name": "no url"}
	if recordKey(c, "url") != "name=no url" {
		t.Errorf("fallback key = %q", recordKey(c, "url"))
	}
}

func TestResolveTargetsRawURL(t *testing.T) {
	js := newJobServer(t)
	w := newTestWatcher(t, js, Options{Notify: []string{"logger://"}})

	data := buildData(t)
	targets, err := w.resolveTargets(data)
	if err != nil {
		t.Fatalf("resolveTargets: %v", err)
	}
	if len(targets) != 1 || targets[0].URL != "logger://" {
		t.Errorf("targets = %v, want one logger target", targets)
	}
}

func TestResolveTargetsConfigService(t *testing.T) {
	js := newJobServer(t)
	opts := Options{Notify: []string{"log"}}
	c := client.New(js.srv.URL, endpoints.Registry(), nil)
	w, err := New(c, map[string]config.Service{
		"log": {URL: "logger://"},
	}, mergeEndpoint(opts), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	targets, err := w.resolveTargets(buildData(t))
	if err != nil {
		t.Fatalf("resolveTargets: %v", err)
	}
	if len(targets) != 1 || targets[0].ServiceName != "log" {
		t.Errorf("targets = %v, want the configured log service", targets)
	}
}

func mergeEndpoint(opts Options) Options {
	opts.Endpoint = "jobs"
	return opts
}

func buildData(t *testing.T) notify.TemplateData {
	t.Helper()
	return notify.BuildTemplateData(endpoints.Registry()["jobs"], nil)
}
