package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/USRSE/usrse-go/internal/endpoints"
)

func testRegistry() map[string]endpoints.Endpoint {
	return map[string]endpoints.Endpoint{
		"jobs": {Name: "jobs", Path: "jobs.json", Title: "Jobs"},
	}
}

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs.json" {
			t.Errorf("path = %q, want /jobs.json", r.URL.Path)
		}
		w.Write([]byte(`[{"name":"RSE","count":3,"active":true,"note":null},{"name":"Dev"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, testRegistry(), nil)
	res, err := c.Get(context.Background(), "jobs")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Count() != 2 {
		t.Fatalf("count = %d, want 2", res.Count())
	}

	recs := res.ToRecords()
	if recs[0]["count"] != "3" {
		t.Errorf("count field = %q, want %q", recs[0]["count"], "3")
	}
	if recs[0]["active"] != "true" {
		t.Errorf("active field = %q, want %q", recs[0]["active"], "true")
	}
	if recs[0]["note"] != "" {
		t.Errorf("null field = %q, want empty", recs[0]["note"])
	}
	// Normalized: second record gained the union fields.
	if _, ok := recs[1]["count"]; !ok {
		t.Error("second record missing filled count field")
	}
}

func TestGetUnknownEndpoint(t *testing.T) {
	c := New("http://localhost", testRegistry(), nil)
	_, err := c.Get(context.Background(), "nope")
	if err == nil {
		t.Fatal("Get succeeded for unknown endpoint")
	}
	if !strings.Contains(err.Error(), "jobs") {
		t.Errorf("error does not list valid endpoints: %v", err)
	}
}

func TestGetNon200IncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("maintenance window"))
	}))
	defer srv.Close()

	c := New(srv.URL, testRegistry(), nil)
	_, err := c.Get(context.Background(), "jobs")
	if err == nil {
		t.Fatal("Get succeeded on 503")
	}
	if !strings.Contains(err.Error(), "maintenance window") {
		t.Errorf("error missing response body: %v", err)
	}
}

func TestGetEmptyBody(t *testing.T) {
	for _, body := range []string{"", "null"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		c := New(srv.URL, testRegistry(), nil)
		res, err := c.Get(context.Background(), "jobs")
		if err != nil {
			t.Errorf("Get with body %q: %v", body, err)
		} else if res.Count() != 0 {
			t.Errorf("count with body %q = %d, want 0", body, res.Count())
		}
		srv.Close()
	}
}

func TestGetMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, testRegistry(), nil)
	if _, err := c.Get(context.Background(), "jobs"); err == nil {
		t.Fatal("Get succeeded on a non-array body")
	}
}

func TestNewDefaults(t *testing.T) {
	c := New("", testRegistry(), nil)
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("base URL = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
	c = New("https://example.com/api/", testRegistry(), nil)
	if c.BaseURL() != "https://example.com/api" {
		t.Errorf("base URL = %q, want trailing slash stripped", c.BaseURL())
	}
}
