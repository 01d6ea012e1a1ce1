package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

func newTestServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/kafka", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<main><p>Kafka consumer groups</p></main>")
	})
	mux.HandleFunc("/python", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<body><nav>menu</nav><p>Python decorators</p></body>")
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"a":1}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestEligible(t *testing.T) {
	tests := map[string]bool{
		"https://realpython.com/":                  true,
		"http://localhost:8080/x":                  true,
		"chrome://extensions":                      false,
		"file:///tmp/a.html":                       false,
		"https://chromewebstore.google.com/detail": false,
		"https://chrome.google.com/webstore":       false,
		"":                                         false,
	}
	for in, want := range tests {
		if got := Eligible(in); got != want {
			t.Errorf("Eligible(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFetch(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)

	f, err := NewFetcher(Options{Timeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	tabs := []ingest.TabRecord{
		{ID: 1, URL: srv.URL + "/kafka"},
		{ID: 2, URL: srv.URL + "/python"},
		{ID: 3, URL: srv.URL + "/missing"},
		{ID: 4, URL: srv.URL + "/slow"},
		{ID: 5, URL: srv.URL + "/json"},
		{ID: 6, URL: "chrome://settings"},
		{ID: 7},
	}

	res, err := f.Fetch(context.Background(), tabs)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Content[1] != "Kafka consumer groups" || res.Content[2] != "Python decorators" {
		t.Errorf("unexpected content %v", res.Content)
	}
	if len(res.Content) != 2 {
		t.Errorf("failed tabs should have no content, got %v", res.Content)
	}
	want := Stats{Eligible: 5, Success: 2, Restricted: 1}
	if res.Stats != want {
		t.Errorf("Stats = %+v, want %+v", res.Stats, want)
	}
}

func TestFetchCachesByURL(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)

	f, err := NewFetcher(Options{})
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	tabs := []ingest.TabRecord{{ID: 1, URL: srv.URL + "/kafka"}}
	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), tabs); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestFetchCancelled(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)

	f, err := NewFetcher(Options{})
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.Fetch(ctx, []ingest.TabRecord{{ID: 1, URL: srv.URL + "/kafka"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res.Content == nil || res.Stats.Eligible != 1 {
		t.Errorf("partial result should still be usable: %+v", res)
	}
}

func TestFetchNoEligibleTabs(t *testing.T) {
	f, err := NewFetcher(Options{})
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	res, err := f.Fetch(context.Background(), []ingest.TabRecord{{ID: 1, URL: "about:blank"}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Stats.Restricted != 1 || res.Stats.Eligible != 0 {
		t.Errorf("unexpected stats %+v", res.Stats)
	}
}
