package tabsource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

const window = `{"id": 11, "title": "Kafka Streams", "url": "https://kafka.apache.org/streams", "index": 0, "active": true, "content": "stream processing"}
{"id": 12, "title": "Go Blog", "url": "https://go.dev/blog/", "index": 1, "groupId": 4, "pinned": true, "lastVisited": "2025-06-01T10:00:00Z", "timeSpentSeconds": 90}

not json
{"title": "No id", "url": "https://example.com/"}
{"id": -3, "title": "Broken", "url": "https://example.com/x"}
`

func TestRead(t *testing.T) {
	w, err := Read(strings.NewReader(window), "test", nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	want := []ingest.TabRecord{
		{ID: 11, Title: "Kafka Streams", URL: "https://kafka.apache.org/streams", Index: 0, GroupID: ingest.GroupNone},
		{ID: 12, Title: "Go Blog", URL: "https://go.dev/blog/", Index: 1, GroupID: 4, Pinned: true},
		{ID: 2, Title: "No id", URL: "https://example.com/", Index: 2, GroupID: ingest.GroupNone},
	}
	if diff := cmp.Diff(want, w.Tabs); diff != "" {
		t.Errorf("tabs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[int]string{11: "stream processing"}, w.Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
	if w.Active != 11 {
		t.Errorf("active = %d, want 11", w.Active)
	}

	meta := w.Metas[1]
	if meta.Hostname != "go.dev" || meta.TimeSpent != 90*time.Second {
		t.Errorf("unexpected meta %+v", meta)
	}
	if !meta.LastVisited.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("lastVisited = %v", meta.LastVisited)
	}
}

func TestReadNoTabs(t *testing.T) {
	if _, err := Read(strings.NewReader("\n\nnope\n"), "empty", nil); err == nil {
		t.Fatal("expected error for input without tabs")
	}
}

func TestLoadFromJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "window.jsonl")
	if err := os.WriteFile(path, []byte(window), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := LoadFromJSONL(path, nil)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(w.Tabs) != 3 {
		t.Errorf("tabs = %d, want 3", len(w.Tabs))
	}

	if _, err := LoadFromJSONL(filepath.Join(t.TempDir(), "missing.jsonl"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadContent(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "content.json")
	if err := os.WriteFile(good, []byte(`{"11": "kafka text", "12": "go text"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadContent(good)
	if err != nil {
		t.Fatalf("LoadContent: %v", err)
	}
	if diff := cmp.Diff(map[int]string{11: "kafka text", 12: "go text"}, got); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"tab": "x"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadContent(bad); err == nil {
		t.Error("expected error for non-numeric key")
	}
}
