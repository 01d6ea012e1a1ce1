package ingest

import (
	"testing"
	"time"
)

func TestTabRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     TabRecord
		wantErr bool
	}{
		{"valid", TabRecord{ID: 4, Index: 0, GroupID: GroupNone}, false},
		{"negative id", TabRecord{ID: -1}, true},
		{"negative index", TabRecord{ID: 1, Index: -2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewTabMeta(t *testing.T) {
	visited := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	meta := NewTabMeta(TabRecord{ID: 1, URL: "https://docs.python.org:443/3/"}, visited, 90*time.Second)

	if meta.Hostname != "docs.python.org" {
		t.Errorf("Hostname = %q, want docs.python.org", meta.Hostname)
	}
	if !meta.LastVisited.Equal(visited) || meta.TimeSpent != 90*time.Second {
		t.Errorf("visit data not kept: %+v", meta)
	}
}

func TestHostname(t *testing.T) {
	tests := map[string]string{
		"https://example.com/a": "example.com",
		"chrome://extensions":   "extensions",
		"":                      "",
		"::not a url":           "",
	}
	for in, want := range tests {
		if got := Hostname(in); got != want {
			t.Errorf("Hostname(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	rec := TabRecord{URL: "https://example.com"}
	if rec.DisplayTitle() != "https://example.com" {
		t.Error("untitled tab should display its URL")
	}
	rec.Title = "Example"
	if rec.DisplayTitle() != "Example" {
		t.Error("titled tab should display its title")
	}
}
