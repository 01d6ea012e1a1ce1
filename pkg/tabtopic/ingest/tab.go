package ingest

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// GroupNone is the group id of a tab that belongs to no tab group.
const GroupNone = -1

// TabRecord is an immutable snapshot of one browser tab, as supplied by the
// tab-query collaborator.
type TabRecord struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Index   int    `json:"index"`
	Pinned  bool   `json:"pinned"`
	GroupID int    `json:"groupId"`
}

// Validate checks the fields the tab-grouping side effects depend on.
// Clustering itself tolerates any record.
func (r *TabRecord) Validate() error {
	if r.ID < 0 {
		return errors.New("tab id must be non-negative")
	}
	if r.Index < 0 {
		return errors.New("tab index must be non-negative")
	}
	return nil
}

// DisplayTitle returns the title, or the URL for untitled tabs.
func (r *TabRecord) DisplayTitle() string {
	if strings.TrimSpace(r.Title) != "" {
		return r.Title
	}
	return r.URL
}

// TabMeta is a TabRecord plus derived per-action metadata.
type TabMeta struct {
	TabRecord
	Hostname    string
	LastVisited time.Time // zero when unknown
	TimeSpent   time.Duration
}

// NewTabMeta derives the hostname for rec and attaches visit data.
func NewTabMeta(rec TabRecord, lastVisited time.Time, timeSpent time.Duration) TabMeta {
	return TabMeta{
		TabRecord:   rec,
		Hostname:    Hostname(rec.URL),
		LastVisited: lastVisited,
		TimeSpent:   timeSpent,
	}
}

// MetasFromRecords wraps records without visit data.
func MetasFromRecords(recs []TabRecord) []TabMeta {
	out := make([]TabMeta, len(recs))
	for i, rec := range recs {
		out[i] = NewTabMeta(rec, time.Time{}, 0)
	}
	return out
}

// Hostname returns the host of rawURL without port, or "" when it cannot be
// parsed.
func Hostname(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
