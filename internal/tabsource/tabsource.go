// Package tabsource reads window snapshots exported from the browser: one JSON
// tab per line, optionally carrying page text and visit data.
package tabsource

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

// Line is one exported tab.
type Line struct {
	ID          *int      `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Index       *int      `json:"index"`
	Pinned      bool      `json:"pinned"`
	GroupID     *int      `json:"groupId"`
	Active      bool      `json:"active"`
	LastVisited time.Time `json:"lastVisited"`
	TimeSpent   float64   `json:"timeSpentSeconds"`
	Content     string    `json:"content"`
}

// Window is a loaded snapshot.
type Window struct {
	Tabs    []ingest.TabRecord
	Metas   []ingest.TabMeta
	Content map[int]string // tab id to page text, only for lines with content
	Active  int            // id of the active tab, -1 when none is marked
}

// LoadFromJSONL loads a window from a JSONL file. "-" reads stdin.
func LoadFromJSONL(path string, logger *zap.Logger) (Window, error) {
	if path == "-" {
		return Read(os.Stdin, "stdin", logger)
	}
	f, err := os.Open(path)
	if err != nil {
		return Window{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path, logger)
}

// Read parses JSONL from r. Malformed lines are skipped with a warning. Tabs
// without an id or index get their line position.
func Read(r io.Reader, name string, logger *zap.Logger) (Window, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := Window{Content: make(map[int]string), Active: -1}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 8<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var l Line
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			logger.Warn("Skipping malformed tab line",
				zap.String("source", name),
				zap.Int("line", lineNo),
				zap.Error(err))
			continue
		}

		pos := len(w.Tabs)
		rec := ingest.TabRecord{
			ID:      pos,
			Title:   l.Title,
			URL:     l.URL,
			Index:   pos,
			Pinned:  l.Pinned,
			GroupID: ingest.GroupNone,
		}
		if l.ID != nil {
			rec.ID = *l.ID
		}
		if l.Index != nil {
			rec.Index = *l.Index
		}
		if l.GroupID != nil {
			rec.GroupID = *l.GroupID
		}
		if err := rec.Validate(); err != nil {
			logger.Warn("Skipping invalid tab",
				zap.String("source", name),
				zap.Int("line", lineNo),
				zap.Error(err))
			continue
		}

		w.Tabs = append(w.Tabs, rec)
		w.Metas = append(w.Metas, ingest.NewTabMeta(rec, l.LastVisited, time.Duration(l.TimeSpent*float64(time.Second))))
		if l.Content != "" {
			w.Content[rec.ID] = l.Content
		}
		if l.Active {
			w.Active = rec.ID
		}
	}
	if err := sc.Err(); err != nil {
		return Window{}, fmt.Errorf("read %s: %w", name, err)
	}
	if len(w.Tabs) == 0 {
		return Window{}, fmt.Errorf("no valid tabs found in %s", name)
	}
	return w, nil
}

// LoadContent reads a JSON object mapping tab id to page text.
func LoadContent(path string) (map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse content %s: %w", path, err)
	}
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("content key %q in %s is not a tab id", k, path)
		}
		out[id] = v
	}
	return out, nil
}
