// Package report renders a clustering run as a JSON debug snapshot. The
// format is for developer inspection and may change.
package report

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
	"github.com/cognicore/tabtopic/pkg/tabtopic/topic"
)

// Report is the debug snapshot of one run.
type Report struct {
	RunID         string         `json:"runId"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	ThresholdUsed float64        `json:"thresholdUsed"`
	Stage         string         `json:"stage"`
	Sensitivity   string         `json:"sensitivity"`
	Aborted       bool           `json:"aborted,omitempty"`
	Config        config.Config  `json:"config"`
	Groups        []GroupRow     `json:"groups"`
	Singletons    []SingletonRow `json:"singletons"`
	Attempts      []AttemptRow   `json:"attempts,omitempty"`
	Stopwords     []string       `json:"dynamicStopwords,omitempty"`
	Content       *ContentRow    `json:"content,omitempty"`
}

// GroupRow describes one multi-tab group.
type GroupRow struct {
	Group    int      `json:"group"`
	Size     int      `json:"size"`
	Label    string   `json:"label"`
	TabIDs   []int    `json:"tabIds"`
	Keywords []string `json:"keywords"`
}

// SingletonRow describes one ungrouped tab.
type SingletonRow struct {
	TabID    int      `json:"tabId"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Keywords []string `json:"keywords"`
}

// AttemptRow summarises one clustering stage.
type AttemptRow struct {
	Stage          string  `json:"stage"`
	IncludeContent bool    `json:"includeContent"`
	BaseThreshold  float64 `json:"baseThreshold"`
	Threshold      float64 `json:"threshold"`
	Clusters       int     `json:"clusters"`
	Groups         int     `json:"groups"`
	Edges          int     `json:"edges"`
	ShatteredTabs  int     `json:"shatteredTabs"`
}

// ContentRow records page-text coverage for the run.
type ContentRow struct {
	Eligible   int `json:"eligible"`
	Success    int `json:"success"`
	Restricted int `json:"restricted"`
}

// Input is everything a report is built from.
type Input struct {
	Outcome     topic.Outcome
	Tabs        []ingest.TabRecord
	Config      config.Config
	Sensitivity config.Sensitivity
	Aborted     bool
	Content     *ContentRow
	Now         time.Time // zero means time.Now
}

// Builder assigns monotonic ULID run ids. It is safe for concurrent use.
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewBuilder creates a report builder.
func NewBuilder() *Builder {
	return &Builder{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (b *Builder) newID(t time.Time) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), b.entropy).String()
}

// Build creates the report for one run.
func (b *Builder) Build(in Input) Report {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	r := Report{
		RunID:         b.newID(now),
		GeneratedAt:   now,
		ThresholdUsed: in.Outcome.ThresholdUsed,
		Stage:         string(in.Outcome.Stage),
		Sensitivity:   string(in.Sensitivity),
		Aborted:       in.Aborted,
		Config:        in.Config,
		Groups:        []GroupRow{},
		Singletons:    []SingletonRow{},
		Stopwords:     in.Outcome.Stopwords,
		Content:       in.Content,
	}

	for _, g := range in.Outcome.Groups {
		if g.Size() >= 2 {
			r.Groups = append(r.Groups, GroupRow{
				Group:    len(r.Groups) + 1,
				Size:     g.Size(),
				Label:    g.Label,
				TabIDs:   g.TabIDs,
				Keywords: g.Keywords,
			})
			continue
		}
		for _, m := range g.Members {
			row := SingletonRow{Keywords: g.Keywords}
			if m >= 0 && m < len(in.Tabs) {
				tab := in.Tabs[m]
				row.TabID = tab.ID
				row.Title = tab.Title
				row.URL = tab.URL
			}
			if row.Title == "" {
				row.Title = "(untitled)"
			}
			r.Singletons = append(r.Singletons, row)
		}
	}

	for _, a := range in.Outcome.Attempts {
		r.Attempts = append(r.Attempts, AttemptRow{
			Stage:          string(a.Stage),
			IncludeContent: a.IncludeContent,
			BaseThreshold:  a.BaseThreshold,
			Threshold:      a.Threshold,
			Clusters:       a.Clusters,
			Groups:         a.Groups,
			Edges:          a.Edges,
			ShatteredTabs:  a.ShatteredTabs,
		})
	}
	return r
}

// Marshal encodes r as indented JSON.
func Marshal(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a report produced by Marshal.
func Unmarshal(data []byte) (Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return r, nil
}
