// Package store persists what outlives a single run: user settings, the undo
// stack of window snapshots and the latest debug report.
package store

import (
	"context"

	"github.com/cognicore/tabtopic/pkg/tabtopic/arrange"
	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/report"
)

// Store is the persistence interface used by the engine and the CLI.
type Store interface {
	Close() error

	// Settings
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error

	// Undo stack, newest first. Only the newest arrange.MaxUndo entries are kept.
	PushSnapshot(ctx context.Context, snap arrange.Snapshot) error
	PopSnapshot(ctx context.Context) (arrange.Snapshot, error)
	SnapshotCount(ctx context.Context) (int, error)

	// Debug report of the most recent run
	SaveReport(ctx context.Context, r report.Report) error
	LatestReport(ctx context.Context) (report.Report, error)
}

// Settings are the user preferences applied to grouping actions.
type Settings struct {
	Sensitivity    config.Sensitivity `json:"sensitivity" yaml:"sensitivity"`
	IncludePinned  bool               `json:"includePinned" yaml:"includePinned"`
	NameGroups     bool               `json:"nameGroups" yaml:"nameGroups"`
	ColorGroups    bool               `json:"colorGroups" yaml:"colorGroups"`
	CollapseGroups bool               `json:"collapseGroups" yaml:"collapseGroups"`
	FetchContent   bool               `json:"fetchContent" yaml:"fetchContent"`
	UserStopwords  []string           `json:"userStopwords,omitempty" yaml:"userStopwords,omitempty"`

	// Config overrides the clustering defaults when set.
	Config *config.Config `json:"config,omitempty" yaml:"config,omitempty"`
}

// DefaultSettings is what LoadSettings returns before anything was saved.
func DefaultSettings() Settings {
	return Settings{
		Sensitivity: config.SensitivityMedium,
		NameGroups:  true,
		ColorGroups: true,
	}
}

// ClusterConfig returns the override if present, otherwise config.Default().
func (s Settings) ClusterConfig() config.Config {
	if s.Config != nil {
		return *s.Config
	}
	return config.Default()
}

// Validate checks the sensitivity and any config override.
func (s Settings) Validate() error {
	if _, err := config.ParseSensitivity(string(s.Sensitivity)); err != nil {
		return err
	}
	if s.Config != nil {
		return s.Config.Validate()
	}
	return nil
}
