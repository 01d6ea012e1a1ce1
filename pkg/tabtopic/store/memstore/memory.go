package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/tabtopic/pkg/tabtopic/arrange"
	"github.com/cognicore/tabtopic/pkg/tabtopic/internalerr"
	"github.com/cognicore/tabtopic/pkg/tabtopic/report"
	"github.com/cognicore/tabtopic/pkg/tabtopic/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu        sync.RWMutex
	closed    bool
	settings  *store.Settings
	snapshots []arrange.Snapshot // oldest first
	report    []byte
}

var _ store.Store = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.Store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// LoadSettings returns the saved settings or store.DefaultSettings.
func (s *Store) LoadSettings(ctx context.Context) (store.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return store.Settings{}, internalerr.ErrStoreClosed
	}
	if s.settings == nil {
		return store.DefaultSettings(), nil
	}
	return copySettings(*s.settings), nil
}

// SaveSettings replaces the saved settings.
func (s *Store) SaveSettings(ctx context.Context, st store.Settings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return internalerr.ErrStoreClosed
	}
	cp := copySettings(st)
	s.settings = &cp
	return nil
}

// PushSnapshot appends snap and drops the oldest entries beyond arrange.MaxUndo.
func (s *Store) PushSnapshot(ctx context.Context, snap arrange.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return internalerr.ErrStoreClosed
	}
	s.snapshots = append(s.snapshots, copySnapshot(snap))
	if over := len(s.snapshots) - arrange.MaxUndo; over > 0 {
		s.snapshots = append([]arrange.Snapshot(nil), s.snapshots[over:]...)
	}
	return nil
}

// PopSnapshot removes and returns the newest snapshot.
func (s *Store) PopSnapshot(ctx context.Context) (arrange.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return arrange.Snapshot{}, internalerr.ErrStoreClosed
	}
	if len(s.snapshots) == 0 {
		return arrange.Snapshot{}, internalerr.ErrNotFound
	}
	last := s.snapshots[len(s.snapshots)-1]
	s.snapshots = s.snapshots[:len(s.snapshots)-1]
	return last, nil
}

// SnapshotCount returns the undo stack depth.
func (s *Store) SnapshotCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, internalerr.ErrStoreClosed
	}
	return len(s.snapshots), nil
}

// SaveReport overwrites the latest report.
func (s *Store) SaveReport(ctx context.Context, r report.Report) error {
	data, err := report.Marshal(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return internalerr.ErrStoreClosed
	}
	s.report = data
	return nil
}

// LatestReport returns the last saved report.
func (s *Store) LatestReport(ctx context.Context) (report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return report.Report{}, internalerr.ErrStoreClosed
	}
	if s.report == nil {
		return report.Report{}, internalerr.ErrNotFound
	}
	return report.Unmarshal(s.report)
}

func copySettings(st store.Settings) store.Settings {
	cp := st
	cp.UserStopwords = append([]string(nil), st.UserStopwords...)
	if st.Config != nil {
		cfg := *st.Config
		cp.Config = &cfg
	}
	return cp
}

func copySnapshot(snap arrange.Snapshot) arrange.Snapshot {
	cp := snap
	cp.Tabs = append([]arrange.TabState(nil), snap.Tabs...)
	cp.Groups = append([]arrange.GroupState(nil), snap.Groups...)
	return cp
}
