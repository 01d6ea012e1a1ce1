package arrange

import (
	"crypto/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

// MaxUndo is the number of snapshots kept for undo.
const MaxUndo = 5

// TabState is a tab as captured for undo.
type TabState struct {
	ID      int    `json:"id"`
	Index   int    `json:"index"`
	GroupID int    `json:"groupId"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Pinned  bool   `json:"pinned"`
	Active  bool   `json:"active"`
}

// GroupState is a tab group as captured for undo.
type GroupState struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Color     string `json:"color"`
	Collapsed bool   `json:"collapsed"`
}

// Snapshot is the layout of one window before an action.
type Snapshot struct {
	ID         string       `json:"id"`
	WindowID   int          `json:"windowId"`
	CapturedAt time.Time    `json:"capturedAt"`
	Tabs       []TabState   `json:"tabs"`
	Groups     []GroupState `json:"groups"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newSnapshotID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Capture records the window layout. active is the id of the focused tab.
func Capture(windowID int, tabs []ingest.TabRecord, active int, groups []GroupState, now time.Time) Snapshot {
	snap := Snapshot{
		ID:         newSnapshotID(now),
		WindowID:   windowID,
		CapturedAt: now.UTC(),
		Tabs:       make([]TabState, len(tabs)),
		Groups:     append([]GroupState(nil), groups...),
	}
	for i, t := range tabs {
		snap.Tabs[i] = TabState{
			ID:      t.ID,
			Index:   t.Index,
			GroupID: t.GroupID,
			URL:     t.URL,
			Title:   t.Title,
			Pinned:  t.Pinned,
			Active:  t.ID == active,
		}
	}
	return snap
}

// Slot is one position in the restored window.
type Slot struct {
	Entry     TabState
	TabID     int  // existing tab id; meaningless when Recreate is set
	Recreate  bool // the tab was closed and must be reopened at this index
	SetPinned bool // the pinned state differs from the captured one
}

// NewTabURL opens a blank tab for slots captured without a URL.
const NewTabURL = "chrome://newtab"

// OpenURL is the URL to reopen a recreated slot with.
func (s Slot) OpenURL() string {
	if s.Entry.URL == "" {
		return NewTabURL
	}
	return s.Entry.URL
}

// GroupRestore recreates one captured group over slot positions.
type GroupRestore struct {
	Group      GroupState
	Slots      []int
	StartIndex int
}

// RestorePlan lists the steps that bring a window back to a snapshot:
// reopen missing tabs, ungroup, move every slot to its index, then regroup.
type RestorePlan struct {
	Slots   []Slot
	Ungroup []int // ids of existing tabs currently in a group
	Groups  []GroupRestore
	Active  int // slot to focus, -1 for none
}

// PlanRestore compares a snapshot to the window's current tabs. Groups are
// returned by ascending start index; create them in reverse so earlier
// indexes stay valid.
func PlanRestore(snap Snapshot, current []ingest.TabRecord) RestorePlan {
	byID := make(map[int]ingest.TabRecord, len(current))
	for _, t := range current {
		byID[t.ID] = t
	}

	plan := RestorePlan{Active: -1}
	groupSlots := make(map[int]*GroupRestore)
	var order []int
	for i, entry := range snap.Tabs {
		slot := Slot{Entry: entry, TabID: entry.ID}
		if now, ok := byID[entry.ID]; ok {
			slot.SetPinned = now.Pinned != entry.Pinned
			if now.GroupID != ingest.GroupNone {
				plan.Ungroup = append(plan.Ungroup, now.ID)
			}
		} else {
			slot.Recreate = true
		}
		plan.Slots = append(plan.Slots, slot)
		if entry.Active && plan.Active < 0 {
			plan.Active = i
		}

		if entry.GroupID == ingest.GroupNone {
			continue
		}
		g, ok := groupSlots[entry.GroupID]
		if !ok {
			g = &GroupRestore{Group: GroupState{ID: entry.GroupID}, StartIndex: entry.Index}
			groupSlots[entry.GroupID] = g
			order = append(order, entry.GroupID)
		}
		g.Slots = append(g.Slots, i)
		g.StartIndex = min(g.StartIndex, entry.Index)
	}

	meta := make(map[int]GroupState, len(snap.Groups))
	for _, g := range snap.Groups {
		meta[g.ID] = g
	}
	for _, id := range order {
		g := groupSlots[id]
		if m, ok := meta[id]; ok {
			g.Group = m
		}
		plan.Groups = append(plan.Groups, *g)
	}
	sort.SliceStable(plan.Groups, func(i, j int) bool {
		return plan.Groups[i].StartIndex < plan.Groups[j].StartIndex
	})
	return plan
}
