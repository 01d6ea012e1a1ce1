package arrange

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

func sampleSnapshot() Snapshot {
	tabs := []ingest.TabRecord{
		{ID: 1, Index: 0, URL: "https://a.com", Title: "A", GroupID: ingest.GroupNone},
		{ID: 2, Index: 1, URL: "https://b.com", Title: "B", GroupID: 70},
		{ID: 3, Index: 2, URL: "https://c.com", Title: "C", GroupID: 70},
		{ID: 4, Index: 3, URL: "", Title: "", GroupID: 80, Pinned: true},
	}
	groups := []GroupState{
		{ID: 80, Title: "Later", Color: "blue"},
		{ID: 70, Title: "Python", Color: "green", Collapsed: true},
	}
	return Capture(9, tabs, 3, groups, time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC))
}

func TestCapture(t *testing.T) {
	snap := sampleSnapshot()

	if _, err := ulid.Parse(snap.ID); err != nil {
		t.Errorf("snapshot id %q is not a ULID: %v", snap.ID, err)
	}
	if snap.WindowID != 9 || len(snap.Tabs) != 4 || len(snap.Groups) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !snap.Tabs[2].Active || snap.Tabs[0].Active {
		t.Error("only tab 3 should be active")
	}
}

func TestPlanRestore(t *testing.T) {
	snap := sampleSnapshot()
	current := []ingest.TabRecord{
		{ID: 3, Index: 0, GroupID: 200},
		{ID: 1, Index: 1, GroupID: ingest.GroupNone},
		{ID: 4, Index: 2, GroupID: ingest.GroupNone, Pinned: false},
	}

	plan := PlanRestore(snap, current)

	var recreate []int
	for i, s := range plan.Slots {
		if s.Recreate {
			recreate = append(recreate, i)
		}
	}
	if diff := cmp.Diff([]int{1}, recreate); diff != "" {
		t.Errorf("recreate mismatch (-want +got):\n%s", diff)
	}
	if !plan.Slots[3].SetPinned {
		t.Error("tab 4 lost its pin and should be re-pinned")
	}
	if plan.Slots[3].OpenURL() != NewTabURL {
		t.Errorf("empty URL should open a new tab, got %q", plan.Slots[3].OpenURL())
	}
	if diff := cmp.Diff([]int{3}, plan.Ungroup); diff != "" {
		t.Errorf("ungroup mismatch (-want +got):\n%s", diff)
	}
	if plan.Active != 2 {
		t.Errorf("active slot = %d, want 2", plan.Active)
	}

	want := []GroupRestore{
		{Group: GroupState{ID: 70, Title: "Python", Color: "green", Collapsed: true}, Slots: []int{1, 2}, StartIndex: 1},
		{Group: GroupState{ID: 80, Title: "Later", Color: "blue"}, Slots: []int{3}, StartIndex: 3},
	}
	if diff := cmp.Diff(want, plan.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanRestoreEmpty(t *testing.T) {
	plan := PlanRestore(Snapshot{}, nil)
	if len(plan.Slots) != 0 || len(plan.Groups) != 0 || plan.Active != -1 {
		t.Errorf("unexpected plan %+v", plan)
	}
}
