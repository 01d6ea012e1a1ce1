package arrange

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

func metas(recs ...ingest.TabRecord) []ingest.TabMeta {
	return ingest.MetasFromRecords(recs)
}

func ids(ms []ingest.TabMeta) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestDuplicates(t *testing.T) {
	tabs := []ingest.TabRecord{
		{ID: 1, URL: "https://a.com"},
		{ID: 2, URL: "https://b.com"},
		{ID: 3, URL: "https://a.com"},
		{ID: 4, URL: "https://b.com", Pinned: true},
		{ID: 5},
		{ID: 6},
	}

	if diff := cmp.Diff([]int{3}, Duplicates(tabs, false)); diff != "" {
		t.Errorf("Duplicates mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 4}, Duplicates(tabs, true)); diff != "" {
		t.Errorf("Duplicates with pinned mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByTitle(t *testing.T) {
	in := metas(
		ingest.TabRecord{ID: 1, Title: "banana"},
		ingest.TabRecord{ID: 2, Title: "Apple"},
		ingest.TabRecord{ID: 3, URL: "https://cherry.org"},
		ingest.TabRecord{ID: 4, Title: "apple"},
		ingest.TabRecord{ID: 5, Title: "Éclair"},
	)

	got := ids(SortByTitle(in))
	want := []int{2, 4, 1, 5, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortByTitle mismatch (-want +got):\n%s", diff)
	}
	if in[0].ID != 1 {
		t.Error("SortByTitle must not reorder its input")
	}
}

func TestSortByLastVisited(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []ingest.TabMeta{
		ingest.NewTabMeta(ingest.TabRecord{ID: 1}, base.Add(time.Hour), 0),
		ingest.NewTabMeta(ingest.TabRecord{ID: 2}, time.Time{}, 0),
		ingest.NewTabMeta(ingest.TabRecord{ID: 3}, base.Add(2*time.Hour), 0),
	}

	if diff := cmp.Diff([]int{3, 1, 2}, ids(SortByLastVisited(in, true))); diff != "" {
		t.Errorf("descending mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 1, 3}, ids(SortByLastVisited(in, false))); diff != "" {
		t.Errorf("ascending mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveOrder(t *testing.T) {
	sorted := metas(
		ingest.TabRecord{ID: 1},
		ingest.TabRecord{ID: 2, Pinned: true},
		ingest.TabRecord{ID: 3},
	)

	got := MoveOrder(sorted, true)
	want := []Move{{TabID: 2, Index: 0}, {TabID: 1, Index: 1}, {TabID: 3, Index: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MoveOrder mismatch (-want +got):\n%s", diff)
	}

	got = MoveOrder(sorted, false)
	want = []Move{{TabID: 1, Index: 1}, {TabID: 3, Index: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MoveOrder without pinned mismatch (-want +got):\n%s", diff)
	}
}

func TestAbbreviateDomain(t *testing.T) {
	tests := map[string]string{
		"docs.python.org":     "DPO",
		"a.b.c.d.e.f.g.h":     "ABCDEF",
		"localhost":           "L",
		"":                    "",
		"..weird..host.":      "WH",
		"ünicode.example.com": "ÜEC",
	}
	for in, want := range tests {
		if got := AbbreviateDomain(in); got != want {
			t.Errorf("AbbreviateDomain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlanDomainGroups(t *testing.T) {
	in := metas(
		ingest.TabRecord{ID: 1, Title: "Zeta", URL: "https://docs.python.org/z"},
		ingest.TabRecord{ID: 2, Title: "Issues", URL: "https://github.com/issues"},
		ingest.TabRecord{ID: 3, Title: "Alpha", URL: "https://docs.python.org/a"},
		ingest.TabRecord{ID: 4, Title: "Notes", URL: "about:blank"},
		ingest.TabRecord{ID: 5, Title: "Pulls", URL: "https://GitHub.com/pulls"},
	)

	sorted, plans := PlanDomainGroups(in)
	if diff := cmp.Diff([]int{4, 3, 1, 2, 5}, ids(sorted)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	want := []DomainPlan{
		{Host: "docs.python.org", Label: "DPO", TabIDs: []int{3, 1}},
		{Host: "github.com", Label: "GC", TabIDs: []int{2, 5}},
	}
	if diff := cmp.Diff(want, plans); diff != "" {
		t.Errorf("plans mismatch (-want +got):\n%s", diff)
	}
}
