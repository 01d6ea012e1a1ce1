// Package arrange plans the non-topic tab actions: duplicate removal,
// sorting, grouping by domain, and undo snapshots. It only computes plans;
// applying them to a browser is the caller's job.
package arrange

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

// Duplicates returns the ids of tabs whose URL repeats an earlier tab's URL.
// The first occurrence is kept. Pinned tabs are ignored unless
// includePinned is set; tabs without a URL never count.
func Duplicates(tabs []ingest.TabRecord, includePinned bool) []int {
	seen := make(map[string]struct{}, len(tabs))
	var dups []int
	for _, tab := range tabs {
		if tab.URL == "" || (tab.Pinned && !includePinned) {
			continue
		}
		if _, ok := seen[tab.URL]; ok {
			dups = append(dups, tab.ID)
			continue
		}
		seen[tab.URL] = struct{}{}
	}
	return dups
}

// titleKey is the case-folded title, or URL for untitled tabs.
func titleKey(rec ingest.TabRecord) string {
	return strings.ToLower(rec.DisplayTitle())
}

// SortByTitle orders tabs A-Z by title using language-aware collation.
// The sort is stable and does not modify its input.
func SortByTitle(metas []ingest.TabMeta) []ingest.TabMeta {
	out := append([]ingest.TabMeta(nil), metas...)
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(titleKey(out[i].TabRecord), titleKey(out[j].TabRecord)) < 0
	})
	return out
}

// SortByLastVisited orders tabs by last visit, newest first when descending.
// Tabs never visited sort as the oldest.
func SortByLastVisited(metas []ingest.TabMeta, descending bool) []ingest.TabMeta {
	out := append([]ingest.TabMeta(nil), metas...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := unixMilli(out[i]), unixMilli(out[j])
		if descending {
			return a > b
		}
		return a < b
	})
	return out
}

func unixMilli(m ingest.TabMeta) int64 {
	if m.LastVisited.IsZero() {
		return 0
	}
	return m.LastVisited.UnixMilli()
}

// Move places one tab at a window index.
type Move struct {
	TabID int
	Index int
}

// MoveOrder lays sorted tabs out from index 0. With includePinned the pinned
// tabs are placed first; otherwise pinned tabs are left where they are and
// the rest start after them.
func MoveOrder(sorted []ingest.TabMeta, includePinned bool) []Move {
	var pinned, unpinned []ingest.TabMeta
	for _, m := range sorted {
		if m.Pinned {
			pinned = append(pinned, m)
		} else {
			unpinned = append(unpinned, m)
		}
	}
	moves := make([]Move, 0, len(sorted))
	if includePinned {
		for i, m := range pinned {
			moves = append(moves, Move{TabID: m.ID, Index: i})
		}
	}
	offset := len(pinned)
	for i, m := range unpinned {
		moves = append(moves, Move{TabID: m.ID, Index: offset + i})
	}
	return moves
}
