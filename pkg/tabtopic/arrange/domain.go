package arrange

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

const maxDomainLabel = 6

// DomainPlan is one group of consecutive tabs on the same host.
type DomainPlan struct {
	Host   string
	Label  string
	TabIDs []int
}

// AbbreviateDomain builds a short group name from the first letter of each
// host label, e.g. "docs.python.org" -> "DPO".
func AbbreviateDomain(host string) string {
	var b strings.Builder
	n := 0
	for _, part := range strings.Split(host, ".") {
		if part == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		n++
		if n == maxDomainLabel {
			break
		}
	}
	return b.String()
}

// SortByDomain orders tabs by host, then by title, both case-insensitive.
func SortByDomain(metas []ingest.TabMeta) []ingest.TabMeta {
	out := SortByTitle(metas)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Hostname) < strings.ToLower(out[j].Hostname)
	})
	return out
}

// PlanDomainGroups sorts tabs by domain and returns the order plus one plan
// per run of tabs sharing a host. Tabs without a host end the current run
// and join no group.
func PlanDomainGroups(metas []ingest.TabMeta) ([]ingest.TabMeta, []DomainPlan) {
	sorted := SortByDomain(metas)
	var plans []DomainPlan
	current := -1
	for _, m := range sorted {
		host := strings.ToLower(m.Hostname)
		if host == "" {
			current = -1
			continue
		}
		if current < 0 || plans[current].Host != host {
			plans = append(plans, DomainPlan{Host: host, Label: AbbreviateDomain(host)})
			current = len(plans) - 1
		}
		plans[current].TabIDs = append(plans[current].TabIDs, m.ID)
	}
	return sorted, plans
}
