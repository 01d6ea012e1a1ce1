package topic

import (
	"github.com/cognicore/tabtopic/pkg/tabtopic/vector"
)

// KeywordBuckets groups tabs that share a title or URL token. Each round
// picks the token held by the most unassigned tabs (earliest seen token on a
// tie) and assigns them all to one bucket; it stops when no token reaches
// two unassigned tabs. Dynamic stopwords never form a bucket.
// The result lists buckets in formation order, each with positions
// ascending; unassigned tabs are not returned.
func KeywordBuckets(docs []vector.Document, corpus vector.Corpus) [][]int {
	var order []string
	index := make(map[string][]int)
	for i, d := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokensOf(d) {
			if _, ok := seen[tok]; ok || corpus.Stopwords.IsStop(tok) {
				continue
			}
			seen[tok] = struct{}{}
			if _, ok := index[tok]; !ok {
				order = append(order, tok)
			}
			index[tok] = append(index[tok], i)
		}
	}

	assigned := make([]bool, len(docs))
	var buckets [][]int
	for {
		best, bestCount := "", 1
		for _, tok := range order {
			n := 0
			for _, i := range index[tok] {
				if !assigned[i] {
					n++
				}
			}
			if n > bestCount {
				best, bestCount = tok, n
			}
		}
		if best == "" {
			return buckets
		}
		var bucket []int
		for _, i := range index[best] {
			if !assigned[i] {
				assigned[i] = true
				bucket = append(bucket, i)
			}
		}
		buckets = append(buckets, bucket)
	}
}

func tokensOf(d vector.Document) []string {
	out := make([]string, 0, len(d.Title)+len(d.URL))
	out = append(out, d.Title...)
	return append(out, d.URL...)
}
