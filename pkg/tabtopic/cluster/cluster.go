// Package cluster partitions tabs by mutual k-nearest-neighbour links over
// cosine similarity, then splits clusters that are not cohesive enough.
package cluster

import (
	"sort"

	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/vector"
)

// Input is one clustering pass. Vectors and TitleSets are parallel and
// indexed by tab position.
type Input struct {
	Vectors   []vector.Vector
	TitleSets []map[string]struct{}
	Threshold float64 // base threshold before adaptation
}

// Cluster is a set of tab positions in input order.
type Cluster struct {
	Members []int
}

// Size returns the number of tabs in the cluster.
func (c Cluster) Size() int {
	return len(c.Members)
}

// Result is the outcome of one pass.
type Result struct {
	Clusters      []Cluster
	Threshold     float64 // effective threshold after adaptation
	MinCohesion   float64
	Edges         int // qualifying candidate edges
	MutualLinks   int
	ShatteredTabs int
}

// HasGroup reports whether any cluster holds two or more tabs.
func (r Result) HasGroup() bool {
	for _, c := range r.Clusters {
		if c.Size() >= 2 {
			return true
		}
	}
	return false
}

type neighbor struct {
	index int
	score float64
}

// Run clusters the tabs in in. Every position 0..len(Vectors)-1 appears in
// exactly one output cluster; clusters are ordered by their first member.
func Run(in Input, cfg config.Config) Result {
	n := len(in.Vectors)
	res := Result{Threshold: in.Threshold}
	if n == 0 {
		return res
	}

	sims := newSimilarities(in.Vectors)
	res.Threshold = EffectiveThreshold(in.Vectors, in.Threshold, cfg)
	res.MinCohesion = MinAverageSimilarity(res.Threshold, cfg)

	neighbors := make([][]neighbor, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			score := sims.at(i, j)
			if score < res.Threshold {
				continue
			}
			if !lexicalOverlap(in, i, j, cfg) {
				continue
			}
			neighbors[i] = append(neighbors[i], neighbor{index: j, score: score})
			neighbors[j] = append(neighbors[j], neighbor{index: i, score: score})
			res.Edges++
		}
	}

	top := make([]map[int]struct{}, n)
	for i, list := range neighbors {
		sort.SliceStable(list, func(a, b int) bool {
			return list[a].score > list[b].score
		})
		if len(list) > cfg.KNearest {
			list = list[:cfg.KNearest]
		}
		neighbors[i] = list
		top[i] = make(map[int]struct{}, len(list))
		for _, nb := range list {
			top[i][nb.index] = struct{}{}
		}
	}

	uf := newUnionFind(n)
	for i, list := range neighbors {
		for _, nb := range list {
			if _, ok := top[nb.index][i]; !ok {
				continue
			}
			if uf.union(i, nb.index) {
				res.MutualLinks++
			}
		}
	}

	for _, members := range uf.groups() {
		if len(members) < 2 || sims.average(members) >= res.MinCohesion {
			res.Clusters = append(res.Clusters, Cluster{Members: members})
			continue
		}
		for _, m := range members {
			res.Clusters = append(res.Clusters, Cluster{Members: []int{m}})
		}
		res.ShatteredTabs += len(members)
	}
	return res
}

// lexicalOverlap requires shared title tokens or shared weighted vector
// tokens, so similarity from leftover boilerplate alone does not link tabs.
func lexicalOverlap(in Input, i, j int, cfg config.Config) bool {
	if i < len(in.TitleSets) && j < len(in.TitleSets) &&
		sharedTokens(in.TitleSets[i], in.TitleSets[j], cfg.MinSharedTokens) >= cfg.MinSharedTokens {
		return true
	}
	floor := cfg.WeightedOverlapMin
	if floor <= 0 {
		floor = smallestPositive
	}
	return vector.SharedAbove(in.Vectors[i], in.Vectors[j], floor) >= cfg.MinSharedTokens
}

// smallestPositive keeps zero-weight entries out of the weighted overlap.
const smallestPositive = 1e-12

// sharedTokens counts common tokens, stopping early once limit is reached.
func sharedTokens(a, b map[string]struct{}, limit int) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	count := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			count++
			if count >= limit {
				return count
			}
		}
	}
	return count
}

// AverageSimilarity is the mean pairwise cosine similarity of vectors; 1 for
// fewer than two.
func AverageSimilarity(vectors []vector.Vector) float64 {
	if len(vectors) < 2 {
		return 1
	}
	var sum float64
	count := 0
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sum += vector.Cosine(vectors[i], vectors[j])
			count++
		}
	}
	return sum / float64(count)
}

// similarities caches the upper triangle of the pairwise cosine matrix.
type similarities struct {
	n      int
	values []float64
}

func newSimilarities(vectors []vector.Vector) *similarities {
	n := len(vectors)
	s := &similarities{n: n, values: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s.values[i*n+j] = vector.Cosine(vectors[i], vectors[j])
		}
	}
	return s
}

func (s *similarities) at(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	return s.values[i*s.n+j]
}

func (s *similarities) average(members []int) float64 {
	if len(members) < 2 {
		return 1
	}
	var sum float64
	count := 0
	for a := 0; a < len(members); a++ {
		for b := a + 1; b < len(members); b++ {
			sum += s.at(members[a], members[b])
			count++
		}
	}
	return sum / float64(count)
}
