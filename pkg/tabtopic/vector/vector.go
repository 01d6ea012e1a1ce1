package vector

import (
	"math"
	"sort"
)

// Vector is a sparse term vector: token -> non-negative weight.
// The empty vector is valid and scores zero similarity with anything.
type Vector map[string]float64

// Norm returns the L2 norm of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, w := range v {
		out[k] = w
	}
	return out
}

// Merge returns the union of a and b, summing weights of shared keys.
func Merge(a, b Vector) Vector {
	out := make(Vector, len(a)+len(b))
	for k, w := range a {
		out[k] = w
	}
	for k, w := range b {
		out[k] += w
	}
	return out
}

// Scale returns v with every weight multiplied by f.
func Scale(v Vector, f float64) Vector {
	out := make(Vector, len(v))
	for k, w := range v {
		out[k] = w * f
	}
	return out
}

// Entry is one weighted token.
type Entry struct {
	Token  string
	Weight float64
}

// Ranked returns the entries of v by weight descending, ties broken by
// token in lexical order.
func Ranked(v Vector) []Entry {
	entries := make([]Entry, 0, len(v))
	for k, w := range v {
		entries = append(entries, Entry{Token: k, Weight: w})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Token < entries[j].Token
	})
	return entries
}

// Limit keeps the n highest-weight tokens of v. A vector with n or fewer
// entries is returned as a copy.
func Limit(v Vector, n int) Vector {
	if n <= 0 {
		return Vector{}
	}
	if len(v) <= n {
		return v.Clone()
	}
	out := make(Vector, n)
	for _, e := range Ranked(v)[:n] {
		out[e.Token] = e.Weight
	}
	return out
}

// Normalize scales v in place to unit L2 norm and returns it. A zero vector
// is returned unchanged.
func Normalize(v Vector) Vector {
	norm := v.Norm()
	if norm == 0 {
		return v
	}
	for k, w := range v {
		v[k] = w / norm
	}
	return v
}

// Cosine returns the cosine similarity of a and b, 0 if either is zero.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	var dot float64
	for k, w := range small {
		if x, ok := large[k]; ok {
			dot += w * x
		}
	}
	if dot == 0 {
		return 0
	}
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}

// SharedAbove counts tokens whose weight is at least floor in both a and b.
func SharedAbove(a, b Vector, floor float64) int {
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for k, w := range small {
		if w < floor {
			continue
		}
		if x, ok := large[k]; ok && x >= floor {
			n++
		}
	}
	return n
}
