package vector

import (
	"math"

	"github.com/cognicore/tabtopic/pkg/tabtopic/stoplist"
)

// Counter tracks document frequency over one run's tab corpus.
type Counter struct {
	N  int            // number of documents
	DF map[string]int // documents containing each token
}

// NewCounter creates an empty document-frequency counter.
func NewCounter() *Counter {
	return &Counter{DF: make(map[string]int)}
}

// AddDocument counts each distinct token of one document once.
func (c *Counter) AddDocument(tokens []string) {
	c.N++
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		c.DF[t]++
	}
}

// IDF maps tokens to inverse document frequency weights.
type IDF map[string]float64

// Weight returns the IDF of tok, 1 for unknown tokens or a nil model.
func (m IDF) Weight(tok string) float64 {
	if w, ok := m[tok]; ok {
		return w
	}
	return 1
}

// InverseDocFreq is ln((n+1)/(df+1)) + 1. It is at least 1 whenever
// df <= n and decreases as df grows.
func InverseDocFreq(n, df int) float64 {
	return math.Log(float64(n+1)/float64(df+1)) + 1
}

// IDF derives the model from the counts.
func (c *Counter) IDF() IDF {
	m := make(IDF, len(c.DF))
	for tok, df := range c.DF {
		m[tok] = InverseDocFreq(c.N, df)
	}
	return m
}

// Stopwords returns the tokens common enough across the corpus to be
// suppressed for this run.
func (c *Counter) Stopwords(th stoplist.Thresholds) *stoplist.Manager {
	return stoplist.Dynamic(c.DF, c.N, th)
}
