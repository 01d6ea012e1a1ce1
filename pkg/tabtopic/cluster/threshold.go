package cluster

import (
	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/vector"
)

// SampleMeanSimilarity averages cosine similarity over at most maxPairs tab
// pairs, taken in (i, j) order with i < j. It returns 0 for fewer than two
// vectors.
func SampleMeanSimilarity(vectors []vector.Vector, maxPairs int) float64 {
	var sum float64
	count := 0
	for i := 0; i < len(vectors) && count < maxPairs; i++ {
		for j := i + 1; j < len(vectors) && count < maxPairs; j++ {
			sum += vector.Cosine(vectors[i], vectors[j])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// EffectiveThreshold rescales base by the corpus's mean pairwise similarity
// relative to AdaptiveTargetSimilarity, clamped to the adaptive bounds. The
// base is returned unchanged when adaptation is off, there are fewer than two
// vectors, or every sampled pair scores zero.
func EffectiveThreshold(vectors []vector.Vector, base float64, cfg config.Config) float64 {
	if !cfg.AdaptiveThreshold || len(vectors) < 2 {
		return base
	}
	mean := SampleMeanSimilarity(vectors, cfg.AdaptiveMaxPairs)
	if mean <= 0 {
		return base
	}
	scaled := base * (mean / cfg.AdaptiveTargetSimilarity)
	return clamp(scaled, cfg.AdaptiveMinThreshold, cfg.AdaptiveMaxThreshold)
}

// MinAverageSimilarity is the cohesion bar a multi-tab cluster must meet.
func MinAverageSimilarity(threshold float64, cfg config.Config) float64 {
	return max(cfg.MinAverageSimilarityFloor, threshold*cfg.MinAverageSimilarityScale)
}

func clamp(v, lo, hi float64) float64 {
	return min(hi, max(lo, v))
}
