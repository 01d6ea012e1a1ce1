package cluster

import (
	"math"
	"testing"

	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/vector"
)

// pairWithCosine returns two unit vectors whose cosine similarity is c.
func pairWithCosine(c float64) []vector.Vector {
	return []vector.Vector{
		{"x": 1},
		{"x": c, "y": math.Sqrt(1 - c*c)},
	}
}

func TestEffectiveThreshold(t *testing.T) {
	cfg := config.Default()
	base := cfg.Thresholds.Medium

	tests := []struct {
		name    string
		vectors []vector.Vector
		mutate  func(*config.Config)
		want    float64
	}{
		{
			name:    "disabled",
			vectors: pairWithCosine(0.5),
			mutate:  func(c *config.Config) { c.AdaptiveThreshold = false },
			want:    base,
		},
		{
			name:    "single vector",
			vectors: []vector.Vector{{"x": 1}},
			want:    base,
		},
		{
			name:    "no similarity keeps base",
			vectors: []vector.Vector{{"x": 1}, {"y": 1}},
			want:    base,
		},
		{
			name:    "rescaled",
			vectors: pairWithCosine(0.18),
			want:    base * 0.18 / cfg.AdaptiveTargetSimilarity,
		},
		{
			name:    "clamped to max",
			vectors: pairWithCosine(1),
			want:    cfg.AdaptiveMaxThreshold,
		},
		{
			name:    "clamped to min",
			vectors: pairWithCosine(0.06),
			want:    cfg.AdaptiveMinThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			got := EffectiveThreshold(tt.vectors, base, c)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EffectiveThreshold = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSampleMeanSimilarityRespectsMaxPairs(t *testing.T) {
	vectors := []vector.Vector{{"x": 1}, {"x": 1}, {"y": 1}}

	if got := SampleMeanSimilarity(vectors, 1); math.Abs(got-1) > 1e-9 {
		t.Errorf("first pair only: got %f, want 1", got)
	}
	if got := SampleMeanSimilarity(vectors, 100); math.Abs(got-1.0/3) > 1e-9 {
		t.Errorf("all pairs: got %f, want 1/3", got)
	}
	if got := SampleMeanSimilarity(vectors[:1], 100); got != 0 {
		t.Errorf("single vector: got %f, want 0", got)
	}
}

func TestMinAverageSimilarity(t *testing.T) {
	cfg := config.Default()
	if got := MinAverageSimilarity(0.04, cfg); got != cfg.MinAverageSimilarityFloor {
		t.Errorf("low threshold should use the floor, got %f", got)
	}
	if got := MinAverageSimilarity(0.2, cfg); math.Abs(got-0.15) > 1e-9 {
		t.Errorf("MinAverageSimilarity(0.2) = %f, want 0.15", got)
	}
}

func TestUnionFindGroups(t *testing.T) {
	uf := newUnionFind(5)
	uf.union(3, 1)
	uf.union(4, 0)
	if uf.union(1, 3) {
		t.Error("repeated union should report no change")
	}

	groups := uf.groups()
	want := [][]int{{0, 4}, {1, 3}, {2}}
	if len(groups) != len(want) {
		t.Fatalf("groups = %v, want %v", groups, want)
	}
	for i := range want {
		for j := range want[i] {
			if groups[i][j] != want[i][j] {
				t.Fatalf("groups = %v, want %v", groups, want)
			}
		}
	}
}
