package vector

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/tabtopic/pkg/tabtopic/stoplist"
)

func TestBuildFilters(t *testing.T) {
	tokens := []string{"2024", "12", "a1b2", "12:30", "2024-01", "python", "python", "3.14159"}

	got := Build(tokens, Options{NumericWeight: 0.35})
	want := Vector{"2024": 0.35, "python": 2, "3.14159": 0.35}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDynamicStopwords(t *testing.T) {
	stops := stoplist.NewManager([]string{"acmeportal"})

	got := Build([]string{"acmeportal", "lighthouse"}, Options{Stopwords: stops, NumericWeight: 0.35})
	if _, ok := got["acmeportal"]; ok {
		t.Error("dynamic stopword should be dropped")
	}
	if got["lighthouse"] != 1 {
		t.Errorf("lighthouse weight = %f, want 1", got["lighthouse"])
	}
}

func TestBuildAppliesIDF(t *testing.T) {
	idf := IDF{"python": 1.5}

	got := Build([]string{"python", "python", "guide"}, Options{IDF: idf})
	if math.Abs(got["python"]-3) > eps {
		t.Errorf("python = %f, want 3", got["python"])
	}
	if got["guide"] != 1 {
		t.Errorf("unknown token should default to IDF 1, got %f", got["guide"])
	}
}

func TestBuildEmpty(t *testing.T) {
	if got := Build(nil, Options{}); len(got) != 0 {
		t.Errorf("Build(nil) = %v, want empty", got)
	}
}
