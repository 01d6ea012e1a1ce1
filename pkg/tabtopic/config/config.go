package config

import (
	"fmt"
	"strings"

	"github.com/cognicore/tabtopic/pkg/tabtopic/internalerr"
)

// Sensitivity selects the base similarity threshold for a clustering run.
type Sensitivity string

const (
	SensitivityHigh   Sensitivity = "high"
	SensitivityMedium Sensitivity = "medium"
	SensitivityLow    Sensitivity = "low"
)

// ParseSensitivity maps user input to a Sensitivity. Unknown values are
// reported as an error; empty input selects medium.
func ParseSensitivity(s string) (Sensitivity, error) {
	switch Sensitivity(strings.ToLower(strings.TrimSpace(s))) {
	case "", SensitivityMedium:
		return SensitivityMedium, nil
	case SensitivityHigh:
		return SensitivityHigh, nil
	case SensitivityLow:
		return SensitivityLow, nil
	}
	return "", fmt.Errorf("%w: unknown sensitivity %q", internalerr.ErrInvalidConfig, s)
}

// Thresholds holds the base similarity threshold per sensitivity level.
// Lower values group more aggressively, so High must be the smallest of the
// three sensitivity levels.
type Thresholds struct {
	High     float64 `yaml:"high" json:"high"`
	Medium   float64 `yaml:"medium" json:"medium"`
	Low      float64 `yaml:"low" json:"low"`
	Fallback float64 `yaml:"fallback" json:"fallback"`
}

// For returns the base threshold for a sensitivity level. Unknown levels use
// the medium threshold.
func (t Thresholds) For(s Sensitivity) float64 {
	switch s {
	case SensitivityHigh:
		return t.High
	case SensitivityLow:
		return t.Low
	default:
		return t.Medium
	}
}

// Config is the full clustering configuration. It is a plain value: callers
// pass it into every run and nothing in the engine mutates it.
type Config struct {
	// Graph construction
	KNearest        int `yaml:"kNearest" json:"kNearest"`
	MinSharedTokens int `yaml:"minSharedTokens" json:"minSharedTokens"`

	// Cohesion check applied to clusters with two or more tabs:
	// max(MinAverageSimilarityFloor, threshold*MinAverageSimilarityScale)
	MinAverageSimilarityFloor float64 `yaml:"minAverageSimilarityFloor" json:"minAverageSimilarityFloor"`
	MinAverageSimilarityScale float64 `yaml:"minAverageSimilarityScale" json:"minAverageSimilarityScale"`

	// Adaptive threshold
	AdaptiveThreshold        bool    `yaml:"adaptiveThreshold" json:"adaptiveThreshold"`
	AdaptiveTargetSimilarity float64 `yaml:"adaptiveTargetSimilarity" json:"adaptiveTargetSimilarity"`
	AdaptiveMinThreshold     float64 `yaml:"adaptiveMinThreshold" json:"adaptiveMinThreshold"`
	AdaptiveMaxThreshold     float64 `yaml:"adaptiveMaxThreshold" json:"adaptiveMaxThreshold"`
	AdaptiveMaxPairs         int     `yaml:"adaptiveMaxPairs" json:"adaptiveMaxPairs"`

	// Vector construction
	UseBigrams         bool    `yaml:"useBigrams" json:"useBigrams"`
	ContentWeight      float64 `yaml:"contentWeight" json:"contentWeight"`
	ContentTokenLimit  int     `yaml:"contentTokenLimit" json:"contentTokenLimit"`
	URLTokenWeight     float64 `yaml:"urlTokenWeight" json:"urlTokenWeight"`
	NumericTokenWeight float64 `yaml:"numericTokenWeight" json:"numericTokenWeight"`
	WeightedOverlapMin float64 `yaml:"weightedOverlapMin" json:"weightedOverlapMin"`

	// Dynamic stopwords
	DynamicStopwordsEnabled     bool    `yaml:"dynamicStopwordsEnabled" json:"dynamicStopwordsEnabled"`
	DynamicStopwordsMinDocRatio float64 `yaml:"dynamicStopwordsMinDocRatio" json:"dynamicStopwordsMinDocRatio"`
	DynamicStopwordsMinDocs     int     `yaml:"dynamicStopwordsMinDocs" json:"dynamicStopwordsMinDocs"`

	// Labels and debug output
	TitleKeywordLimit  int  `yaml:"titleKeywordLimit" json:"titleKeywordLimit"`
	TitleIncludeScores bool `yaml:"titleIncludeScores" json:"titleIncludeScores"`
	LabelMaxChars      int  `yaml:"labelMaxChars" json:"labelMaxChars"`
	DebugKeywordLimit  int  `yaml:"debugKeywordLimit" json:"debugKeywordLimit"`

	// Content extraction
	ContentMaxChars int `yaml:"contentMaxChars" json:"contentMaxChars"`

	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

// Default returns the tuned defaults.
func Default() Config {
	return Config{
		KNearest:                    5,
		MinSharedTokens:             1,
		MinAverageSimilarityFloor:   0.06,
		MinAverageSimilarityScale:   0.75,
		AdaptiveThreshold:           true,
		AdaptiveTargetSimilarity:    0.12,
		AdaptiveMinThreshold:        0.05,
		AdaptiveMaxThreshold:        0.28,
		AdaptiveMaxPairs:            2000,
		UseBigrams:                  true,
		ContentWeight:               0.6,
		ContentTokenLimit:           60,
		URLTokenWeight:              0.35,
		NumericTokenWeight:          0.35,
		WeightedOverlapMin:          0.05,
		DynamicStopwordsEnabled:     true,
		DynamicStopwordsMinDocRatio: 0.7,
		DynamicStopwordsMinDocs:     3,
		TitleKeywordLimit:           3,
		TitleIncludeScores:          false,
		LabelMaxChars:               12,
		DebugKeywordLimit:           10,
		ContentMaxChars:             6000,
		Thresholds: Thresholds{
			High:     0.06,
			Medium:   0.08,
			Low:      0.11,
			Fallback: 0.05,
		},
	}
}

// Validate checks value ranges. The returned error wraps
// internalerr.ErrInvalidConfig and names the first offending field.
func (c Config) Validate() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{c.KNearest >= 1, "kNearest must be >= 1"},
		{c.MinSharedTokens >= 1, "minSharedTokens must be >= 1"},
		{unit(c.MinAverageSimilarityFloor), "minAverageSimilarityFloor must be in [0,1]"},
		{c.MinAverageSimilarityScale >= 0, "minAverageSimilarityScale must be >= 0"},
		{c.AdaptiveTargetSimilarity > 0 && c.AdaptiveTargetSimilarity <= 1, "adaptiveTargetSimilarity must be in (0,1]"},
		{unit(c.AdaptiveMinThreshold), "adaptiveMinThreshold must be in [0,1]"},
		{unit(c.AdaptiveMaxThreshold), "adaptiveMaxThreshold must be in [0,1]"},
		{c.AdaptiveMinThreshold <= c.AdaptiveMaxThreshold, "adaptiveMinThreshold must not exceed adaptiveMaxThreshold"},
		{c.AdaptiveMaxPairs >= 1, "adaptiveMaxPairs must be >= 1"},
		{c.ContentWeight > 0 && c.ContentWeight <= 1, "contentWeight must be in (0,1]"},
		{c.ContentTokenLimit >= 1, "contentTokenLimit must be >= 1"},
		{unit(c.URLTokenWeight), "urlTokenWeight must be in [0,1]"},
		{unit(c.NumericTokenWeight), "numericTokenWeight must be in [0,1]"},
		{unit(c.WeightedOverlapMin), "weightedOverlapMin must be in [0,1]"},
		{unit(c.DynamicStopwordsMinDocRatio), "dynamicStopwordsMinDocRatio must be in [0,1]"},
		{c.DynamicStopwordsMinDocs >= 1, "dynamicStopwordsMinDocs must be >= 1"},
		{c.TitleKeywordLimit >= 1, "titleKeywordLimit must be >= 1"},
		{c.LabelMaxChars >= 2, "labelMaxChars must be >= 2"},
		{c.DebugKeywordLimit >= 1, "debugKeywordLimit must be >= 1"},
		{c.ContentMaxChars >= 1, "contentMaxChars must be >= 1"},
		{unit(c.Thresholds.High), "thresholds.high must be in [0,1]"},
		{unit(c.Thresholds.Medium), "thresholds.medium must be in [0,1]"},
		{unit(c.Thresholds.Low), "thresholds.low must be in [0,1]"},
		{unit(c.Thresholds.Fallback), "thresholds.fallback must be in [0,1]"},
		{c.Thresholds.High <= c.Thresholds.Medium && c.Thresholds.Medium <= c.Thresholds.Low,
			"thresholds must satisfy high <= medium <= low"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, chk.name)
		}
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
