// Package topic runs the staged clustering of one window's tabs and names
// the resulting groups.
package topic

import (
	"context"

	"go.uber.org/zap"

	"github.com/cognicore/tabtopic/pkg/tabtopic/cluster"
	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
	"github.com/cognicore/tabtopic/pkg/tabtopic/vector"
)

// Stage identifies which signal produced the final clusters.
type Stage string

const (
	StagePrepare Stage = "prepare" // tokenizing and corpus statistics
	StageFull    Stage = "full"    // title, URL and page content
	StageTitle   Stage = "title"   // title and URL only, fallback threshold
	StageKeyword Stage = "keyword" // shared-token buckets
	StageLabel   Stage = "label"
)

// Group is one output cluster. Members are positions into the input tabs.
type Group struct {
	Members  []int
	TabIDs   []int
	Vectors  []vector.Vector
	Label    string   // empty for singletons
	Keywords []string // debug keywords
}

// Size returns the number of tabs in the group.
func (g Group) Size() int {
	return len(g.Members)
}

// AttemptStats describes one clustering attempt.
type AttemptStats struct {
	Stage          Stage
	IncludeContent bool
	BaseThreshold  float64
	Threshold      float64
	Clusters       int
	Groups         int
	Edges          int
	ShatteredTabs  int
}

// Outcome is the result of a run. On abort it holds whatever attempts
// completed.
type Outcome struct {
	Stage         Stage
	ThresholdUsed float64
	Groups        []Group
	Attempts      []AttemptStats
	Stopwords     []string // dynamic stopwords of the title corpus
	ContentUsed   bool
}

// HasGroup reports whether any group holds two or more tabs.
func (o Outcome) HasGroup() bool {
	for _, g := range o.Groups {
		if g.Size() >= 2 {
			return true
		}
	}
	return false
}

// attempt is one entry in the ordered degradation list.
type attempt struct {
	stage          Stage
	includeContent bool
	corpus         vector.Corpus
	threshold      float64
}

// Controller runs full-signal, title-only and keyword-bucket clustering in
// order and stops at the first stage that forms a multi-tab group.
// It keeps no state between runs.
type Controller struct {
	cfg     config.Config
	builder *vector.Builder
	logger  *zap.Logger
}

// NewController creates a controller. A nil builder uses the default
// tokenizer; a nil logger discards output.
func NewController(cfg config.Config, builder *vector.Builder, logger *zap.Logger) *Controller {
	if builder == nil {
		builder = vector.NewBuilder(cfg, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{cfg: cfg, builder: builder, logger: logger}
}

// Run clusters tabs. content maps tab id to page text and may be nil or
// partial; tabs without text use their title signal only. Every tab appears
// in exactly one output group. A cancelled ctx yields an *AbortError and the
// outcome built so far.
func (c *Controller) Run(ctx context.Context, tabs []ingest.TabRecord, content map[int]string, sensitivity config.Sensitivity) (Outcome, error) {
	var out Outcome
	if err := checkpoint(ctx, StagePrepare); err != nil {
		return out, err
	}
	if len(tabs) == 0 {
		out.Stage = StageFull
		out.ThresholdUsed = c.cfg.Thresholds.For(sensitivity)
		return out, nil
	}

	docs := c.builder.Documents(tabs, content)
	titleCorpus := c.builder.Corpus(docs, false)
	out.Stopwords = titleCorpus.Stopwords.All()
	out.ContentUsed = hasContent(docs)

	contentCorpus := titleCorpus
	if out.ContentUsed {
		contentCorpus = c.builder.Corpus(docs, true)
	}
	titleSets := c.builder.TitleSets(docs, titleCorpus)

	attempts := []attempt{
		{stage: StageFull, includeContent: out.ContentUsed, corpus: contentCorpus, threshold: c.cfg.Thresholds.For(sensitivity)},
		{stage: StageTitle, includeContent: false, corpus: titleCorpus, threshold: c.cfg.Thresholds.Fallback},
	}

	var vectors []vector.Vector
	for _, a := range attempts {
		if err := checkpoint(ctx, a.stage); err != nil {
			return out, err
		}
		vectors = c.builder.Vectors(docs, a.corpus, a.includeContent)
		res := cluster.Run(cluster.Input{
			Vectors:   vectors,
			TitleSets: titleSets,
			Threshold: a.threshold,
		}, c.cfg)

		stats := AttemptStats{
			Stage:          a.stage,
			IncludeContent: a.includeContent,
			BaseThreshold:  a.threshold,
			Threshold:      res.Threshold,
			Clusters:       len(res.Clusters),
			Edges:          res.Edges,
			ShatteredTabs:  res.ShatteredTabs,
		}
		for _, cl := range res.Clusters {
			if cl.Size() >= 2 {
				stats.Groups++
			}
		}
		out.Attempts = append(out.Attempts, stats)
		out.Stage = a.stage
		out.ThresholdUsed = a.threshold
		out.Groups = groupsFromClusters(res.Clusters, tabs, vectors)

		c.logger.Debug("Clustering attempt finished",
			zap.String("stage", string(a.stage)),
			zap.Bool("content", a.includeContent),
			zap.Float64("base_threshold", a.threshold),
			zap.Float64("threshold", res.Threshold),
			zap.Int("groups", stats.Groups),
			zap.Int("edges", res.Edges))

		if res.HasGroup() {
			return c.label(ctx, out)
		}
		c.logger.Info("No multi-tab cluster, degrading",
			zap.String("stage", string(a.stage)),
			zap.Int("tabs", len(tabs)))
	}

	if err := checkpoint(ctx, StageKeyword); err != nil {
		return out, err
	}
	out.Stage = StageKeyword
	out.Groups = c.keywordGroups(docs, titleCorpus, tabs)
	groups := 0
	for _, g := range out.Groups {
		if g.Size() >= 2 {
			groups++
		}
	}
	out.Attempts = append(out.Attempts, AttemptStats{
		Stage:         StageKeyword,
		BaseThreshold: out.ThresholdUsed,
		Threshold:     out.ThresholdUsed,
		Clusters:      len(out.Groups),
		Groups:        groups,
	})
	c.logger.Debug("Keyword buckets built", zap.Int("groups", groups))
	return c.label(ctx, out)
}

// keywordGroups turns buckets into groups, then appends each unassigned tab
// as a singleton in input order. Vectors are raw title vectors.
func (c *Controller) keywordGroups(docs []vector.Document, corpus vector.Corpus, tabs []ingest.TabRecord) []Group {
	opts := vector.Options{
		IDF:           corpus.IDF,
		Stopwords:     corpus.Stopwords,
		NumericWeight: c.cfg.NumericTokenWeight,
	}
	raw := make([]vector.Vector, len(docs))
	for i, d := range docs {
		raw[i] = vector.Build(tokensOf(d), opts)
	}

	var clusters []cluster.Cluster
	assigned := make([]bool, len(docs))
	for _, bucket := range KeywordBuckets(docs, corpus) {
		for _, i := range bucket {
			assigned[i] = true
		}
		clusters = append(clusters, cluster.Cluster{Members: bucket})
	}
	for i := range docs {
		if !assigned[i] {
			clusters = append(clusters, cluster.Cluster{Members: []int{i}})
		}
	}
	return groupsFromClusters(clusters, tabs, raw)
}

func (c *Controller) label(ctx context.Context, out Outcome) (Outcome, error) {
	if err := checkpoint(ctx, StageLabel); err != nil {
		return out, err
	}
	for i := range out.Groups {
		g := &out.Groups[i]
		if g.Size() >= 2 {
			g.Label = Label(g.Vectors, c.cfg)
		}
		g.Keywords = DebugKeywords(g.Vectors, c.cfg)
	}
	return out, nil
}

func groupsFromClusters(clusters []cluster.Cluster, tabs []ingest.TabRecord, vectors []vector.Vector) []Group {
	groups := make([]Group, len(clusters))
	for i, cl := range clusters {
		g := Group{
			Members: cl.Members,
			TabIDs:  make([]int, len(cl.Members)),
			Vectors: make([]vector.Vector, len(cl.Members)),
		}
		for k, m := range cl.Members {
			g.TabIDs[k] = tabs[m].ID
			g.Vectors[k] = vectors[m]
		}
		groups[i] = g
	}
	return groups
}

func hasContent(docs []vector.Document) bool {
	for _, d := range docs {
		if len(d.Content) > 0 {
			return true
		}
	}
	return false
}

func checkpoint(ctx context.Context, next Stage) error {
	if err := ctx.Err(); err != nil {
		return &AbortError{Stage: next, Err: err}
	}
	return nil
}
