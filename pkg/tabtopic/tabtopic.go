// Package tabtopic groups a window's browser tabs by topic. Engine is the
// entry point: it tokenizes tab titles, URLs and optional page text, builds
// IDF-weighted vectors, clusters them on a mutual nearest-neighbour graph and
// names the groups. When no multi-tab group forms it degrades to title-only
// vectors and then to shared-keyword buckets.
package tabtopic

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/content"
	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
	"github.com/cognicore/tabtopic/pkg/tabtopic/internalerr"
	"github.com/cognicore/tabtopic/pkg/tabtopic/report"
	"github.com/cognicore/tabtopic/pkg/tabtopic/stoplist"
	"github.com/cognicore/tabtopic/pkg/tabtopic/store"
	"github.com/cognicore/tabtopic/pkg/tabtopic/topic"
	"github.com/cognicore/tabtopic/pkg/tabtopic/vector"
)

// Observer receives one call per clustering run.
type Observer interface {
	RecordRun(stage topic.Stage, duration time.Duration, groups int, aborted bool)
	RecordContent(stats content.Stats)
}

// ContentFetcher supplies page text for tabs. *content.Fetcher implements it.
type ContentFetcher interface {
	Fetch(ctx context.Context, tabs []ingest.TabRecord) (content.Result, error)
}

// Options configures an Engine. Only Config is required; a zero Config is
// replaced by config.Default().
type Options struct {
	Config    config.Config
	Stopwords []string // added to the built-in list
	Logger    *zap.Logger
	Store     store.Store
	Observer  Observer
	Fetcher   ContentFetcher
	Now       func() time.Time
}

// Engine is the topic grouping facade. It is safe for concurrent use.
type Engine struct {
	cfg        config.Config
	controller *topic.Controller
	reports    *report.Builder
	store      store.Store
	observer   Observer
	fetcher    ContentFetcher
	logger     *zap.Logger
	now        func() time.Time
}

// New validates the configuration and builds an Engine.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if ingest.ASCIIFallback() {
		logger.Warn("Unicode token classes unavailable, tokenizing ASCII only")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	stops := stoplist.Static()
	if len(opts.Stopwords) > 0 {
		stops = append(append([]string(nil), stops...), opts.Stopwords...)
	}
	builder := vector.NewBuilder(cfg, ingest.NewTokenizer(stops))

	return &Engine{
		cfg:        cfg,
		controller: topic.NewController(cfg, builder, logger),
		reports:    report.NewBuilder(),
		store:      opts.Store,
		observer:   opts.Observer,
		fetcher:    opts.Fetcher,
		logger:     logger,
		now:        now,
	}, nil
}

// Config returns the configuration the engine runs with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Close closes the store, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Request is one clustering call.
type Request struct {
	Tabs           []ingest.TabRecord
	ContentByTabID map[int]string // optional page text
	Sensitivity    config.Sensitivity

	// FetchContent downloads page text with the engine's fetcher when
	// ContentByTabID is nil.
	FetchContent bool
}

// Cluster is one output group in input order. Singletons have no label.
type Cluster struct {
	TabIDs []int  `json:"tabIds"`
	Label  string `json:"label"`
}

// Result is the outcome of Engine.Cluster.
type Result struct {
	Clusters      []Cluster
	ThresholdUsed float64
	Stage         topic.Stage
	Report        report.Report
	Aborted       bool
}

// Groups returns the clusters with two or more tabs.
func (r Result) Groups() []Cluster {
	var out []Cluster
	for _, c := range r.Clusters {
		if len(c.TabIDs) >= 2 {
			out = append(out, c)
		}
	}
	return out
}

// Cluster groups req.Tabs. Every tab id appears in exactly one returned
// cluster. If ctx is cancelled the partial result is returned together with
// an error matching internalerr.ErrAborted; callers should treat that as a
// stop, not a failure.
func (e *Engine) Cluster(ctx context.Context, req Request) (Result, error) {
	start := e.now()

	var contentRow *report.ContentRow
	pages := req.ContentByTabID
	if pages == nil && req.FetchContent && e.fetcher != nil {
		fetched, err := e.fetcher.Fetch(ctx, req.Tabs)
		pages = fetched.Content
		contentRow = &report.ContentRow{
			Eligible:   fetched.Stats.Eligible,
			Success:    fetched.Stats.Success,
			Restricted: fetched.Stats.Restricted,
		}
		if e.observer != nil {
			e.observer.RecordContent(fetched.Stats)
		}
		if err != nil && ctx.Err() == nil {
			return Result{}, err
		}
	}

	out, err := e.controller.Run(ctx, req.Tabs, pages, req.Sensitivity)
	aborted := errors.Is(err, internalerr.ErrAborted)
	if err != nil && !aborted {
		return Result{}, err
	}

	rep := e.reports.Build(report.Input{
		Outcome:     out,
		Tabs:        req.Tabs,
		Config:      e.cfg,
		Sensitivity: req.Sensitivity,
		Aborted:     aborted,
		Content:     contentRow,
		Now:         e.now(),
	})

	res := Result{
		Clusters:      make([]Cluster, 0, len(out.Groups)),
		ThresholdUsed: out.ThresholdUsed,
		Stage:         out.Stage,
		Report:        rep,
		Aborted:       aborted,
	}
	for _, g := range out.Groups {
		res.Clusters = append(res.Clusters, Cluster{TabIDs: g.TabIDs, Label: g.Label})
	}

	if e.store != nil {
		if serr := e.store.SaveReport(context.WithoutCancel(ctx), rep); serr != nil {
			e.logger.Warn("Failed to save report", zap.String("run_id", rep.RunID), zap.Error(serr))
		}
	}
	if e.observer != nil {
		e.observer.RecordRun(out.Stage, e.now().Sub(start), len(res.Groups()), aborted)
	}

	if aborted {
		e.logger.Info("Clustering stopped",
			zap.String("run_id", rep.RunID),
			zap.String("stage", string(out.Stage)))
		return res, err
	}
	e.logger.Debug("Clustering finished",
		zap.String("run_id", rep.RunID),
		zap.String("stage", string(out.Stage)),
		zap.Int("tabs", len(req.Tabs)),
		zap.Int("groups", len(res.Groups())),
		zap.Float64("threshold", out.ThresholdUsed))
	return res, nil
}
