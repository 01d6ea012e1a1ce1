// Package metrics exports clustering run telemetry to Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cognicore/tabtopic/pkg/tabtopic"
	"github.com/cognicore/tabtopic/pkg/tabtopic/content"
	"github.com/cognicore/tabtopic/pkg/tabtopic/topic"
)

// Observer records clustering runs and content fetches.
type Observer struct {
	runs         *prometheus.CounterVec
	abortedRuns  prometheus.Counter
	runDuration  prometheus.Histogram
	groupsPerRun prometheus.Histogram
	pages        *prometheus.CounterVec
}

var _ tabtopic.Observer = (*Observer)(nil)

// NewObserver registers the run metrics on reg. A nil reg uses the default
// registerer; metrics already registered under the same name are reused.
func NewObserver(namespace string, reg prometheus.Registerer) (*Observer, error) {
	if namespace == "" {
		namespace = "tabtopic"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &Observer{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Clustering runs by the stage that produced the final groups.",
		}, []string{"stage"}),
		abortedRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aborted_runs_total",
			Help:      "Clustering runs stopped by cancellation.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a clustering run.",
			Buckets:   prometheus.DefBuckets,
		}),
		groupsPerRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "groups_per_run",
			Help:      "Multi-tab groups produced by a run.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_pages_total",
			Help:      "Tab pages considered for text extraction by outcome.",
		}, []string{"outcome"}),
	}

	var err error
	if o.runs, err = register(reg, o.runs); err != nil {
		return nil, err
	}
	if o.abortedRuns, err = register(reg, o.abortedRuns); err != nil {
		return nil, err
	}
	if o.runDuration, err = register(reg, o.runDuration); err != nil {
		return nil, err
	}
	if o.groupsPerRun, err = register(reg, o.groupsPerRun); err != nil {
		return nil, err
	}
	if o.pages, err = register(reg, o.pages); err != nil {
		return nil, err
	}
	return o, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register run metric: %w", err)
	}
	return c, nil
}

// RecordRun implements tabtopic.Observer.
func (o *Observer) RecordRun(stage topic.Stage, duration time.Duration, groups int, aborted bool) {
	if o == nil {
		return
	}
	o.runDuration.Observe(duration.Seconds())
	if aborted {
		o.abortedRuns.Inc()
		return
	}
	o.runs.WithLabelValues(string(stage)).Inc()
	o.groupsPerRun.Observe(float64(groups))
}

// RecordContent implements tabtopic.Observer.
func (o *Observer) RecordContent(stats content.Stats) {
	if o == nil {
		return
	}
	failed := stats.Eligible - stats.Success
	o.pages.WithLabelValues("success").Add(float64(stats.Success))
	o.pages.WithLabelValues("failed").Add(float64(max(failed, 0)))
	o.pages.WithLabelValues("restricted").Add(float64(stats.Restricted))
}
