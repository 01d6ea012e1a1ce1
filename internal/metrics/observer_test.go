package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cognicore/tabtopic/pkg/tabtopic/content"
	"github.com/cognicore/tabtopic/pkg/tabtopic/topic"
)

func TestObserverRecordsRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewObserver("test", reg)
	if err != nil {
		t.Fatalf("NewObserver: %v", err)
	}

	o.RecordRun(topic.StageFull, 20*time.Millisecond, 3, false)
	o.RecordRun(topic.StageKeyword, 5*time.Millisecond, 0, false)
	o.RecordRun(topic.StageFull, 10*time.Millisecond, 1, false)
	o.RecordRun(topic.StageTitle, time.Millisecond, 0, true)

	if got := testutil.ToFloat64(o.runs.WithLabelValues("full")); got != 2 {
		t.Fatalf("expected 2 full runs, got %v", got)
	}
	if got := testutil.ToFloat64(o.runs.WithLabelValues("keyword")); got != 1 {
		t.Fatalf("expected 1 keyword run, got %v", got)
	}
	if got := testutil.ToFloat64(o.abortedRuns); got != 1 {
		t.Fatalf("expected 1 aborted run, got %v", got)
	}
	if got := testutil.CollectAndCount(o.runDuration); got != 1 {
		t.Fatalf("expected duration histogram to export 1 series, got %d", got)
	}
}

func TestObserverRecordsContent(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewObserver("", reg)
	if err != nil {
		t.Fatalf("NewObserver: %v", err)
	}

	o.RecordContent(content.Stats{Eligible: 5, Success: 3, Restricted: 2})

	for outcome, want := range map[string]float64{"success": 3, "failed": 2, "restricted": 2} {
		if got := testutil.ToFloat64(o.pages.WithLabelValues(outcome)); got != want {
			t.Errorf("%s pages = %v, want %v", outcome, got, want)
		}
	}
}

func TestObserverReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewObserver("dup", reg)
	if err != nil {
		t.Fatalf("first NewObserver: %v", err)
	}
	second, err := NewObserver("dup", reg)
	if err != nil {
		t.Fatalf("second NewObserver: %v", err)
	}

	second.RecordRun(topic.StageFull, time.Millisecond, 1, false)
	if got := testutil.ToFloat64(first.runs.WithLabelValues("full")); got != 1 {
		t.Fatalf("expected shared counter to read 1, got %v", got)
	}
}

func TestNilObserver(t *testing.T) {
	var o *Observer
	o.RecordRun(topic.StageFull, time.Second, 2, false)
	o.RecordContent(content.Stats{Eligible: 1})
}
