package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/tabtopic/internal/metrics"
	"github.com/cognicore/tabtopic/internal/tabsource"
	"github.com/cognicore/tabtopic/pkg/tabtopic"
	"github.com/cognicore/tabtopic/pkg/tabtopic/arrange"
	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/content"
	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
	"github.com/cognicore/tabtopic/pkg/tabtopic/internalerr"
)

var (
	sensitivityFlag string
	contentPath     string
	fetchContent    bool
	jsonOutput      bool
	showMetrics     bool
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <tabs.jsonl>",
	Short: "Group tabs by topic",
	Long: `Clusters the window's tabs on title, URL and (optionally) page text.
When no multi-tab group forms the run retries on titles alone and finally
groups tabs that share a keyword. Page text comes from --content, from the
"content" field of each line, or is downloaded with --fetch.`,
	Args: cobra.ExactArgs(1),
	RunE: runCluster,
}

func init() {
	clusterCmd.Flags().StringVarP(&sensitivityFlag, "sensitivity", "s", "", "high, medium or low (default from settings)")
	clusterCmd.Flags().StringVar(&contentPath, "content", "", "JSON object mapping tab id to page text")
	clusterCmd.Flags().BoolVar(&fetchContent, "fetch", false, "Download page text for http(s) tabs")
	clusterCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print clusters as JSON")
	clusterCmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print run metrics in Prometheus text format")
}

func runCluster(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	win, err := loadWindow(args)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		st.Close()
		return err
	}
	cfg, err := resolveConfig(settings)
	if err != nil {
		st.Close()
		return err
	}

	sensitivity := settings.Sensitivity
	if sensitivityFlag != "" {
		if sensitivity, err = config.ParseSensitivity(sensitivityFlag); err != nil {
			st.Close()
			return err
		}
	}

	reg := prometheus.NewRegistry()
	observer, err := metrics.NewObserver("tabtopic", reg)
	if err != nil {
		st.Close()
		return err
	}

	opts := tabtopic.Options{
		Config:    cfg,
		Stopwords: settings.UserStopwords,
		Logger:    logger,
		Store:     st,
		Observer:  observer,
	}
	if fetchContent || settings.FetchContent {
		fetcher, err := content.NewFetcher(content.Options{MaxChars: cfg.ContentMaxChars, Logger: logger})
		if err != nil {
			st.Close()
			return err
		}
		opts.Fetcher = fetcher
	}
	eng, err := tabtopic.New(opts)
	if err != nil {
		st.Close()
		return err
	}
	defer eng.Close()

	tabs := records(unpinned(win.Metas, pinnedFlag(cmd, settings)))
	req := tabtopic.Request{
		Tabs:         tabs,
		Sensitivity:  sensitivity,
		FetchContent: opts.Fetcher != nil,
	}
	switch {
	case contentPath != "":
		if req.ContentByTabID, err = tabsource.LoadContent(contentPath); err != nil {
			return err
		}
	case len(win.Content) > 0:
		req.ContentByTabID = win.Content
	}

	logger.Info("Clustering tabs",
		zap.String("source", args[0]),
		zap.Int("tabs", len(tabs)),
		zap.String("sensitivity", string(sensitivity)))

	res, err := eng.Cluster(ctx, req)
	if errors.Is(err, internalerr.ErrAborted) {
		fmt.Fprintln(cmd.OutOrStdout(), "Stopped.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("cluster tabs: %w", err)
	}

	if len(res.Groups()) > 0 {
		snap := arrange.Capture(0, win.Tabs, win.Active, nil, time.Now())
		if err := st.PushSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("save undo snapshot: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Clusters); err != nil {
			return err
		}
	} else {
		printClusters(out, res, tabs, settings.NameGroups)
	}

	if showMetrics {
		return writeMetrics(out, reg)
	}
	return nil
}

func printClusters(w io.Writer, res tabtopic.Result, tabs []ingest.TabRecord, named bool) {
	byID := make(map[int]string, len(tabs))
	for _, t := range tabs {
		byID[t.ID] = t.DisplayTitle()
	}

	fmt.Fprintf(w, "Stage %s, threshold %.3f\n", res.Stage, res.ThresholdUsed)
	groups, singles := 0, 0
	for _, c := range res.Clusters {
		if len(c.TabIDs) < 2 {
			singles++
			continue
		}
		groups++
		label := c.Label
		if !named {
			label = ""
		}
		fmt.Fprintf(w, "\nGroup %d %q (%d tabs)\n", groups, label, len(c.TabIDs))
		for _, id := range c.TabIDs {
			fmt.Fprintf(w, "  %d  %s\n", id, titleOf(byID, id))
		}
	}
	if groups == 0 {
		fmt.Fprintln(w, "No groups formed.")
	}
	fmt.Fprintf(w, "%d tabs left ungrouped\n", singles)
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func titleOf(byID map[int]string, id int) string {
	if t := strings.TrimSpace(byID[id]); t != "" {
		return t
	}
	return "(untitled)"
}
