package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/tabtopic/pkg/tabtopic/arrange"
	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
)

var sortBy string

var domainsCmd = &cobra.Command{
	Use:   "domains <tabs.jsonl>",
	Short: "Group tabs by host",
	Long: `Sorts tabs by host, then title, and plans one group per host. Tabs without
a host stay ungrouped. Group labels abbreviate the host (docs.python.org -> DPO).`,
	Args: cobra.ExactArgs(1),
	RunE: runDomains,
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <tabs.jsonl>",
	Short: "List tabs whose URL is already open",
	Args:  cobra.ExactArgs(1),
	RunE:  runDedupe,
}

var sortCmd = &cobra.Command{
	Use:   "sort <tabs.jsonl>",
	Short: "Plan tab moves for a sort order",
	Args:  cobra.ExactArgs(1),
	RunE:  runSort,
}

func init() {
	sortCmd.Flags().StringVar(&sortBy, "by", "title", "title, visited (most recent first) or domain")
}

func runDomains(cmd *cobra.Command, args []string) error {
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
	defer st.Close()
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return err
	}

	sorted, plans := arrange.PlanDomainGroups(unpinned(win.Metas, pinnedFlag(cmd, settings)))
	logger.Debug("Planned domain groups", zap.Int("tabs", len(sorted)), zap.Int("groups", len(plans)))

	if len(plans) > 0 {
		if err := st.PushSnapshot(ctx, arrange.Capture(0, win.Tabs, win.Active, nil, time.Now())); err != nil {
			return fmt.Errorf("save undo snapshot: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	for _, p := range plans {
		label := p.Label
		if !settings.NameGroups {
			label = ""
		}
		fmt.Fprintf(out, "%-6s %-30s %v\n", label, p.Host, p.TabIDs)
	}
	if len(plans) == 0 {
		fmt.Fprintln(out, "No tabs with a host.")
	}
	return nil
}

func runDedupe(cmd *cobra.Command, args []string) error {
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
	defer st.Close()
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return err
	}

	dups := arrange.Duplicates(win.Tabs, pinnedFlag(cmd, settings))
	out := cmd.OutOrStdout()
	if len(dups) == 0 {
		fmt.Fprintln(out, "No duplicate tabs.")
		return nil
	}
	if err := st.PushSnapshot(ctx, arrange.Capture(0, win.Tabs, win.Active, nil, time.Now())); err != nil {
		return fmt.Errorf("save undo snapshot: %w", err)
	}
	byID := make(map[int]ingest.TabRecord, len(win.Tabs))
	for _, t := range win.Tabs {
		byID[t.ID] = t
	}
	for _, id := range dups {
		fmt.Fprintf(out, "close %d  %s\n", id, byID[id].URL)
	}
	return nil
}

func runSort(cmd *cobra.Command, args []string) error {
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
	defer st.Close()
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return err
	}

	var sorted []ingest.TabMeta
	switch sortBy {
	case "title":
		sorted = arrange.SortByTitle(win.Metas)
	case "visited":
		sorted = arrange.SortByLastVisited(win.Metas, true)
	case "domain":
		sorted = arrange.SortByDomain(win.Metas)
	default:
		return fmt.Errorf("unknown sort order %q", sortBy)
	}

	moves := arrange.MoveOrder(sorted, pinnedFlag(cmd, settings))
	if len(moves) > 0 {
		if err := st.PushSnapshot(ctx, arrange.Capture(0, win.Tabs, win.Active, nil, time.Now())); err != nil {
			return fmt.Errorf("save undo snapshot: %w", err)
		}
	}
	out := cmd.OutOrStdout()
	for _, m := range moves {
		fmt.Fprintf(out, "move %d -> %d\n", m.TabID, m.Index)
	}
	return nil
}
