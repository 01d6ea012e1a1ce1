package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/tabtopic/pkg/tabtopic/arrange"
	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/internalerr"
	"github.com/cognicore/tabtopic/pkg/tabtopic/report"
	"github.com/cognicore/tabtopic/pkg/tabtopic/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the debug report of the last cluster run",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

var undoCmd = &cobra.Command{
	Use:   "undo <tabs.jsonl>",
	Short: "Plan restoring the window saved before the last action",
	Long: `Pops the newest snapshot from the undo stack (at most five are kept) and
prints the steps that bring the current window back to it.`,
	Args: cobra.ExactArgs(1),
	RunE: runUndo,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or import saved settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print saved settings as YAML",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <settings.yaml>",
	Short: "Replace saved settings with a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsImport,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsImportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.LatestReport(ctx)
	if errors.Is(err, internalerr.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No report yet; run the cluster command first.")
		return nil
	}
	if err != nil {
		return err
	}
	data, err := report.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func runUndo(cmd *cobra.Command, args []string) error {
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

	snap, err := st.PopSnapshot(ctx)
	if errors.Is(err, internalerr.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo.")
		return nil
	}
	if err != nil {
		return err
	}

	plan := arrange.PlanRestore(snap, win.Tabs)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Restoring snapshot %s (%s)\n", snap.ID, snap.CapturedAt.Format("2006-01-02 15:04:05"))
	if len(plan.Ungroup) > 0 {
		fmt.Fprintf(out, "ungroup %v\n", plan.Ungroup)
	}
	for i, s := range plan.Slots {
		switch {
		case s.Recreate:
			fmt.Fprintf(out, "open  %d  %s\n", i, s.OpenURL())
		default:
			fmt.Fprintf(out, "move  %d  tab %d\n", i, s.TabID)
		}
		if s.SetPinned {
			fmt.Fprintf(out, "pin   %d  %v\n", i, s.Entry.Pinned)
		}
	}
	for k := len(plan.Groups) - 1; k >= 0; k-- {
		g := plan.Groups[k]
		fmt.Fprintf(out, "group %v %q color=%s collapsed=%v\n", g.Slots, g.Group.Title, g.Group.Color, g.Group.Collapsed)
	}
	if plan.Active >= 0 {
		fmt.Fprintf(out, "focus %d\n", plan.Active)
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runSettingsImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read settings %s: %w", args[0], err)
	}
	// A partial config block is read on top of the defaults.
	cfg := config.Default()
	settings := store.DefaultSettings()
	settings.Config = &cfg
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parse settings %s: %w", args[0], err)
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveSettings(ctx, settings); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
	return nil
}
