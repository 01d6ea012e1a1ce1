// Command tabtopic groups an exported browser window by topic and plans the
// other tab actions (domain groups, duplicate removal, sorting, undo) against
// the same snapshot format.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/tabtopic/internal/tabsource"
	"github.com/cognicore/tabtopic/pkg/tabtopic/config"
	"github.com/cognicore/tabtopic/pkg/tabtopic/ingest"
	"github.com/cognicore/tabtopic/pkg/tabtopic/store"
	"github.com/cognicore/tabtopic/pkg/tabtopic/store/sqlite"
)

var (
	verbose       bool
	configPath    string
	dbPath        string
	timeout       time.Duration
	includePinned bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tabtopic",
	Short: "Group browser tabs by topic",
	Long: `tabtopic reads a window exported as JSON lines (one tab per line) and
plans tab groups by topic or by domain. Settings, the undo stack and the
latest clustering report are kept in a local SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Clustering config YAML (overrides saved settings)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: user config dir)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")
	rootCmd.PersistentFlags().BoolVar(&includePinned, "include-pinned", false, "Include pinned tabs (default from settings)")

	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(domainsCmd)
	rootCmd.AddCommand(dedupeCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(settingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext stops on interrupt or after --timeout.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func defaultDBPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "tabtopic")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return filepath.Join(dir, "tabtopic.db"), nil
}

func openStore(ctx context.Context) (store.Store, error) {
	path := dbPath
	if path == "" {
		var err error
		if path, err = defaultDBPath(); err != nil {
			return nil, err
		}
	}
	logger.Debug("Opening store", zap.String("path", path))
	st, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return st, nil
}

// resolveConfig applies --config on top of the saved settings.
func resolveConfig(settings store.Settings) (config.Config, error) {
	if configPath == "" {
		cfg := settings.ClusterConfig()
		return cfg, cfg.Validate()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// pinnedFlag returns --include-pinned when given, otherwise the setting.
func pinnedFlag(cmd *cobra.Command, settings store.Settings) bool {
	if cmd.Flags().Changed("include-pinned") {
		return includePinned
	}
	return settings.IncludePinned
}

// loadWindow reads the JSONL file named by args[0].
func loadWindow(args []string) (tabsource.Window, error) {
	return tabsource.LoadFromJSONL(args[0], logger)
}

func unpinned(metas []ingest.TabMeta, withPinned bool) []ingest.TabMeta {
	if withPinned {
		return metas
	}
	out := make([]ingest.TabMeta, 0, len(metas))
	for _, m := range metas {
		if !m.Pinned {
			out = append(out, m)
		}
	}
	return out
}

func records(metas []ingest.TabMeta) []ingest.TabRecord {
	out := make([]ingest.TabRecord, len(metas))
	for i, m := range metas {
		out[i] = m.TabRecord
	}
	return out
}
