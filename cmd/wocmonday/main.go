/*
main.go - wocmonday entry point

PURPOSE:
  Converts WOC work-order exports into Monday board imports and printable
  work-order sheets, from the command line or as an HTTP service.

COMMANDS:
  monday <orders.json>       Write the combined, business and consumer imports
  workorders <orders.json>   Write one PDF per order under the output tree
  run <orders.json>          Both of the above
  serve                      HTTP front-end (see api/)
  tables import              Copy the lookup workbooks into the SQLite store
  config init [path]         Write the default configuration

GLOBAL FLAGS:
  --config    Configuration file (default: wocmonday.yaml, optional)
  --verbose   Debug logging

SIGNALS:
  SIGINT/SIGTERM cancel the command context: batches stop between orders,
  the server shuts down gracefully.

SEE ALSO:
  - config/config.go: Configuration keys and env overrides
  - pipeline/runner.go: Batch runner
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/config"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wocmonday",
	Short: "Convert WOC exports into Monday imports and work-order sheets",
	Long: `wocmonday reads a WOC work-order export (a JSON array of orders), keeps the
orders a contractor still has to handle, and produces:

  - the Monday board import (combined, business and consumer workbooks)
  - one printable work-order PDF per order, filed by region and order type

Lookup tables (municipality -> region, postal code -> contractor, product
priorities) come from the operations workbooks or from the SQLite store
filled by "wocmonday tables import".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		logger, err = buildLogger(cfg.Logging, verbose)
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

// buildLogger configures zap from the logging section. --verbose wins over
// the configured level.
func buildLogger(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	tablesCmd.AddCommand(tablesImportCmd)
	configCmd.AddCommand(configInitCmd)

	// Add commands to root
	rootCmd.AddCommand(mondayCmd)
	rootCmd.AddCommand(workOrdersCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
