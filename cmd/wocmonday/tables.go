package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/config"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/pipeline"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage the lookup tables",
}

var tablesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the lookup workbooks into the SQLite store",
	Long: `Reads the region, contractor and product workbooks named under lookups and
replaces the tables in lookups.database_path. Set lookups.source to sqlite
to classify from the store afterwards.`,
	Args: cobra.NoArgs,
	RunE: runTablesImport,
}

func runTablesImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rec, err := pipeline.ImportTables(ctx, cfg, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Import %d into %s at %s: %d regions, %d contractors, %d products\n",
		rec.ID, cfg.Lookups.DatabasePath, rec.ImportedAt.Format(time.RFC3339), rec.Regions, rec.Contractors, rec.Products)
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
