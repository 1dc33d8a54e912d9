package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/pipeline"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

var mondayCmd = &cobra.Command{
	Use:   "monday <orders.json>",
	Short: "Write the Monday board imports",
	Long: `Classifies every accepted or received order and writes three workbooks
(sheet "Data"): the combined import and its business (B) and consumer (P)
splits. Rows that need review only appear in the combined import.`,
	Args: cobra.ExactArgs(1),
	RunE: runMonday,
}

var workOrdersCmd = &cobra.Command{
	Use:   "workorders <orders.json>",
	Short: "Write one work-order PDF per order",
	Long: `Renders a sheet for every accepted, received or appointed order under
{pdf_dir}/{region}/{orderType}/. The directory is emptied first and, unless
output.zip is false, archived afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkOrders,
}

var runCmd = &cobra.Command{
	Use:   "run <orders.json>",
	Short: "Write both the Monday imports and the work-order PDFs",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoth,
}

func readOrders(path string) ([]woc.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, woc.Setup("open orders", path, err)
	}
	defer f.Close()
	orders, err := woc.ParseOrders(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return orders, nil
}

func newRunner(ctx context.Context) (*pipeline.Runner, error) {
	tables, err := pipeline.LoadTables(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return pipeline.New(tables, cfg, logger, nil), nil
}

func runMonday(cmd *cobra.Command, args []string) error {
	return convert(cmd, args[0], true, false)
}

func runWorkOrders(cmd *cobra.Command, args []string) error {
	return convert(cmd, args[0], false, true)
}

func runBoth(cmd *cobra.Command, args []string) error {
	return convert(cmd, args[0], true, true)
}

func convert(cmd *cobra.Command, path string, withMonday, withWorkOrders bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	orders, err := readOrders(path)
	if err != nil {
		return err
	}
	runner, err := newRunner(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if withMonday {
		res, err := runner.Monday(ctx, orders)
		if err != nil {
			return err
		}
		if err := runner.SaveMonday(res, cfg.MondayFiles()); err != nil {
			return err
		}
		fmt.Fprint(out, res.Summary())
	}
	if withWorkOrders {
		res, err := runner.WorkOrders(ctx, orders)
		if err != nil {
			return err
		}
		if err := runner.SaveWorkOrders(ctx, res, cfg.PDFRoot(), cfg.ZipPath()); err != nil {
			return err
		}
		fmt.Fprint(out, res.Summary())
	}
	return nil
}
