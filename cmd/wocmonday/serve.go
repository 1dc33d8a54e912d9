package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/api"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/config"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/metrics"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/pipeline"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/store/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP front-end",
	Long: `Serves the conversions over HTTP:

  POST /api/classify     rows and diagnostics as JSON
  POST /api/monday       Monday import workbook (?segment=business|consumer)
  POST /api/workorders   zip of work-order PDFs
  GET  /api/health       lookup table status
  GET  /metrics          Prometheus metrics

With lookups.source sqlite, newly imported tables are picked up every
server.reload_seconds without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

const shutdownTimeout = 30 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tables, err := pipeline.LoadTables(ctx, cfg, logger)
	if err != nil {
		return err
	}
	reg := metrics.NewRegistry()
	handler := api.NewHandler(tables, cfg.Lookups.Source, func(t *lookup.Tables) *pipeline.Runner {
		return pipeline.New(t, cfg, logger, reg)
	}, logger)
	handler.MaxUpload = cfg.MaxUploadBytes()

	if cfg.Lookups.Source == config.SourceSQLite {
		reloader, err := startReloader(ctx, handler)
		if err != nil {
			return err
		}
		defer reloader.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(handler, reg, cfg.Server.AllowedOrigins),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	errc := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// Wait for interrupt signal or a failed listener
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// startReloader opens the lookup store for the lifetime of the server and
// polls it for new imports.
func startReloader(ctx context.Context, handler *api.Handler) (*closingReloader, error) {
	store, err := sqlite.New(cfg.Lookups.DatabasePath)
	if err != nil {
		return nil, err
	}
	rec, err := store.LastImport(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	r := api.NewTableReloader(store, handler, rec.ID, logger)
	r.CheckInterval = cfg.ReloadInterval()
	r.Start()
	return &closingReloader{TableReloader: r, store: store}, nil
}

type closingReloader struct {
	*api.TableReloader
	store *sqlite.Store
}

func (c *closingReloader) Stop() {
	c.TableReloader.Stop()
	c.store.Close()
}
