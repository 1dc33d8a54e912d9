/*
reloader.go - Lookup table hot reload

PURPOSE:
  With the sqlite lookup source, operators refresh the tables by running
  `wocmonday tables import` while the server is up. The reloader polls the
  store's import log and swaps newly imported tables into the handler, so no
  restart is needed.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Compares the newest import id with the one last loaded
  - A failed check is logged and retried on the next tick; the handler keeps
    serving the tables it has

USAGE:
  reloader := NewTableReloader(store, handler, logger)
  reloader.CheckInterval = cfg.ReloadInterval()
  reloader.Start()
  // ... later
  reloader.Stop()

SEE ALSO:
  - handlers.go: Handler.SetTables
  - store/sqlite/sqlite.go: Import log
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/store/sqlite"
)

// TableStore is the part of the sqlite store the reloader reads.
type TableStore interface {
	LastImport(ctx context.Context) (*sqlite.ImportRecord, error)
	Load(ctx context.Context) (*lookup.Tables, error)
}

// TableReloader polls a TableStore and swaps new imports into a Handler.
type TableReloader struct {
	Store         TableStore
	Handler       *Handler
	Logger        *zap.Logger
	CheckInterval time.Duration

	lastID int64
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewTableReloader creates a reloader. lastID is the import already being
// served, 0 when unknown.
func NewTableReloader(store TableStore, handler *Handler, lastID int64, logger *zap.Logger) *TableReloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableReloader{
		Store:         store,
		Handler:       handler,
		Logger:        logger,
		CheckInterval: time.Minute,
		lastID:        lastID,
	}
}

// Start begins polling. A non-positive interval disables the reloader.
func (tr *TableReloader) Start() {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.CheckInterval <= 0 {
		tr.Logger.Info("Table reloader disabled")
		return
	}
	if tr.ticker != nil {
		return
	}

	tr.ticker = time.NewTicker(tr.CheckInterval)
	tr.stop = make(chan struct{})
	tr.wg.Add(1)
	go tr.run()

	tr.Logger.Info("Table reloader started", zap.Duration("interval", tr.CheckInterval))
}

// Stop stops polling and waits for a running check to finish.
func (tr *TableReloader) Stop() {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.ticker == nil {
		return
	}
	tr.ticker.Stop()
	close(tr.stop)
	tr.wg.Wait()
	tr.ticker = nil
	tr.Logger.Info("Table reloader stopped")
}

func (tr *TableReloader) run() {
	defer tr.wg.Done()

	for {
		select {
		case <-tr.ticker.C:
			if _, err := tr.Check(context.Background()); err != nil {
				tr.Logger.Warn("Table reload failed", zap.Error(err))
			}
		case <-tr.stop:
			return
		}
	}
}

// Check loads the newest import when it differs from the one in use and
// reports whether it swapped tables.
func (tr *TableReloader) Check(ctx context.Context) (bool, error) {
	rec, err := tr.Store.LastImport(ctx)
	if err != nil {
		return false, err
	}
	if rec.ID == tr.lastID {
		return false, nil
	}

	tables, err := tr.Store.Load(ctx)
	if err != nil {
		return false, err
	}
	tr.Handler.SetTables(tables, rec.ImportedAt)
	tr.lastID = rec.ID

	tr.Logger.Info("Lookup tables reloaded",
		zap.Int64("import_id", rec.ID),
		zap.String("source", rec.Source),
		zap.Int("regions", rec.Regions),
		zap.Int("contractors", rec.Contractors),
		zap.Int("products", rec.Products))
	return true, nil
}
