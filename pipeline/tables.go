package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/config"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/store/sqlite"
)

// LoadTables loads the lookup tables from the configured source. Any
// failure here is fatal: no batch runs without its tables.
func LoadTables(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*lookup.Tables, error) {
	var (
		tables *lookup.Tables
		err    error
	)
	switch cfg.Lookups.Source {
	case config.SourceWorkbook:
		tables, err = lookup.LoadWorkbooks(cfg.Workbooks())
	case config.SourceSQLite:
		tables, err = loadStore(ctx, cfg.Lookups.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown lookup source %q", cfg.Lookups.Source)
	}
	if err != nil {
		return nil, err
	}
	logTables(logger, "Lookup tables loaded", cfg.Lookups.Source, tables)
	return tables, nil
}

func loadStore(ctx context.Context, path string) (*lookup.Tables, error) {
	store, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Load(ctx)
}

// ImportTables reads the lookup workbooks and replaces the SQLite tables
// with them.
func ImportTables(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sqlite.ImportRecord, error) {
	tables, err := lookup.LoadWorkbooks(cfg.Workbooks())
	if err != nil {
		return nil, err
	}
	store, err := sqlite.New(cfg.Lookups.DatabasePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.Import(ctx, tables, cfg.Lookups.Regions.Path); err != nil {
		return nil, err
	}
	rec, err := store.LastImport(ctx)
	if err != nil {
		return nil, err
	}
	logTables(logger, "Lookup tables imported", cfg.Lookups.DatabasePath, tables)
	return rec, nil
}

func logTables(logger *zap.Logger, msg, source string, t *lookup.Tables) {
	if logger == nil {
		return
	}
	counts := t.Counts()
	logger.Info(msg,
		zap.String("source", source),
		zap.Int("regions", counts[lookup.TableRegions]),
		zap.Int("contractors", counts[lookup.TableContractors]),
		zap.Int("products", counts[lookup.TableProducts]))
}
