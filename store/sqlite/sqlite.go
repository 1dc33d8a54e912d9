/*
Package sqlite provides a SQLite-backed store for the lookup tables.

PURPOSE:
  The region, contractor and product tables are maintained as spreadsheets
  by operations. Reading three workbooks on every start is slow and brittle,
  so `wocmonday tables import` copies them into a single SQLite file once
  and later runs load lookup.Tables from it (lookups.source: sqlite).

KEY TABLES:
  regions:      municipality -> region, in source order
  contractors:  postal code -> contractor, in source order
  products:     code -> name, priority (decimal text), ranked flag
  imports:      one row per import, newest is reported by LastImport

IMPORT SEMANTICS:
  Import replaces all three tables in one transaction. Row order is kept
  through a position column so Load rebuilds Tables with the same
  first-row-wins and tie-break behaviour as the workbook loader.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The pool is limited to a single
  connection so ":memory:" databases are shared by every query.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the importer
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./Datafiler/lookups.db")
  if err != nil {
      return err
  }
  defer store.Close()

  tables, err := store.Load(ctx)

SEE ALSO:
  - lookup/lookup.go: Tables and row types
  - lookup/workbook.go: The spreadsheet source of an import
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// Store persists lookup tables in SQLite.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// ImportRecord describes one completed import.
type ImportRecord struct {
	ID          int64
	Source      string
	Regions     int
	Contractors int
	Products    int
	ImportedAt  time.Time
}

// New opens (creating if needed) a store at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, woc.Setup("open lookup database", dbPath, err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, woc.Setup("migrate lookup database", dbPath, err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS regions (
		position INTEGER PRIMARY KEY,
		municipality TEXT NOT NULL,
		region TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contractors (
		position INTEGER PRIMARY KEY,
		postal_code TEXT NOT NULL,
		contractor TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contractors_postal_code
		ON contractors(postal_code);

	CREATE TABLE IF NOT EXISTS products (
		position INTEGER PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT '0',
		ranked BOOLEAN NOT NULL DEFAULT FALSE,
		source_row INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_products_code
		ON products(code);

	CREATE TABLE IF NOT EXISTS imports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		regions INTEGER NOT NULL,
		contractors INTEGER NOT NULL,
		products INTEGER NOT NULL,
		imported_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// IMPORT
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Import replaces the stored tables with t atomically. source is recorded
// in the import log (typically the workbook directory).
func (s *Store) Import(ctx context.Context, t *lookup.Tables, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, table := range []string{"regions", "contractors", "products"} {
		if _, err := sqlTx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := insertRegions(ctx, sqlTx, t.RegionRows()); err != nil {
		return err
	}
	if err := insertContractors(ctx, sqlTx, t.ContractorRows()); err != nil {
		return err
	}
	if err := insertProducts(ctx, sqlTx, t.ProductRows()); err != nil {
		return err
	}

	counts := t.Counts()
	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO imports (source, regions, contractors, products, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		source,
		counts[lookup.TableRegions],
		counts[lookup.TableContractors],
		counts[lookup.TableProducts],
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}

	return sqlTx.Commit()
}

func insertRegions(ctx context.Context, db execer, rows []lookup.RegionRow) error {
	for i, r := range rows {
		_, err := db.ExecContext(ctx,
			`INSERT INTO regions (position, municipality, region) VALUES (?, ?, ?)`,
			i, r.Municipality, r.Region,
		)
		if err != nil {
			return fmt.Errorf("failed to insert region %q: %w", r.Municipality, err)
		}
	}
	return nil
}

func insertContractors(ctx context.Context, db execer, rows []lookup.ContractorRow) error {
	for i, c := range rows {
		_, err := db.ExecContext(ctx,
			`INSERT INTO contractors (position, postal_code, contractor) VALUES (?, ?, ?)`,
			i, lookup.NormalizePostalCode(c.PostalCode), c.Contractor,
		)
		if err != nil {
			return fmt.Errorf("failed to insert contractor %q: %w", c.PostalCode, err)
		}
	}
	return nil
}

func insertProducts(ctx context.Context, db execer, rows []lookup.Product) error {
	for i, p := range rows {
		_, err := db.ExecContext(ctx, `
			INSERT INTO products (position, code, name, priority, ranked, source_row)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			i, p.Code, p.Name, p.Priority.String(), p.Ranked, p.Row,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product %q: %w", p.Code, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load rebuilds lookup tables from the store. A store that was never
// imported into is a setup error: running with empty tables would turn
// every lookup into a miss.
func (s *Store) Load(ctx context.Context) (*lookup.Tables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.lastImport(ctx); err != nil {
		return nil, err
	}

	regions, err := s.loadRegions(ctx)
	if err != nil {
		return nil, err
	}
	contractors, err := s.loadContractors(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	return lookup.NewTables(regions, contractors, products), nil
}

func (s *Store) loadRegions(ctx context.Context) ([]lookup.RegionRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT municipality, region FROM regions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query regions: %w", err)
	}
	defer rows.Close()

	var out []lookup.RegionRow
	for rows.Next() {
		var r lookup.RegionRow
		if err := rows.Scan(&r.Municipality, &r.Region); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadContractors(ctx context.Context) ([]lookup.ContractorRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT postal_code, contractor FROM contractors ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contractors: %w", err)
	}
	defer rows.Close()

	var out []lookup.ContractorRow
	for rows.Next() {
		var c lookup.ContractorRow
		if err := rows.Scan(&c.PostalCode, &c.Contractor); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) loadProducts(ctx context.Context) ([]lookup.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, priority, ranked, source_row FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var out []lookup.Product
	for rows.Next() {
		var (
			p        lookup.Product
			priority string
		)
		if err := rows.Scan(&p.Code, &p.Name, &priority, &p.Ranked, &p.Row); err != nil {
			return nil, err
		}
		if p.Priority, err = decimal.NewFromString(priority); err != nil {
			return nil, fmt.Errorf("product %q: invalid priority %q: %w", p.Code, priority, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// IMPORT LOG
// =============================================================================

// LastImport returns the most recent import.
func (s *Store) LastImport(ctx context.Context) (*ImportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastImport(ctx)
}

func (s *Store) lastImport(ctx context.Context) (*ImportRecord, error) {
	var (
		rec        ImportRecord
		importedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, regions, contractors, products, imported_at
		FROM imports ORDER BY id DESC LIMIT 1
	`).Scan(&rec.ID, &rec.Source, &rec.Regions, &rec.Contractors, &rec.Products, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, woc.Setup("load lookup tables", s.path, errors.New("no tables imported"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	rec.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return &rec, nil
}
