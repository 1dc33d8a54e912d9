package pipeline_test

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/config"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/metrics"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/monday"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/pipeline"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/workorder"
)

// Four orders: included by both pipelines, handled by a supplier already,
// appointed (work orders only), and cancelled.
const batch = `[
	{
		"clientOrderId": {"referenceName": "CO", "referenceNumber": "555123"},
		"title": "Fiber installasjon",
		"orderType": "Installation",
		"detailedAreaOfSubject": "FTTH",
		"wocOrderStatus": "Received",
		"issuedDate": "2025-12-24T07:42:32.347Z",
		"workOrderAddress": [{"streetAddress": {"streetName": "Kirkeveien", "houseNumber": 12, "houseChar": "B",
			"postalCode": "1337", "municipalityName": "Bærum"}}],
		"detailedOrderInformation": {
			"user1": {"fullName": "Ola Nordmann", "contactPersons": [{"firstName": "Ola", "phone1": "99887766"}]},
			"customerCategory": "Privat"
		},
		"orderlines": [{"lineNumber": 1, "contractorProductId": "LVA1A"}]
	},
	{
		"wocOrderStatus": "accepted",
		"issuedDate": "2025-12-24",
		"supplier": {"contactPersons": [{"firstName": "Per"}]}
	},
	{
		"clientOrderId": {"referenceName": "CO", "referenceNumber": "555123"},
		"orderType": "Installation",
		"wocOrderStatus": "APPOINTED",
		"issuedDate": "2025-12-27",
		"workOrderAddress": [{"streetAddress": {"streetName": "Kirkeveien", "houseNumber": 12, "houseChar": "B",
			"municipalityName": "Bærum"}}],
		"detailedOrderInformation": {"user1": {"fullName": "Kari Nordmann"}}
	},
	{"wocOrderStatus": "cancelled", "issuedDate": "2025-12-24"}
]`

func orders(t *testing.T) []woc.Order {
	t.Helper()
	out, err := woc.ParseOrders(strings.NewReader(batch))
	require.NoError(t, err)
	return out
}

func tables() *lookup.Tables {
	return lookup.NewTables(
		[]lookup.RegionRow{{Municipality: "Bærum", Region: "Akershus"}},
		[]lookup.ContractorRow{{PostalCode: "1337", Contractor: "Fiberbygg AS"}},
		[]lookup.Product{{Code: "LVA1A", Name: "Komplett fortetning", Priority: decimal.NewFromInt(1), Ranked: true}},
	)
}

func newRunner(reg *metrics.Registry) *pipeline.Runner {
	r := pipeline.New(tables(), config.DefaultConfig(), zap.NewNop(), reg)
	r.Renderer.Now = func() time.Time { return time.Date(2025, 12, 29, 8, 0, 0, 0, time.UTC) }
	return r
}

// =============================================================================
// MONDAY
// =============================================================================

func TestMonday_FiltersAndAssemblesInOrder(t *testing.T) {
	// GIVEN: A runner with metrics
	reg := metrics.NewRegistry()
	r := newRunner(reg)

	// WHEN: Running the Monday pipeline over the batch
	res, err := r.Monday(context.Background(), orders(t))
	require.NoError(t, err)

	// THEN: Only the received order becomes a row
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Ola Nordmann", res.Rows[0].Row.Item)
	assert.Equal(t, pipeline.PipelineMonday, res.Pipeline)
	assert.Equal(t, 4, res.Seen)
	assert.NotEmpty(t, res.RunID)

	// AND: Every other order is skipped with its reason
	assert.Equal(t, []pipeline.Skip{
		{Index: 1, Item: "--", Reason: woc.SkipSupplierContact},
		{Index: 2, Item: "Kari Nordmann", Reason: woc.SkipStatus},
		{Index: 3, Item: "--", Reason: woc.SkipStatus},
	}, res.Skipped)

	// AND: The batch is counted
	assert.Equal(t, 4.0, testutil.ToFloat64(reg.OrdersSeen.WithLabelValues("monday")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Outputs.WithLabelValues("monday")))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.OrdersSkipped.WithLabelValues("monday", "status")))
}

func TestMonday_Idempotent(t *testing.T) {
	r := newRunner(nil)

	first, err := r.Monday(context.Background(), orders(t))
	require.NoError(t, err)
	second, err := r.Monday(context.Background(), orders(t))
	require.NoError(t, err)

	assert.Equal(t, first.MondayRows(), second.MondayRows())
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestMonday_MissingIssuedDateAbortsBatch(t *testing.T) {
	in, err := woc.ParseOrders(strings.NewReader(`[{"wocOrderStatus":"accepted"}]`))
	require.NoError(t, err)

	_, err = newRunner(nil).Monday(context.Background(), in)

	require.Error(t, err)
	assert.True(t, woc.IsFatal(err))
}

func TestMonday_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(nil).Monday(ctx, orders(t))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSaveMonday(t *testing.T) {
	// GIVEN: A finished Monday batch
	r := newRunner(nil)
	res, err := r.Monday(context.Background(), orders(t))
	require.NoError(t, err)

	// WHEN: Saving the imports
	dir := t.TempDir()
	files := monday.Files{
		Combined: filepath.Join(dir, monday.CombinedFile),
		Business: filepath.Join(dir, monday.BusinessFile),
		Consumer: filepath.Join(dir, monday.ConsumerFile),
	}
	require.NoError(t, r.SaveMonday(res, files))

	// THEN: The consumer split holds the row, the business split none
	consumer, err := monday.ReadWorkbook(files.Consumer)
	require.NoError(t, err)
	assert.Len(t, consumer, 1)
	business, err := monday.ReadWorkbook(files.Business)
	require.NoError(t, err)
	assert.Empty(t, business)
	assert.Equal(t, []string{files.Combined, files.Business, files.Consumer}, res.Files)
}

func TestWriteMonday_Segments(t *testing.T) {
	res, err := newRunner(nil).Monday(context.Background(), orders(t))
	require.NoError(t, err)

	for _, seg := range []string{"", "business", "consumer"} {
		var buf bytes.Buffer
		require.NoError(t, pipeline.WriteMonday(&buf, res, seg), seg)
		assert.NotZero(t, buf.Len(), seg)
	}
	assert.Error(t, pipeline.WriteMonday(&bytes.Buffer{}, res, "wholesale"))
}

// =============================================================================
// WORK ORDERS
// =============================================================================

func TestWorkOrders_AdmitsAppointedAndDedupesPaths(t *testing.T) {
	// GIVEN: Two included orders that would land on the same path
	r := newRunner(nil)

	// WHEN: Running the work-order pipeline
	res, err := r.WorkOrders(context.Background(), orders(t))
	require.NoError(t, err)

	// THEN: Both sheets are kept, the second under a suffixed name
	require.Len(t, res.Sheets, 2)
	assert.Equal(t, "Akershus/Installation/555123 Kirkeveien 12B.pdf", res.Sheets[0].Location.Rel())
	assert.Equal(t, "Akershus/Installation/555123 Kirkeveien 12B (2).pdf", res.Sheets[1].Location.Rel())
	assert.Len(t, res.Skipped, 2)
}

func TestSaveWorkOrders_WritesTreeAndZip(t *testing.T) {
	// GIVEN: A finished work-order batch and a stale output root
	r := newRunner(nil)
	res, err := r.WorkOrders(context.Background(), orders(t))
	require.NoError(t, err)

	dir := t.TempDir()
	root := filepath.Join(dir, "generated_pdfs")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stale.pdf"), []byte("x"), 0o644))
	zipPath := filepath.Join(dir, "generated_pdfs.zip")

	// WHEN: Saving
	require.NoError(t, r.SaveWorkOrders(context.Background(), res, root, zipPath))

	// THEN: Only this run's sheets are on disk and in the archive
	files, err := workorder.Files(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Akershus/Installation/555123 Kirkeveien 12B (2).pdf",
		"Akershus/Installation/555123 Kirkeveien 12B.pdf",
	}, files)

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()
	assert.Len(t, zr.File, 2)
	assert.Contains(t, res.Files, zipPath)
	assert.Len(t, res.Files, 3)
}

func TestWriteWorkOrdersZip(t *testing.T) {
	r := newRunner(nil)
	res, err := r.WorkOrders(context.Background(), orders(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WriteWorkOrdersZip(&buf, res))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, res.Sheets[1].Location.Rel(), zr.File[1].Name)
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummary(t *testing.T) {
	// GIVEN: A sparse order whose segment cannot be decided
	in, err := woc.ParseOrders(strings.NewReader(`[
		{"wocOrderStatus": "accepted", "issuedDate": "2025-03-03", "connectionPoint": {"id": "7", "fullName": "Node"}}
	]`))
	require.NoError(t, err)

	// WHEN: Running and summarising
	res, err := newRunner(nil).Monday(context.Background(), in)
	require.NoError(t, err)
	s := res.Summary()

	// THEN: The order is flagged and named in the report
	assert.Equal(t, []string{"Node-7-"}, s.Flagged)
	assert.NotEmpty(t, s.Unresolved)
	assert.Equal(t, 1, s.Produced)
	assert.Contains(t, s.String(), "Needs attention:\n  - Node-7-\n")
}

// =============================================================================
// TABLES
// =============================================================================

func writeSheet(t *testing.T, path, sheet string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func workbookConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Output.Dir = dir
	cfg.Lookups.DatabasePath = filepath.Join(dir, "lookups.db")
	cfg.Lookups.Regions = config.SheetConfig{Path: filepath.Join(dir, "regions.xlsx"), Sheet: "Ark1"}
	cfg.Lookups.Contractors = config.SheetConfig{Path: filepath.Join(dir, "contractors.xlsx"), Sheet: "Postnummerregister"}
	cfg.Lookups.Products = config.SheetConfig{Path: filepath.Join(dir, "products.xlsx"), Sheet: "Produkter"}

	writeSheet(t, cfg.Lookups.Regions.Path, "Ark1", [][]any{
		{"Fylkesnavn", "Fylkesnr", "Kommunenavn"},
		{"Akershus", "32", "Bærum"},
	})
	writeSheet(t, cfg.Lookups.Contractors.Path, "Postnummerregister", [][]any{
		{"Fylke", "Kommunenummer", "Kommunenavn", "Postnummer", "Poststed", "Entreprenør"},
		{"Akershus", "3201", "Bærum", 1337, "SANDVIKA", "Fiberbygg AS"},
	})
	writeSheet(t, cfg.Lookups.Products.Path, "Produkter", [][]any{
		{"Produkt", "Produktkode", "Prioritering"},
		{"Komplett fortetning", "LVA1A", 1},
	})
	return cfg
}

func TestLoadTables_Workbook(t *testing.T) {
	cfg := workbookConfig(t)

	tables, err := pipeline.LoadTables(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	region, err := tables.Region("Bærum")
	require.NoError(t, err)
	assert.Equal(t, "Akershus", region)
}

func TestImportThenLoadTables_SQLite(t *testing.T) {
	// GIVEN: Workbooks imported into the store
	cfg := workbookConfig(t)
	rec, err := pipeline.ImportTables(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Products)

	// WHEN: Loading from the store, with the workbooks gone
	require.NoError(t, os.Remove(cfg.Lookups.Products.Path))
	cfg.Lookups.Source = config.SourceSQLite
	tables, err := pipeline.LoadTables(context.Background(), cfg, nil)
	require.NoError(t, err)

	// THEN: The tables answer as before
	contractor, err := tables.Contractor("1337")
	require.NoError(t, err)
	assert.Equal(t, "Fiberbygg AS", contractor)
}

func TestLoadTables_EmptyStoreIsFatal(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Lookups.Source = config.SourceSQLite
	cfg.Lookups.DatabasePath = filepath.Join(t.TempDir(), "empty.db")

	_, err := pipeline.LoadTables(context.Background(), cfg, nil)

	assert.True(t, woc.IsFatal(err))
}
