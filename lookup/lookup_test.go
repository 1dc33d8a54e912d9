package lookup_test

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

func ranked(code, name string, prio int64, row int) lookup.Product {
	return lookup.Product{Code: code, Name: name, Priority: decimal.NewFromInt(prio), Ranked: true, Row: row}
}

func testTables() *lookup.Tables {
	return lookup.NewTables(
		[]lookup.RegionRow{
			{Municipality: "Oslo", Region: "Oslo"},
			{Municipality: "Bærum", Region: "Akershus"},
			{Municipality: "bærum", Region: "Viken"},
		},
		[]lookup.ContractorRow{
			{PostalCode: "0150", Contractor: "Rørlegger Oslo AS"},
			{PostalCode: "1337", Contractor: "Fiberbygg AS"},
		},
		[]lookup.Product{
			ranked("LVA1A", "Komplett fortetning", 1, 0),
			ranked("LVK0", "Eksperthjelp", 3, 1),
			ranked("LVT1C", "Leveranse timer", 3, 2),
			ranked("LVK0", "Eksperthjelp (gammel)", 2, 3),
			{Code: "DLS99", Name: "Diverse", Row: 4},
		},
	)
}

// =============================================================================
// REGIONS
// =============================================================================

func TestRegion_CaseInsensitiveTrimmed(t *testing.T) {
	tables := testTables()

	got, err := tables.Region("  OSLO ")
	require.NoError(t, err)
	assert.Equal(t, "Oslo", got)
}

func TestRegion_FirstRowWins(t *testing.T) {
	got, err := testTables().Region("BÆRUM")
	require.NoError(t, err)
	assert.Equal(t, "Akershus", got)
}

func TestRegion_MissIsNotFound(t *testing.T) {
	_, err := testTables().Region("Atlantis")

	require.Error(t, err)
	assert.True(t, woc.IsNotFound(err))
	var miss *woc.LookupMissError
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, lookup.TableRegions, miss.Table)
	assert.Equal(t, "Atlantis", miss.Key)
}

// =============================================================================
// CONTRACTORS
// =============================================================================

func TestContractor_RestoresLeadingZeros(t *testing.T) {
	got, err := testTables().Contractor("150")
	require.NoError(t, err)
	assert.Equal(t, "Rørlegger Oslo AS", got)
}

func TestContractor_Miss(t *testing.T) {
	_, err := testTables().Contractor("9999")
	assert.True(t, woc.IsNotFound(err))
}

func TestNormalizePostalCode(t *testing.T) {
	tests := map[string]string{
		"":      "",
		" 301 ": "0301",
		"1":     "0001",
		"1337":  "1337",
		"12345": "12345",
		"N-12":  "N-12",
	}
	for in, want := range tests {
		assert.Equal(t, want, lookup.NormalizePostalCode(in), "input %q", in)
	}
}

func TestContractorTableKeysAreNormalizedToo(t *testing.T) {
	tables := lookup.NewTables(nil, []lookup.ContractorRow{{PostalCode: "301", Contractor: "X"}}, nil)

	got, err := tables.Contractor("0301")
	require.NoError(t, err)
	assert.Equal(t, "X", got)
}

// =============================================================================
// PRODUCTS
// =============================================================================

func TestProduct_DuplicateCodeKeepsBestRanked(t *testing.T) {
	p, err := testTables().Product("LVK0")
	require.NoError(t, err)
	assert.Equal(t, "Eksperthjelp (gammel)", p.Name)
	assert.True(t, p.Priority.Equal(decimal.NewFromInt(2)))
}

func TestProduct_ExactMatchOnly(t *testing.T) {
	_, err := testTables().Product("lva1a")
	assert.True(t, woc.IsNotFound(err))
}

func TestProduct_UnrankedRowIsNotSelectable(t *testing.T) {
	_, err := testTables().Product("DLS99")
	assert.True(t, woc.IsNotFound(err))

	name, err := testTables().Describe("dls99")
	require.NoError(t, err)
	assert.Equal(t, "Diverse", name)
}

func TestDescribe_CaseInsensitiveFirstRow(t *testing.T) {
	name, err := testTables().Describe("lvk0")
	require.NoError(t, err)
	assert.Equal(t, "Eksperthjelp", name)
}

func TestProductOutranks(t *testing.T) {
	a := ranked("A", "a", 3, 0)
	b := ranked("B", "b", 3, 1)
	c := ranked("C", "c", 1, 9)

	assert.True(t, a.Outranks(b), "equal rank: earlier row wins")
	assert.False(t, b.Outranks(a))
	assert.True(t, c.Outranks(a), "lower rank wins")
	assert.Equal(t, "A: a", a.Label())
}

func TestEmptyTablesMissEverything(t *testing.T) {
	tables := lookup.Empty()

	_, err := tables.Region("Oslo")
	assert.True(t, woc.IsNotFound(err))
	_, err = tables.Contractor("0150")
	assert.True(t, woc.IsNotFound(err))
	_, err = tables.Describe("LVA1A")
	assert.True(t, woc.IsNotFound(err))
	assert.Equal(t, map[string]int{"regions": 0, "contractors": 0, "products": 0}, tables.Counts())
}

// =============================================================================
// WORKBOOKS
// =============================================================================

func writeSheet(t *testing.T, dir, file, sheet string, rows [][]any) lookup.Sheet {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	} else {
		sheet = "Sheet1"
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	path := filepath.Join(dir, file)
	require.NoError(t, f.SaveAs(path))
	return lookup.Sheet{Path: path, Name: sheet}
}

func testWorkbooks(t *testing.T) lookup.Workbooks {
	dir := t.TempDir()
	return lookup.Workbooks{
		Regions: writeSheet(t, dir, "Kommune_Fylke_Oversikt.xlsx", "Ark1", [][]any{
			{"Fylkesnavn", "Fylkesnr", "Kommunenavn", "Kommunenr", "Kommunenr_2023"},
			{"Oslo", "03", "Oslo", "0301", "0301"},
			{"Akershus", "32", "Bærum", "3201", "3201"},
		}),
		Contractors: writeSheet(t, dir, "Fordeling_Entreprenor.xlsx", "Postnummerregister", [][]any{
			{"Fylke", "Kommunenummer", "Kommunenavn", "Postnummer", "Poststed", "Entreprenør"},
			{"Oslo", "0301", "Oslo", 150, "OSLO", "Rørlegger Oslo AS"},
		}),
		Products: writeSheet(t, dir, "WOC_Prioritering_Produktkategorier.xlsx", "", [][]any{
			{"Produkt", "Produktkode", "Prioritering"},
			{"Komplett fortetning", "LVA1A", 1},
			{"Diverse", "DLS99", "n/a"},
			{"Eksperthjelp", "LVK0", 2.5},
		}),
	}
}

func TestLoadWorkbooks(t *testing.T) {
	// GIVEN: The three operations workbooks
	wb := testWorkbooks(t)

	// WHEN: Loading them
	tables, err := lookup.LoadWorkbooks(wb)
	require.NoError(t, err)

	// THEN: Every table answers lookups
	region, err := tables.Region("bærum")
	require.NoError(t, err)
	assert.Equal(t, "Akershus", region)

	contractor, err := tables.Contractor("0150")
	require.NoError(t, err)
	assert.Equal(t, "Rørlegger Oslo AS", contractor)

	p, err := tables.Product("LVK0")
	require.NoError(t, err)
	assert.Equal(t, "Eksperthjelp", p.Name)
	assert.True(t, p.Priority.Equal(decimal.RequireFromString("2.5")))

	_, err = tables.Product("DLS99")
	assert.True(t, woc.IsNotFound(err), "non-numeric priority is unranked")

	assert.Equal(t, map[string]int{"regions": 2, "contractors": 1, "products": 3}, tables.Counts())
}

func TestLoadWorkbooks_MissingFileIsFatal(t *testing.T) {
	wb := testWorkbooks(t)
	wb.Contractors.Path = filepath.Join(t.TempDir(), "missing.xlsx")

	_, err := lookup.LoadWorkbooks(wb)

	require.Error(t, err)
	assert.True(t, woc.IsFatal(err))
}

func TestLoadWorkbooks_MissingProductColumnIsFatal(t *testing.T) {
	wb := testWorkbooks(t)
	wb.Products = writeSheet(t, t.TempDir(), "p.xlsx", "", [][]any{
		{"Produktkode", "Produkt"},
		{"LVA1A", "Komplett fortetning"},
	})

	_, err := lookup.LoadWorkbooks(wb)

	require.Error(t, err)
	assert.True(t, woc.IsFatal(err))
	assert.Contains(t, err.Error(), "Prioritering")
}

func TestLoadWorkbooks_UnknownSheetIsFatal(t *testing.T) {
	wb := testWorkbooks(t)
	wb.Regions.Name = "Nope"

	_, err := lookup.LoadWorkbooks(wb)
	assert.True(t, woc.IsFatal(err))
}
