package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/store/sqlite"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTables() *lookup.Tables {
	return lookup.NewTables(
		[]lookup.RegionRow{
			{Municipality: "Bærum", Region: "Akershus"},
			{Municipality: "bærum", Region: "Viken"},
		},
		[]lookup.ContractorRow{{PostalCode: "150", Contractor: "Rørlegger Oslo AS"}},
		[]lookup.Product{
			{Code: "LVK0", Name: "Eksperthjelp", Priority: decimal.RequireFromString("2.5"), Ranked: true, Row: 0},
			{Code: "LVK0", Name: "Eksperthjelp (ny)", Priority: decimal.RequireFromString("2.5"), Ranked: true, Row: 1},
			{Code: "DLS99", Name: "Diverse", Row: 2},
		},
	)
}

func TestImportThenLoad_PreservesLookupBehaviour(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	// GIVEN: Tables imported from workbooks
	require.NoError(t, store.Import(ctx, sampleTables(), "Datafiler"))

	// WHEN: Loading them back
	tables, err := store.Load(ctx)
	require.NoError(t, err)

	// THEN: First-row-wins, tie-breaks and padding survive the round trip
	region, err := tables.Region("BÆRUM")
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
	assert.True(t, woc.IsNotFound(err))
	name, err := tables.Describe("DLS99")
	require.NoError(t, err)
	assert.Equal(t, "Diverse", name)
}

func TestImport_ReplacesPreviousTables(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.Import(ctx, sampleTables(), "first"))
	require.NoError(t, store.Import(ctx, lookup.NewTables(
		[]lookup.RegionRow{{Municipality: "Oslo", Region: "Oslo"}}, nil, nil,
	), "second"))

	tables, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"regions": 1, "contractors": 0, "products": 0}, tables.Counts())

	_, err = tables.Region("Bærum")
	assert.True(t, woc.IsNotFound(err))

	rec, err := store.LastImport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", rec.Source)
	assert.Equal(t, 1, rec.Regions)
	assert.False(t, rec.ImportedAt.IsZero())
}

func TestLoad_NeverImportedIsFatal(t *testing.T) {
	_, err := newStore(t).Load(context.Background())

	require.Error(t, err)
	assert.True(t, woc.IsFatal(err))
}
