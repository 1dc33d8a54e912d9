package monday_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/calendar"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/classify"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/monday"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

const consumerOrder = `{
	"workOrderId": {"referenceName": "WO", "referenceNumber": "1001"},
	"clientOrderId": {"referenceName": "CO", "referenceNumber": "555123"},
	"title": "Fiber installasjon",
	"orderType": "Installation",
	"areaOfSubject": "GPON",
	"detailedAreaOfSubject": "FTTH",
	"wocOrderStatus": "Received",
	"issuedDate": "2025-12-24T07:42:32.347Z",
	"modifiedDate": "2026-01-02T10:00:00Z",
	"supplier": {"contactPersons": []},
	"buyer": {"companyName": "Telenor", "contactPersons": [{"firstName": "Buyer"}]},
	"contract": {"detailedPurchaseArea": "FTTH"},
	"deliveryPeriod": {"startDate": "2026-01-05T00:00:00+01:00", "endDate": "2026-02-01T00:00:00+01:00"},
	"workOrderAddress": [{
		"streetAddress": {"streetName": "Kirkeveien", "houseNumber": 12, "houseChar": "B",
			"city": "Sandvika", "postalCode": "1337", "municipalityName": "Bærum"},
		"coordinates": {"system": "EUREF89", "x": 598123.4, "y": 6643210.1}
	}],
	"detailedOrderInformation": {
		"user1": {"fullName": "Ola Nordmann", "contactPersons": [{"firstName": "Ola", "familyName": "Nordmann", "phone1": "99887766"}]},
		"customerCategory": "Privat",
		"orderDescription": "Ny fiber",
		"serviceDetails": [
			{"resourceType": "CircuitId", "resourceId": "S-1", "productDescription": "Fiber 500"},
			{"resourceType": "LU", "resourceId": "LU-9"}
		]
	},
	"orderlines": [
		{"lineNumber": 1, "contractorProductId": "LVA1A", "description": "Komplett", "isMainProduct": true},
		{"lineNumber": 2, "contractorProductId": "LVT1C"}
	],
	"externalOrderReferences": [{"referenceName": "x", "referenceNumber": "ABC"}],
	"activityLog": [
		{"action": "AcceptWorkOrder", "changed": "2025-12-27T10:00:00.000Z"},
		{"action": "AcceptWorkOrder", "changed": "2025-12-29T08:00:00.000Z"}
	]
}`

func tables() *lookup.Tables {
	return lookup.NewTables(
		[]lookup.RegionRow{{Municipality: "Bærum", Region: "Akershus"}},
		[]lookup.ContractorRow{{PostalCode: "1337", Contractor: "Fiberbygg AS"}},
		[]lookup.Product{
			{Code: "LVT1C", Name: "Leveranse timer", Priority: decimal.NewFromInt(4), Ranked: true, Row: 0},
			{Code: "LVA1A", Name: "Komplett fortetning", Priority: decimal.NewFromInt(1), Ranked: true, Row: 1},
		},
	)
}

func parse(t *testing.T, raw string) *woc.Order {
	t.Helper()
	var o woc.Order
	require.NoError(t, json.Unmarshal([]byte(raw), &o))
	return &o
}

func TestColumnsMatchRowFields(t *testing.T) {
	assert.Len(t, monday.Columns, 40)
	assert.Equal(t, len(monday.Columns), reflect.TypeOf(monday.Row{}).NumField())
	assert.Len(t, monday.Row{}.Values(), len(monday.Columns))

	rt := reflect.TypeOf(monday.Row{})
	for i, col := range monday.Columns {
		assert.Equal(t, col, rt.Field(i).Tag.Get("json"), "field %d", i)
	}
}

func TestAssemble_ConsumerOrder(t *testing.T) {
	// GIVEN: An included consumer order issued on Christmas Eve
	a := monday.NewAssembler(tables(), calendar.Norwegian{})
	diags := woc.NewDiagnostics()

	// WHEN: Assembling its row
	got, err := a.Assemble(parse(t, consumerOrder), diags)
	require.NoError(t, err)

	// THEN: Every column is filled as the board expects
	want := monday.Row{
		Item:                  "Ola Nordmann",
		Address:               "Kirkeveien 12B, Sandvika, Norge",
		Municipality:          "Bærum",
		Region:                "Akershus",
		Customer:              "Ola Nordmann",
		Phone:                 "99887766",
		IssuedDate:            "2025-12-24",
		BookBy:                "2026-01-05",
		OrderDate:             "2025-12-29",
		Contractor:            "Fiberbygg AS",
		RegionStatus:          "Akershus",
		EarliestStart:         "2026-01-05",
		DeliveryDate:          "2026-02-01",
		OrderNumber:           "555123",
		CircuitRef:            "S-1",
		Connector:             "WOC",
		DeliveryStatus:        "NY FTTH",
		ContractDetail:        "FTTH",
		FiberType:             "FTTH Fortetning",
		Segment:               "privat",
		NetworkType:           "FTTH",
		AreaOfSubject:         "GPON",
		DetailedAreaOfSubject: "FTTH",
		AssignmentType:        "Komplett fortetning",
		WOCAssignmentTypes:    "Komplett",
		LUNumber:              "LU-9",
		LastTransactionDate:   "2026-01-02",
		MainProduct:           "LVA1A: Komplett fortetning",
		ProductIDs:            "LVA1A, LVT1C",
		ProductDescriptions:   "Fiber 500",
		CoordSystem:           "EUREF89",
		X:                     "598123.4",
		Y:                     "6643210.1",
		OrderDescription:      "Ny fiber",
		CustomerCategory:      "Privat",
	}
	if diff := cmp.Diff(want, got.Row); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, classify.SegmentConsumer, got.Classification.Segment)
	assert.Empty(t, diags.FlaggedItems())
}

func TestAssemble_Idempotent(t *testing.T) {
	a := monday.NewAssembler(tables(), calendar.Norwegian{})
	o := parse(t, consumerOrder)

	first, err := a.Assemble(o, nil)
	require.NoError(t, err)
	second, err := a.Assemble(o, nil)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestAssemble_MissingIssuedDateIsFatal(t *testing.T) {
	a := monday.NewAssembler(tables(), calendar.Norwegian{})

	_, err := a.Assemble(parse(t, `{"wocOrderStatus":"accepted"}`), nil)

	assert.True(t, woc.IsFatal(err))
}

func TestAssemble_SparseOrderStillProducesRow(t *testing.T) {
	// GIVEN: An order with almost nothing but an issued date
	a := monday.NewAssembler(lookup.Empty(), calendar.Norwegian{})
	diags := woc.NewDiagnostics()

	// WHEN: Assembling
	got, err := a.Assemble(parse(t, `{"issuedDate":"2025-03-03","connectionPoint":{"id":"7","fullName":"Node"}}`), diags)

	// THEN: Placeholders and blanks, plus a flagged item
	require.NoError(t, err)
	assert.Equal(t, "Node-7-", got.Row.Item)
	assert.Equal(t, "Ukjent", got.Row.Customer)
	assert.Equal(t, "2025-03-10", got.Row.BookBy)
	assert.Equal(t, "2025-03-03", got.Row.OrderDate)
	assert.Equal(t, "denne må sjekkes", got.Row.Segment)
	assert.Empty(t, got.Row.DeliveryStatus)
	assert.Equal(t, []string{"Node-7-"}, diags.FlaggedItems())
}

// =============================================================================
// SPLIT AND WORKBOOK
// =============================================================================

func TestSplit(t *testing.T) {
	rows := []monday.Row{
		{Item: "a", Segment: "bedrift"},
		{Item: "b", Segment: "privat"},
		{Item: "c", Segment: "denne må sjekkes"},
		{Item: "d", Segment: "privat"},
	}

	business, consumer := monday.Split(rows)

	assert.Equal(t, []monday.Row{rows[0]}, business)
	assert.Equal(t, []monday.Row{rows[1], rows[3]}, consumer)
}

func TestWorkbook_RoundTrip(t *testing.T) {
	a := monday.NewAssembler(tables(), calendar.Norwegian{})
	got, err := a.Assemble(parse(t, consumerOrder), nil)
	require.NoError(t, err)
	rows := []monday.Row{got.Row, {Item: "b", Segment: "bedrift"}}

	dir := t.TempDir()
	files := monday.Files{
		Combined: filepath.Join(dir, monday.CombinedFile),
		Business: filepath.Join(dir, monday.BusinessFile),
		Consumer: filepath.Join(dir, monday.ConsumerFile),
	}
	require.NoError(t, monday.SaveImports(files, rows))

	combined, err := monday.ReadWorkbook(files.Combined)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(rows, combined))

	business, err := monday.ReadWorkbook(files.Business)
	require.NoError(t, err)
	require.Len(t, business, 1)
	assert.Equal(t, "b", business[0].Item)

	consumer, err := monday.ReadWorkbook(files.Consumer)
	require.NoError(t, err)
	require.Len(t, consumer, 1)
	assert.Equal(t, "Ola Nordmann", consumer[0].Item)
}

func TestWriteWorkbook_HeaderOnData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, monday.WriteWorkbook(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Data"}, f.GetSheetList())
	rows, err := f.GetRows("Data")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, monday.Columns, rows[0])
}
