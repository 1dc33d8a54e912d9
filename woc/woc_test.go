package woc_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

func parseOne(t *testing.T, js string) woc.Order {
	t.Helper()
	orders, err := woc.ParseOrders(strings.NewReader("[" + js + "]"))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	return orders[0]
}

// =============================================================================
// DECODING
// =============================================================================

func TestParseOrders_LenientScalars(t *testing.T) {
	// GIVEN: house number as a number, postal code as a string, null city
	o := parseOne(t, `{
		"workOrderAddress": [{"streetAddress": {"streetName": "Storgata", "houseNumber": 12, "postalCode": "0301", "city": null}}],
		"wocOrderStatus": "Received"
	}`)

	addr := o.FirstAddress()
	require.NotNil(t, addr)
	assert.Equal(t, woc.Text("12"), addr.StreetAddress.HouseNumber)
	assert.Equal(t, woc.Text("0301"), addr.StreetAddress.PostalCode)
	assert.True(t, addr.StreetAddress.City.IsEmpty())
}

func TestParseOrders_NullAndAbsentAreIdentical(t *testing.T) {
	withNull := parseOne(t, `{"detailedOrderInformation": null, "orderlines": null, "buyer": null}`)
	absent := parseOne(t, `{}`)

	assert.Equal(t, absent, withNull)
	assert.Nil(t, withNull.User1())
	assert.Empty(t, withNull.ServiceDetails())
	assert.Equal(t, "", withNull.CustomerCategory())
}

func TestParseOrders_EmptyObjectsReportEmpty(t *testing.T) {
	o := parseOne(t, `{
		"detailedOrderInformation": {"user1": {}},
		"workOrderAddress": [{"streetAddress": {}, "cadastralUnit": {"cadastralUnitNumber": 7}}],
		"customerAppointment": {}
	}`)

	assert.True(t, o.User1().Empty())
	assert.True(t, o.FirstAddress().StreetAddress.Empty())
	assert.False(t, o.FirstAddress().CadastralUnit.Empty())
	assert.True(t, o.CustomerAppointment.Empty())
}

func TestParseOrders_ISPAsEmptyList(t *testing.T) {
	o := parseOne(t, `{"detailedOrderInformation": {"isp": []}}`)
	assert.Equal(t, woc.Named{}, o.Details.ISP)

	o = parseOne(t, `{"detailedOrderInformation": {"isp": {"fullName": "Telenor"}}}`)
	assert.Equal(t, woc.Text("Telenor"), o.Details.ISP.FullName)
}

func TestParseOrders_SingularExternalReference(t *testing.T) {
	o := parseOne(t, `{"externalOrderReferences": {"referenceName": "X", "referenceNumber": "VULA"}}`)

	assert.True(t, o.ExternalReferences.Singular)
	require.Len(t, o.ExternalReferences.Items, 1)
	assert.Equal(t, woc.Text("VULA"), o.ExternalReferences.Items[0].ReferenceNumber)
}

func TestParseOrders_QuantityKeepsDecimalText(t *testing.T) {
	o := parseOne(t, `{"orderlines": [{"lineNumber": 1, "quantity": 1.5}, {"lineNumber": 2}]}`)

	require.Len(t, o.OrderLines, 2)
	assert.True(t, o.OrderLines[0].Quantity.Valid)
	assert.Equal(t, "1.5", o.OrderLines[0].Quantity.Decimal.String())
	assert.False(t, o.OrderLines[1].Quantity.Valid)
}

func TestParseOrders_MalformedIsFatal(t *testing.T) {
	_, err := woc.ParseOrders(strings.NewReader(`{"not": "an array"`))

	require.Error(t, err)
	assert.True(t, woc.IsFatal(err))
}

// =============================================================================
// INCLUSION FILTER
// =============================================================================

func TestFilter_SupplierContactsExcludeEvenWhenAccepted(t *testing.T) {
	o := parseOne(t, `{
		"wocOrderStatus": "accepted",
		"supplier": {"contactPersons": [{"firstName": "Kari"}]}
	}`)

	f := woc.NewFilter(woc.MondayStatuses)
	assert.Equal(t, woc.SkipSupplierContact, f.Check(&o))
}

func TestFilter_StatusAllowList(t *testing.T) {
	tests := []struct {
		status    string
		monday    bool
		workOrder bool
	}{
		{"Received", true, true},
		{"ACCEPTED", true, true},
		{"Appointed", false, true},
		{"Rejected", false, false},
		{"", false, false},
	}

	monday := woc.NewFilter(woc.MondayStatuses)
	pdf := woc.NewFilter(woc.WorkOrderStatuses)
	for _, tt := range tests {
		o := woc.Order{WocOrderStatus: woc.Text(tt.status)}
		assert.Equal(t, tt.monday, monday.Includes(&o), "monday %q", tt.status)
		assert.Equal(t, tt.workOrder, pdf.Includes(&o), "workorder %q", tt.status)
	}
}

// =============================================================================
// ERRORS AND DIAGNOSTICS
// =============================================================================

func TestErrors_Unwrap(t *testing.T) {
	miss := &woc.LookupMissError{Table: "regions", Key: "Oslo"}
	assert.True(t, woc.IsNotFound(miss))
	assert.False(t, woc.IsFatal(miss))

	cls := &woc.ClassificationError{Item: "x", Field: "priority_product", Reason: "no candidates"}
	assert.True(t, woc.IsUnresolved(cls))

	cause := errors.New("boom")
	setup := woc.Setup("open", "orders.json", cause)
	assert.True(t, woc.IsFatal(setup))
	assert.ErrorIs(t, setup, cause)
	assert.Equal(t, "open orders.json: boom", setup.Error())
}

func TestDiagnostics_RecordAndFlag(t *testing.T) {
	d := woc.NewDiagnostics()
	d.Record("item-b", "region", &woc.LookupMissError{Table: "regions", Key: "Atlantis"})
	d.Record("item-a", "status_leveranse", &woc.ClassificationError{Item: "item-a", Field: "status_leveranse"})
	d.Warnf(woc.KindNeedsReview, "item-c", "segment", "check business or consumer")
	d.Record("item-d", "x", nil)

	require.Equal(t, 3, d.Len())
	assert.Equal(t, woc.KindLookupMiss, d.Entries()[0].Kind)
	assert.Equal(t, []string{"item-a", "item-c"}, d.FlaggedItems())
}

func TestDiagnostics_NilSinkDiscards(t *testing.T) {
	var d *woc.Diagnostics
	d.Warnf(woc.KindMissingData, "item", "", "ignored")

	assert.Equal(t, 0, d.Len())
	assert.Nil(t, d.Entries())
}
