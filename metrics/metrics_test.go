package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/metrics"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

func TestBatch(t *testing.T) {
	r := metrics.NewRegistry()

	r.Batch("monday", 5, 3, map[woc.SkipReason]int{woc.SkipStatus: 1, woc.SkipSupplierContact: 1}, time.Now())
	r.Batch("monday", 2, 2, nil, time.Now())

	assert.Equal(t, 7.0, testutil.ToFloat64(r.OrdersSeen.WithLabelValues("monday")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.Outputs.WithLabelValues("monday")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.OrdersSkipped.WithLabelValues("monday", "status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.OrdersSkipped.WithLabelValues("monday", "supplier_contact")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.BatchSeconds))
}

func TestObserve(t *testing.T) {
	r := metrics.NewRegistry()

	r.Observe([]woc.Diagnostic{
		{Kind: woc.KindLookupMiss, Field: "Fylke"},
		{Kind: woc.KindLookupMiss, Field: "Fylke"},
		{Kind: woc.KindUnresolved, Field: "Status Leveranse"},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Diagnostics.WithLabelValues("lookup_miss", "Fylke")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Diagnostics.WithLabelValues("unresolved", "Status Leveranse")))
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *metrics.Registry

	assert.NotPanics(t, func() {
		r.Batch("monday", 1, 1, nil, time.Now())
		r.Observe([]woc.Diagnostic{{Kind: woc.KindUnresolved}})
	})
}

func TestHandler(t *testing.T) {
	r := metrics.NewRegistry()
	r.Batch("workorders", 1, 1, nil, time.Now())

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `woc_orders_seen_total{pipeline="workorders"} 1`))
}
