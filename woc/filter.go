package woc

import (
	"encoding/json"
	"io"
	"strings"
)

// =============================================================================
// INCLUSION FILTER
// =============================================================================

// Allow-lists of wocOrderStatus values, compared case-insensitively.
var (
	MondayStatuses    = []string{"accepted", "received"}
	WorkOrderStatuses = []string{"accepted", "received", "appointed"}
)

// SkipReason explains why an order was left out of a batch.
type SkipReason string

const (
	SkipNone            SkipReason = ""
	SkipSupplierContact SkipReason = "supplier_contact"
	SkipStatus          SkipReason = "status"
)

// Filter decides once per order, before extraction, whether it is included.
type Filter struct {
	statuses map[string]bool
}

func NewFilter(statuses []string) Filter {
	f := Filter{statuses: make(map[string]bool, len(statuses))}
	for _, s := range statuses {
		f.statuses[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return f
}

// Check returns SkipNone for an included order. An order with supplier
// contact persons is already handled by a contractor and is always left out.
func (f Filter) Check(o *Order) SkipReason {
	if len(o.Supplier.Contacts()) > 0 {
		return SkipSupplierContact
	}
	if !f.statuses[strings.ToLower(o.WocOrderStatus.Trim())] {
		return SkipStatus
	}
	return SkipNone
}

func (f Filter) Includes(o *Order) bool { return f.Check(o) == SkipNone }

// =============================================================================
// DECODING
// =============================================================================

// ParseOrders decodes a WOC export: a JSON array of orders. Malformed input
// is a setup error.
func ParseOrders(r io.Reader) ([]Order, error) {
	var orders []Order
	if err := json.NewDecoder(r).Decode(&orders); err != nil {
		return nil, Setup("decode orders", "", err)
	}
	return orders, nil
}
