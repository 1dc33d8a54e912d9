package extract

import (
	"strings"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// Resource types, compared case-insensitively unless noted.
const (
	resourceCircuitID  = "circuitid"
	resourceCustomerID = "customerid"
	resourceLU         = "LU" // exact
)

// =============================================================================
// CIRCUIT REFERENCE (Sambandsnummer)
// =============================================================================

// CircuitRef is the primary circuit reference and every other resource the
// order carries, rendered "{type}: {id}" for the operator.
type CircuitRef struct {
	Number    string
	Auxiliary []string
}

// CircuitReference takes the first CircuitId with a non-empty resourceId,
// else the first CustomerId. DG and all other resource types are auxiliary
// and never become the reference. No reference at all is reported with the
// auxiliary list so the operator can pick one by hand.
func CircuitReference(o *woc.Order, item string, diags *woc.Diagnostics) CircuitRef {
	var ref CircuitRef
	var customerID string
	for _, sd := range o.ServiceDetails() {
		rt := strings.ToLower(sd.ResourceType.Trim())
		id := sd.ResourceID.Trim()
		switch rt {
		case resourceCircuitID:
			if ref.Number == "" && id != "" {
				ref.Number = id
			}
		case resourceCustomerID:
			if customerID == "" && id != "" {
				customerID = id
			}
		default:
			ref.Auxiliary = append(ref.Auxiliary, sd.ResourceType.Trim()+": "+id)
		}
	}
	if ref.Number == "" {
		ref.Number = customerID
	}
	if ref.Number == "" {
		diags.Infof(woc.KindMissingData, item, "Sambandsnummer",
			"no circuit reference; available: [%s]", strings.Join(ref.Auxiliary, ", "))
	}
	return ref
}

// FirstResource returns the resourceId of the first service detail whose
// resourceType equals rt exactly, and whether one was found.
func FirstResource(o *woc.Order, rt string) (string, bool) {
	for _, sd := range o.ServiceDetails() {
		if sd.ResourceType.String() == rt {
			return sd.ResourceID.Trim(), true
		}
	}
	return "", false
}

// LUNumber is the first "LU" resource.
func LUNumber(o *woc.Order) string {
	lu, _ := FirstResource(o, resourceLU)
	return lu
}

// SpiderNumber is the first dependent work order's id, "" without one.
func SpiderNumber(o *woc.Order) string {
	if len(o.DependentWorkOrders) == 0 {
		return ""
	}
	return o.DependentWorkOrders[0].WorkOrderID.Trim()
}

// ProductDescriptions lists the non-empty service-detail product descriptions.
func ProductDescriptions(o *woc.Order) []string {
	var out []string
	for _, sd := range o.ServiceDetails() {
		if d := sd.ProductDescription.String(); d != "" {
			out = append(out, d)
		}
	}
	return out
}
