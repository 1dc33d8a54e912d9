package extract

import (
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// ProductIDs lists every non-empty orderlines[].contractorProductId in line order.
func ProductIDs(o *woc.Order) []string {
	var ids []string
	for _, l := range o.OrderLines {
		if id := l.ContractorProductID.String(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// WOCTypeOfAssignment lists the descriptions of the main-product order lines.
func WOCTypeOfAssignment(o *woc.Order) []string {
	var types []string
	for _, l := range o.OrderLines {
		if d := l.Description.String(); d != "" && l.IsMainProduct {
			types = append(types, d)
		}
	}
	return types
}

// HighestPriorityProduct picks the best-ranked candidate from the product
// table and renders it "CODE: Name". When no candidate is in the table it
// falls back to the first WOC type of assignment, then to the first raw
// product id. With neither, the field is unresolved.
func HighestPriorityProduct(ids, wocTypes []string, products lookup.Products, item string, diags *woc.Diagnostics) (string, error) {
	var (
		best  lookup.Product
		found bool
	)
	for _, id := range ids {
		p, err := products.Product(id)
		if err != nil {
			continue
		}
		if !found || p.Outranks(best) {
			best, found = p, true
		}
	}
	if found {
		return best.Label(), nil
	}

	switch {
	case len(wocTypes) > 0:
		diags.Infof(woc.KindLookupMiss, item, "Hovedprodukt", "no ranked product in %v, using %q", ids, wocTypes[0])
		return wocTypes[0], nil
	case len(ids) > 0:
		diags.Infof(woc.KindLookupMiss, item, "Hovedprodukt", "no ranked product in %v, using %q", ids, ids[0])
		return ids[0], nil
	}
	return "", &woc.ClassificationError{
		Item:   item,
		Field:  "Hovedprodukt",
		Reason: "no order lines with a product id",
	}
}

// ProductName resolves the display name of an order line: its own
// description, else the product table's name for its id.
func ProductName(line woc.OrderLine, products lookup.Products, item string, diags *woc.Diagnostics) string {
	if d := line.Description.String(); d != "" {
		return d
	}
	name, err := products.Describe(line.ContractorProductID.String())
	if err != nil {
		diags.Record(item, "ProductName", err)
		return ""
	}
	return name
}
