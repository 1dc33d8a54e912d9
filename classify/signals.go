package classify

import (
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/extract"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// SignalsFor extracts everything the rules read from one order. An order
// without any product leaves PriorityProduct blank and records why.
func SignalsFor(o *woc.Order, products lookup.Products, diags *woc.Diagnostics) Signals {
	item := extract.ItemName(o)
	ids := extract.ProductIDs(o)

	priority, err := extract.HighestPriorityProduct(ids, extract.WOCTypeOfAssignment(o), products, item, diags)
	if err != nil {
		diags.Record(item, "Hovedprodukt", err)
	}

	return Signals{
		Item:             item,
		CustomerCategory: o.CustomerCategory(),
		ContractDetail:   o.ContractDetail(),
		OrderDescription: o.OrderDescription(),
		AreaOfSubject:    o.AreaOfSubject.String(),
		ProductIDs:       ids,
		SpiderNumber:     extract.SpiderNumber(o),
		VULA:             extract.VULAReferences(o, item, diags),
		PriorityProduct:  priority,
	}
}

// ClassifyOrder is SignalsFor followed by Classify.
func ClassifyOrder(o *woc.Order, products lookup.Products, diags *woc.Diagnostics) (Signals, Result) {
	sig := SignalsFor(o, products, diags)
	return sig, Classify(sig, diags)
}
