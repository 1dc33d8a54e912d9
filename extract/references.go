package extract

import (
	"strings"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// VULA marker tokens in externalOrderReferences[].referenceNumber.
const (
	MarkerVULA    = "VULA"
	MarkerVULACDK = "VULA CDK"
)

// VULAReferences collects every reference number that is, or contains,
// a VULA marker. An export that sent a single reference object instead of
// a list contributes its number unchecked and flags the order for review.
func VULAReferences(o *woc.Order, item string, diags *woc.Diagnostics) []string {
	refs := o.ExternalReferences
	if refs.Singular {
		diags.Warnf(woc.KindNeedsReview, item, "VULA ?", "single external reference, check whether the order is VULA")
		var out []string
		for _, r := range refs.Items {
			if n := r.ReferenceNumber.String(); n != "" {
				out = append(out, n)
			}
		}
		return out
	}

	var out []string
	for _, r := range refs.Items {
		if n := r.ReferenceNumber.String(); IsVULAMarker(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsVULAMarker covers both exact tokens and any number containing "VULA".
func IsVULAMarker(ref string) bool {
	return ref == MarkerVULA || ref == MarkerVULACDK || strings.Contains(ref, MarkerVULA)
}
