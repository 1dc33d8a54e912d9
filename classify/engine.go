package classify

import (
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// Field names used in diagnostics; they match the board's column headers.
const (
	FieldSegment        = "Kunde Kategori"
	FieldDeliveryStatus = "Status Leveranse"
	FieldFiberType      = "Type FTTx"
	FieldNetworkType    = "GPON/P2P"
	FieldAssignmentType = "Type oppdrag"
)

// Step records which rule decided a stage.
type Step struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Result is a Classification plus the rule trace that produced it.
type Result struct {
	Classification
	Trace []Step `json:"trace,omitempty"`
}

// Classify runs all five stages in order.
func Classify(sig Signals, diags *woc.Diagnostics) Result {
	e := engine{st: state{Signals: sig}, diags: diags}
	e.st.Segment = e.segment()
	e.st.DeliveryStatus = e.deliveryStatus()
	e.st.FiberType = e.fiberType()
	e.st.NetworkType = e.networkType()
	e.st.AssignmentType = e.assignmentType()
	return Result{Classification: e.st.Classification, Trace: e.trace}
}

// DetermineSegment is stage 1 on its own.
func DetermineSegment(sig Signals, diags *woc.Diagnostics) Segment {
	e := engine{st: state{Signals: sig}, diags: diags}
	return e.segment()
}

// DetermineDeliveryStatus is stage 2 for a known segment.
func DetermineDeliveryStatus(sig Signals, seg Segment, diags *woc.Diagnostics) DeliveryStatus {
	e := engine{st: state{Signals: sig}, diags: diags}
	e.st.Segment = seg
	return e.deliveryStatus()
}

// DetermineFiberType is stage 3 for a known segment and delivery status.
func DetermineFiberType(sig Signals, seg Segment, ds DeliveryStatus, diags *woc.Diagnostics) FiberType {
	e := engine{st: state{Signals: sig}, diags: diags}
	e.st.Segment, e.st.DeliveryStatus = seg, ds
	return e.fiberType()
}

// DetermineNetworkType is stage 4 for a known delivery status.
func DetermineNetworkType(sig Signals, ds DeliveryStatus, diags *woc.Diagnostics) NetworkType {
	e := engine{st: state{Signals: sig}, diags: diags}
	e.st.DeliveryStatus = ds
	return e.networkType()
}

// DetermineAssignmentType is stage 5; it does not depend on the segment.
func DetermineAssignmentType(sig Signals, diags *woc.Diagnostics) AssignmentType {
	e := engine{st: state{Signals: sig}, diags: diags}
	return e.assignmentType()
}

// =============================================================================
// ENGINE
// =============================================================================

type engine struct {
	st    state
	diags *woc.Diagnostics
	trace []Step
}

func (e *engine) matched(field, name string) {
	e.trace = append(e.trace, Step{Field: field, Rule: name})
}

func (e *engine) unresolved(field, reason string) {
	e.diags.Record(e.st.Item, field, &woc.ClassificationError{Item: e.st.Item, Field: field, Reason: reason})
}

func (e *engine) segment() Segment {
	if seg, name, ok := segmentRules.first(&e.st); ok {
		e.matched(FieldSegment, name)
		return seg
	}
	e.diags.Warnf(woc.KindNeedsReview, e.st.Item, FieldSegment, "cannot tell business from consumer, check manually")
	return SegmentNeedsReview
}

func (e *engine) deliveryStatus() DeliveryStatus {
	var rules ruleList[DeliveryStatus]
	switch e.st.Segment {
	case SegmentBusiness:
		rules = businessDeliveryRules
	case SegmentConsumer:
		rules = consumerDeliveryRules
	default:
		e.unresolved(FieldDeliveryStatus, "segment needs review")
		return DeliveryUnresolved
	}
	if ds, name, ok := rules.first(&e.st); ok {
		e.matched(FieldDeliveryStatus, name)
		return ds
	}
	e.unresolved(FieldDeliveryStatus, "no business delivery rule matched")
	return DeliveryUnresolved
}

func (e *engine) fiberType() FiberType {
	switch e.st.Segment {
	case SegmentBusiness:
		if ft, name, ok := businessFiberRules.first(&e.st); ok {
			e.matched(FieldFiberType, name)
			return ft
		}
		e.unresolved(FieldFiberType, "no business fiber rule matched")
		return FiberUnresolved
	case SegmentConsumer:
		if ft, name, ok := consumerFiberRules.first(&e.st); ok {
			e.matched(FieldFiberType, name)
			return ft
		}
		// Consumer orders default to infill until MDU/SDU splits exist.
		e.diags.Warnf(woc.KindMissingData, e.st.Item, FieldFiberType, "no consumer fiber rule matched, defaulting to %s", FiberFTTHFortetning)
		e.matched(FieldFiberType, "default")
		return FiberFTTHFortetning
	}
	e.unresolved(FieldFiberType, "segment needs review")
	return FiberUnresolved
}

func (e *engine) networkType() NetworkType {
	if nt, name, ok := networkRules.first(&e.st); ok {
		e.matched(FieldNetworkType, name)
		return nt
	}
	e.unresolved(FieldNetworkType, "no network rule matched")
	return NetworkUnresolved
}

func (e *engine) assignmentType() AssignmentType {
	if at, name, ok := assignmentRules.first(&e.st); ok {
		e.matched(FieldAssignmentType, name)
		return at
	}
	e.unresolved(FieldAssignmentType, "no assignment rule matched")
	return AssignmentUnresolved
}
