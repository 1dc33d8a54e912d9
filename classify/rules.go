package classify

import (
	"slices"
	"strings"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/extract"
)

// =============================================================================
// GUARD LISTS
// =============================================================================

// state is what a rule sees: the order's signals plus the stages decided
// so far.
type state struct {
	Signals
	Classification
}

// rule maps a guard to an outcome. Name identifies the rule in tests and
// diagnostics.
type rule[T any] struct {
	Name string
	When func(s *state) bool
	Then T
}

type ruleList[T any] []rule[T]

// first returns the outcome of the first rule whose guard holds.
func (rl ruleList[T]) first(s *state) (T, string, bool) {
	for _, r := range rl {
		if r.When(s) {
			return r.Then, r.Name, true
		}
	}
	var zero T
	return zero, "", false
}

// =============================================================================
// SIGNAL PREDICATES
// =============================================================================

const (
	orderDescriptionBBAccess = "BB_ACCESS"
	contractFTTB             = "FTTB"
	contractAEG              = "AEG"
	areaHelios               = "HELIOS"
	areaGPON                 = "GPON"
	areaLeasedLine           = "LEIDE SAMBAND"
	areaNordicConnect        = "NORDIC CONNECT"
)

// consumerFTTHProducts mark a new consumer FTTH delivery (exact ids).
var consumerFTTHProducts = []string{"LVA1A", "LVA1B", "LVA1D", "LVA2F"}

func anyProductContains(s *state, sub string) bool {
	return slices.ContainsFunc(s.ProductIDs, func(id string) bool { return strings.Contains(id, sub) })
}

func anyProductIn(s *state, ids []string) bool {
	return slices.ContainsFunc(s.ProductIDs, func(id string) bool { return slices.Contains(ids, id) })
}

func hasVULA(s *state) bool    { return len(s.VULA) > 0 }
func hasSpider(s *state) bool  { return s.SpiderNumber != "" }
func isBBAccess(s *state) bool { return s.OrderDescription == orderDescriptionBBAccess }

func priorityHas(sub string) func(*state) bool {
	return func(s *state) bool { return strings.Contains(s.PriorityProduct, sub) }
}

func vulaExactly(token string) func(*state) bool {
	return func(s *state) bool { return slices.Contains(s.VULA, token) }
}

func always(*state) bool { return true }

func lowerTrim(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

// =============================================================================
// 1. SEGMENT
// =============================================================================

var segmentRules = ruleList[Segment]{
	{"business keyword", func(s *state) bool {
		cc, cd := lowerTrim(s.CustomerCategory), lowerTrim(s.ContractDetail)
		for _, kw := range []string{"bedrift", "fttb"} {
			if strings.Contains(cc, kw) || strings.Contains(cd, kw) {
				return true
			}
		}
		return false
	}, SegmentBusiness},
	{"consumer keyword", func(s *state) bool {
		return strings.Contains(lowerTrim(s.CustomerCategory), "privat") ||
			strings.Contains(lowerTrim(s.ContractDetail), "ftth")
	}, SegmentConsumer},
}

// =============================================================================
// 2. DELIVERY STATUS
// =============================================================================

var businessDeliveryRules = ruleList[DeliveryStatus]{
	{"LVLU product or spider number", func(s *state) bool {
		return anyProductContains(s, "LVLU") || hasSpider(s)
	}, DeliveryBooked},
	{"VULA reference", hasVULA, DeliveryNewWholesale},
	{"BB_ACCESS description", isBBAccess, DeliveryNewFWA},
	{"FTTB contract or HELIOS area", func(s *state) bool {
		return s.ContractDetail == contractFTTB || s.AreaOfSubject == areaHelios
	}, DeliveryNewBusiness},
}

// The consumer list ends in a catch-all: consumer delivery never goes
// unresolved.
var consumerDeliveryRules = ruleList[DeliveryStatus]{
	{"consumer FTTH product", func(s *state) bool {
		return anyProductIn(s, consumerFTTHProducts)
	}, DeliveryNewFTTH},
	{"VULA reference", hasVULA, DeliveryNewWholesale},
	{"BB_ACCESS description", isBBAccess, DeliveryNewFWA},
	{"default", always, DeliveryNewConsumer},
}

// =============================================================================
// 3. FIBER TYPE
// =============================================================================

var businessFiberRules = ruleList[FiberType]{
	{"LVLU product or spider number", func(s *state) bool {
		return anyProductContains(s, "LVLU") || hasSpider(s)
	}, FiberFTTBOnnet},
	{"FTTB contract, HELIOS area or BB_ACCESS", func(s *state) bool {
		return s.ContractDetail == contractFTTB || s.AreaOfSubject == areaHelios || isBBAccess(s)
	}, FiberFTTBOffnet},
}

var consumerFiberRules = ruleList[FiberType]{
	{"wholesale or FTTH delivery, or AEG contract", func(s *state) bool {
		return s.DeliveryStatus == DeliveryNewWholesale || s.DeliveryStatus == DeliveryNewFTTH ||
			s.ContractDetail == contractAEG
	}, FiberFTTHFortetning},
}

// =============================================================================
// 4. NETWORK TYPE
// =============================================================================

var networkRules = ruleList[NetworkType]{
	{"FWA delivery", func(s *state) bool { return s.DeliveryStatus == DeliveryNewFWA }, NetworkAntenna},
	{"FTTH delivery", func(s *state) bool { return s.DeliveryStatus == DeliveryNewFTTH }, NetworkFTTH},
	{"VULA reference or GPON area", func(s *state) bool {
		return hasVULA(s) || s.AreaOfSubject == areaGPON
	}, NetworkGPON},
	{"leased line area", func(s *state) bool { return s.AreaOfSubject == areaLeasedLine }, NetworkP2P},
	{"consumer delivery", func(s *state) bool { return s.DeliveryStatus == DeliveryNewConsumer }, NetworkAEG},
	{"Nordic Connect area", func(s *state) bool { return s.AreaOfSubject == areaNordicConnect }, NetworkRouterSwap},
}

// =============================================================================
// 5. ASSIGNMENT TYPE
// =============================================================================

var assignmentRules = ruleList[AssignmentType]{
	{"BB_ACCESS description", isBBAccess, AssignmentBBAccess},
	{"LVA1A priority product", priorityHas("LVA1A"), AssignmentCompleteInfill},
	{"LVK0 priority product", priorityHas("LVK0"), AssignmentExpertHelp},
	{"LVK2F priority product", priorityHas("LVK2F"), AssignmentInstallHelp},
	{"VULA marker", vulaExactly(extract.MarkerVULA), AssignmentVULA},
	{"VULA CDK marker", vulaExactly(extract.MarkerVULACDK), AssignmentVULACDK},
	{"LVT2D priority product", priorityHas("LVT2D"), AssignmentAEG},
	{"LVT1C priority product", priorityHas("LVT1C"), AssignmentDeliveryHoursFiber},
	{"DLS99 priority product", priorityHas("DLS99"), AssignmentDLS99},
}
