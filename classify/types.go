/*
Package classify derives the board's categorical fields from extracted
order signals.

PURPOSE:
  Five decisions are made per order, in sequence, each able to use the
  outputs of the previous ones:

    1. Segment          business / consumer / needs-review
    2. DeliveryStatus   Booked, NewWholesale, NewFWA, NewBusiness, ...
    3. FiberType        FTTB-Onnet / FTTB-Offnet / FTTH-Fortetning
    4. NetworkType      Antenna, FTTH, GPON, P2P, AEG, Router-swap
    5. AssignmentType   BB-Access, CompleteInfill, ExpertHelp, ...

KEY CONCEPTS:
  - Signals: everything the rules read, extracted once per order
  - Rule / ruleList: ordered guard lists evaluated first-match-wins
  - Label(): how each value is written on the Monday board

FAILURE SEMANTICS:
  No rule list raises. A fall-through returns the zero value ("" is
  "unresolved") and emits a diagnostic tagged with the order's item name,
  so a batch always completes with partial rows.

SEE ALSO:
  - rules.go: The rule lists, in precedence order
  - engine.go: Classify, wiring the stages together
*/
package classify

// =============================================================================
// SEGMENT
// =============================================================================

type Segment string

const (
	SegmentBusiness    Segment = "business"
	SegmentConsumer    Segment = "consumer"
	SegmentNeedsReview Segment = "needs-review"
)

var segmentLabels = map[Segment]string{
	SegmentBusiness:    "bedrift",
	SegmentConsumer:    "privat",
	SegmentNeedsReview: "denne må sjekkes",
}

func (s Segment) Label() string { return segmentLabels[s] }

// =============================================================================
// DELIVERY STATUS (Status Leveranse)
// =============================================================================

type DeliveryStatus string

const (
	DeliveryUnresolved   DeliveryStatus = ""
	DeliveryBooked       DeliveryStatus = "Booked"
	DeliveryNewWholesale DeliveryStatus = "NewWholesale"
	DeliveryNewFWA       DeliveryStatus = "NewFWA"
	DeliveryNewBusiness  DeliveryStatus = "NewBusiness"
	DeliveryNewFTTH      DeliveryStatus = "NewFTTH"
	DeliveryNewConsumer  DeliveryStatus = "NewConsumer"
)

var deliveryLabels = map[DeliveryStatus]string{
	DeliveryBooked:       "Booket",
	DeliveryNewWholesale: "NY wholesale",
	DeliveryNewFWA:       "NY FWA",
	DeliveryNewBusiness:  "NY bedrift",
	DeliveryNewFTTH:      "NY FTTH",
	DeliveryNewConsumer:  "NY privat",
}

func (d DeliveryStatus) Label() string { return deliveryLabels[d] }

// =============================================================================
// FIBER TYPE (Type FTTx)
// =============================================================================

type FiberType string

const (
	FiberUnresolved     FiberType = ""
	FiberFTTBOnnet      FiberType = "FTTB-Onnet"
	FiberFTTBOffnet     FiberType = "FTTB-Offnet"
	FiberFTTHFortetning FiberType = "FTTH-Fortetning"
)

var fiberLabels = map[FiberType]string{
	FiberFTTBOnnet:      "FTTB Onnet",
	FiberFTTBOffnet:     "FTTB Offnet",
	FiberFTTHFortetning: "FTTH Fortetning",
}

func (f FiberType) Label() string { return fiberLabels[f] }

// =============================================================================
// NETWORK TYPE (GPON/P2P)
// =============================================================================

type NetworkType string

const (
	NetworkUnresolved NetworkType = ""
	NetworkAntenna    NetworkType = "Antenna"
	NetworkFTTH       NetworkType = "FTTH"
	NetworkGPON       NetworkType = "GPON"
	NetworkP2P        NetworkType = "P2P"
	NetworkAEG        NetworkType = "AEG"
	NetworkRouterSwap NetworkType = "Router-swap"
)

var networkLabels = map[NetworkType]string{
	NetworkAntenna:    "Antenne",
	NetworkFTTH:       "FTTH",
	NetworkGPON:       "GPON",
	NetworkP2P:        "P2P",
	NetworkAEG:        "AEG",
	NetworkRouterSwap: "Ruterbytte",
}

func (n NetworkType) Label() string { return networkLabels[n] }

// =============================================================================
// ASSIGNMENT TYPE (Type oppdrag)
// =============================================================================

type AssignmentType string

const (
	AssignmentUnresolved         AssignmentType = ""
	AssignmentBBAccess           AssignmentType = "BB-Access"
	AssignmentCompleteInfill     AssignmentType = "CompleteInfill"
	AssignmentExpertHelp         AssignmentType = "ExpertHelp"
	AssignmentInstallHelp        AssignmentType = "InstallHelp"
	AssignmentVULA               AssignmentType = "VULA"
	AssignmentVULACDK            AssignmentType = "VULA-CDK"
	AssignmentAEG                AssignmentType = "AEG"
	AssignmentDeliveryHoursFiber AssignmentType = "DeliveryHours-Fiber"
	AssignmentDLS99              AssignmentType = "DLS99"
)

var assignmentLabels = map[AssignmentType]string{
	AssignmentBBAccess:           "BB-Access",
	AssignmentCompleteInfill:     "Komplett fortetning",
	AssignmentExpertHelp:         "Eksperthjelpen",
	AssignmentInstallHelp:        "Installasjonshjelpen",
	AssignmentVULA:               "VULA",
	AssignmentVULACDK:            "VULA CDK",
	AssignmentAEG:                "AEG",
	AssignmentDeliveryHoursFiber: "Leveranse timer - Fiber",
	AssignmentDLS99:              "DLS99",
}

func (a AssignmentType) Label() string { return assignmentLabels[a] }

// =============================================================================
// SIGNALS AND RESULT
// =============================================================================

// Signals are the extracted inputs of the rules. Raw strings are compared
// exactly unless a rule says otherwise.
type Signals struct {
	Item             string
	CustomerCategory string
	ContractDetail   string
	OrderDescription string
	AreaOfSubject    string
	ProductIDs       []string
	SpiderNumber     string
	VULA             []string
	PriorityProduct  string
}

// Classification is the outcome of all five stages for one order.
// Empty values are unresolved.
type Classification struct {
	Segment        Segment        `json:"segment"`
	DeliveryStatus DeliveryStatus `json:"deliveryStatus,omitempty"`
	FiberType      FiberType      `json:"fiberType,omitempty"`
	NetworkType    NetworkType    `json:"networkType,omitempty"`
	AssignmentType AssignmentType `json:"assignmentType,omitempty"`
}
