/*
Package woc models the work-order records exported as JSON by the WOC
field-services platform.

PURPOSE:
  The export is a JSON array of deeply nested order records in which any
  sub-record or sequence may be absent, null, or (occasionally) typed
  differently from one order to the next. This package decodes that shape
  without failing on the inconsistencies; every extractor downstream can
  then treat "absent" and "null" identically.

KEY CONCEPTS IN THIS FILE (types.go):
  - Order: one work order as exported by WOC (read-only input)
  - Text: lenient scalar that accepts strings, numbers, booleans and null
  - Party / ContactPerson: buyer, supplier and user1 contact data
  - ServiceDetail / OrderLine / ExternalReference: the ordered sequences the
    classification rules scan

DESIGN PRINCIPLES:
  1. Pointers for optional sub-records: nil means absent OR null
  2. Slices for sequences: nil means absent, null, or empty
  3. Empty() helpers mirror "present but {}" which the export also produces

SEE ALSO:
  - filter.go: Inclusion filter applied before any extraction
  - errors.go: Error taxonomy shared by all packages
  - diagnostics.go: Per-order diagnostic sink
*/
package woc

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TEXT - Lenient scalar
// =============================================================================

// Text is a string field that tolerates the export's habit of sending the
// same field as a string in one order and a number in the next (house
// numbers, postal codes, coordinates). Null decodes to "", structured values
// decode to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[':
		*t = ""
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string { return string(t) }
func (t Text) Trim() string   { return strings.TrimSpace(string(t)) }
func (t Text) IsEmpty() bool  { return t == "" }

// =============================================================================
// ORDER - One exported work order
// =============================================================================

type Order struct {
	WorkOrderID           *Reference           `json:"workOrderId"`
	ClientOrderID         *Reference           `json:"clientOrderId"`
	Title                 Text                 `json:"title"`
	OrderType             Text                 `json:"orderType"`
	AreaOfSubject         Text                 `json:"areaOfSubject"`
	DetailedAreaOfSubject Text                 `json:"detailedAreaOfSubject"`
	OrderStatus           Text                 `json:"orderStatus"`
	WocOrderStatus        Text                 `json:"wocOrderStatus"`
	IssuedDate            Text                 `json:"issuedDate"`
	ModifiedDate          Text                 `json:"modifiedDate"`
	Buyer                 *Party               `json:"buyer"`
	Supplier              *Party               `json:"supplier"`
	Contract              *Contract            `json:"contract"`
	DeliveryPeriod        *DeliveryPeriod      `json:"deliveryPeriod"`
	CustomerAppointment   *Appointment         `json:"customerAppointment"`
	ConnectionPoint       *ConnectionPoint     `json:"connectionPoint"`
	WorkOrderAddress      []WorkOrderAddress   `json:"workOrderAddress"`
	Details               *DetailedOrderInfo   `json:"detailedOrderInformation"`
	OrderLines            []OrderLine          `json:"orderlines"`
	DependentWorkOrders   []DependentWorkOrder `json:"dependentWorkOrders"`
	ExternalReferences    ExternalReferences   `json:"externalOrderReferences"`
	Remarks               []Remark             `json:"remarks"`
	ActivityLog           []ActivityEntry      `json:"activityLog"`
}

// Reference is the {referenceName, referenceNumber} pair WOC uses for ids.
type Reference struct {
	ReferenceName   Text `json:"referenceName"`
	ReferenceNumber Text `json:"referenceNumber"`
}

// Joined renders "{referenceName}-{referenceNumber}".
func (r *Reference) Joined() string {
	if r == nil {
		return "-"
	}
	return r.ReferenceName.String() + "-" + r.ReferenceNumber.String()
}

// Number returns the reference number, or "" for an absent reference.
func (r *Reference) Number() string {
	if r == nil {
		return ""
	}
	return r.ReferenceNumber.String()
}

// =============================================================================
// PARTIES AND CONTACTS
// =============================================================================

type Party struct {
	CompanyName                Text            `json:"companyName"`
	BusinessRegistrationNumber Text            `json:"businessRegistrationNumber"`
	ContactPersons             []ContactPerson `json:"contactPersons"`
}

// Contacts is nil-safe.
func (p *Party) Contacts() []ContactPerson {
	if p == nil {
		return nil
	}
	return p.ContactPersons
}

type ContactPerson struct {
	FirstName               Text `json:"firstName"`
	FamilyName              Text `json:"familyName"`
	Phone1                  Text `json:"phone1"`
	Email                   Text `json:"email"`
	Role                    Text `json:"role"`
	PreferredContactChannel Text `json:"preferredContactChannel"`
}

// FullName joins first and family name and trims the result.
func (c ContactPerson) FullName() string {
	return strings.TrimSpace(c.FirstName.String() + " " + c.FamilyName.String())
}

// User is detailedOrderInformation.user1: the end customer when WOC knows it.
type User struct {
	FullName       Text            `json:"fullName"`
	OrganizationID Text            `json:"organizationId"`
	ContactPersons []ContactPerson `json:"contactPersons"`
	Address        *UserAddress    `json:"address"`
}

// Empty reports whether user1 is absent or was exported as {}.
func (u *User) Empty() bool {
	return u == nil ||
		(u.FullName == "" && u.OrganizationID == "" && len(u.ContactPersons) == 0 && u.Address == nil)
}

type UserAddress struct {
	StreetAddress *StreetAddress `json:"streetAddress"`
}

// =============================================================================
// CONTRACT, DATES, APPOINTMENT
// =============================================================================

type Contract struct {
	ContractType         Text `json:"contractType"`
	ContractSegment      Text `json:"contractSegment"`
	PurchaseArea         Text `json:"purchaseArea"`
	PriceRegion          Text `json:"priceRegion"`
	DetailedPurchaseArea Text `json:"detailedPurchaseArea"`
}

type DeliveryPeriod struct {
	StartDate             Text `json:"startDate"`
	PlanningCompletedDate Text `json:"planningCompletedDate"`
	AcceptanceDate        Text `json:"acceptanceDate"`
	EndDate               Text `json:"endDate"`
	AdDate                Text `json:"adDate"`
}

type Appointment struct {
	Type     Text `json:"type"`
	FromTime Text `json:"fromTime"`
	ToTime   Text `json:"toTime"`
}

func (a *Appointment) Empty() bool {
	return a == nil || (a.Type == "" && a.FromTime == "" && a.ToTime == "")
}

type ConnectionPoint struct {
	ID       Text `json:"id"`
	FullName Text `json:"fullName"`
	Remark   Text `json:"remark"`
}

// =============================================================================
// ADDRESSES
// =============================================================================

type WorkOrderAddress struct {
	StreetAddress *StreetAddress `json:"streetAddress"`
	CadastralUnit *CadastralUnit `json:"cadastralUnit"`
	Coordinates   *Coordinates   `json:"coordinates"`
}

type StreetAddress struct {
	MunicipalityNumber Text         `json:"municipalityNumber"`
	MunicipalityName   Text         `json:"municipalityName"`
	CountyNumber       Text         `json:"countyNumber"`
	StreetName         Text         `json:"streetName"`
	StreetCode         Text         `json:"streetCode"`
	HouseNumber        Text         `json:"houseNumber"`
	HouseChar          Text         `json:"houseChar"`
	FloorNumber        Text         `json:"floorNumber"`
	ApartmentNumber    Text         `json:"apartmentNumber"`
	PostalCode         Text         `json:"postalCode"`
	City               Text         `json:"city"`
	Coordinates        *Coordinates `json:"coordinates"`
}

func (s *StreetAddress) Empty() bool {
	return s == nil || *s == (StreetAddress{})
}

// HouseNumberWithChar appends the house letter ("12" + "B").
func (s *StreetAddress) HouseNumberWithChar() string {
	if s == nil {
		return ""
	}
	return s.HouseNumber.String() + s.HouseChar.String()
}

type CadastralUnit struct {
	MunicipalityNumber    Text         `json:"municipalityNumber"`
	MunicipalityName      Text         `json:"municipalityName"`
	CountyNumber          Text         `json:"countyNumber"`
	PostalCode            Text         `json:"postalCode"`
	City                  Text         `json:"city"`
	CadastralUnitNumber   Text         `json:"cadastralUnitNumber"`
	PropertyUnitNumber    Text         `json:"propertyUnitNumber"`
	LeaseholdNumber       Text         `json:"leaseholdNumber"`
	CondominiumUnitNumber Text         `json:"condominiumUnitNumber"`
	Coordinates           *Coordinates `json:"coordinates"`
}

func (c *CadastralUnit) Empty() bool {
	return c == nil || *c == (CadastralUnit{})
}

type Coordinates struct {
	System Text `json:"system"`
	X      Text `json:"x"`
	Y      Text `json:"y"`
}

// =============================================================================
// DETAILED ORDER INFORMATION
// =============================================================================

type DetailedOrderInfo struct {
	User1                 *User            `json:"user1"`
	ServiceDetails        []ServiceDetail  `json:"serviceDetails"`
	OrderDescription      Text             `json:"orderDescription"`
	CustomerCategory      Text             `json:"customerCategory"`
	AdditionalInformation []AdditionalInfo `json:"additionalInformation"`
	CPE                   []CPE            `json:"cpe"`
	ISP                   Named            `json:"isp"`
}

type ServiceDetail struct {
	ResourceType       Text `json:"resourceType"`
	ResourceID         Text `json:"resourceId"`
	ProductDescription Text `json:"productDescription"`
	Action             Text `json:"action"`
	SpeedDown          Text `json:"speedDown"`
	SpeedUp            Text `json:"speedUp"`
	SpeedDownReduced   Text `json:"speedDownReduced"`
}

type AdditionalInfo struct {
	Description     Text             `json:"description"`
	Characteristics []Characteristic `json:"characteristics"`
}

type Characteristic struct {
	Name  Text `json:"name"`
	Value Text `json:"value"`
}

type CPE struct {
	Name          Text `json:"name"`
	SerialNumber  Text `json:"serialNumber"`
	OnSitePairing bool `json:"onSitePairing"`
}

// Named holds a fullName. The export sends "isp" as an object, as null, or
// as an empty list; anything but an object decodes to the zero value.
type Named struct {
	FullName Text `json:"fullName"`
}

func (n *Named) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		*n = Named{}
		return nil
	}
	type plain Named
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*n = Named(p)
	return nil
}

// =============================================================================
// ORDER LINES, DEPENDENT ORDERS, REFERENCES, LOGS
// =============================================================================

type OrderLine struct {
	LineNumber          int                 `json:"lineNumber"`
	ContractorProductID Text                `json:"contractorProductId"`
	Description         Text                `json:"description"`
	Quantity            decimal.NullDecimal `json:"quantity"`
	UnitOfMeasure       Text                `json:"unitOfMeasure"`
	IsMainProduct       bool                `json:"isMainProduct"`
	Project             *Project            `json:"project"`
}

type Project struct {
	ProjectCode Text `json:"projectCode"`
}

type DependentWorkOrder struct {
	WorkOrderID    Text           `json:"workOrderId"`
	ContractorName Text           `json:"contractorName"`
	ContactPerson  *ContactPerson `json:"contactPerson"`
}

type ExternalReference struct {
	ReferenceName   Text `json:"referenceName"`
	ReferenceNumber Text `json:"referenceNumber"`
}

// ExternalReferences is the externalOrderReferences sequence. A handful of
// exports carry a single object instead of a list; Singular records that so
// the VULA extractor can flag the order for manual review.
type ExternalReferences struct {
	Items    []ExternalReference
	Singular bool
}

func (e *ExternalReferences) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*e = ExternalReferences{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '{' {
		var one ExternalReference
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		e.Items = []ExternalReference{one}
		e.Singular = true
		return nil
	}
	return json.Unmarshal(b, &e.Items)
}

func (e ExternalReferences) MarshalJSON() ([]byte, error) {
	if e.Singular && len(e.Items) == 1 {
		return json.Marshal(e.Items[0])
	}
	return json.Marshal(e.Items)
}

type Remark struct {
	Initiator   Text `json:"initiator"`
	CreatedDate Text `json:"createdDate"`
	Text        Text `json:"text"`
}

type ActivityEntry struct {
	Action  Text `json:"action"`
	Changed Text `json:"changed"`
}

// =============================================================================
// NIL-SAFE ACCESSORS
// =============================================================================

// User1 returns detailedOrderInformation.user1 or nil.
func (o *Order) User1() *User {
	if o.Details == nil {
		return nil
	}
	return o.Details.User1
}

// ServiceDetails returns detailedOrderInformation.serviceDetails or nil.
func (o *Order) ServiceDetails() []ServiceDetail {
	if o.Details == nil {
		return nil
	}
	return o.Details.ServiceDetails
}

func (o *Order) OrderDescription() string {
	if o.Details == nil {
		return ""
	}
	return o.Details.OrderDescription.String()
}

func (o *Order) CustomerCategory() string {
	if o.Details == nil {
		return ""
	}
	return o.Details.CustomerCategory.String()
}

// ContractDetail returns contract.detailedPurchaseArea.
func (o *Order) ContractDetail() string {
	if o.Contract == nil {
		return ""
	}
	return o.Contract.DetailedPurchaseArea.String()
}

// FirstAddress returns workOrderAddress[0] or nil.
func (o *Order) FirstAddress() *WorkOrderAddress {
	if len(o.WorkOrderAddress) == 0 {
		return nil
	}
	return &o.WorkOrderAddress[0]
}
