/*
Package workorder builds the printable work-order sheet for one order.

PURPOSE:
  Field crews get one PDF per included order, filed by region and order
  type. This package turns an order into named sections (Document), picks
  the file location for it, renders it with fpdf and bundles a finished
  run into a zip archive.

KEY CONCEPTS:
  - Document: the sections of one sheet, already formatted as text
  - Location: {region}/{orderType}/{clientOrderRef} {shortAddress}.pdf
  - Renderer: fpdf layout of a Document (header band, section titles,
    bordered tables, "Side n/N" footer)

SEE ALSO:
  - sections.go: Order -> Document
  - location.go: Output path naming
  - render.go:   PDF layout
  - bundle.go:   Output directory reset and zip archive
*/
package workorder

// Placeholders printed when the order lacks a section's data.
const (
	NoAddress         = "Finner ikke adresse i fil"
	NoConnectionPoint = "Ingen ConnectionPoint oppgitt"
)

// Field is one "Label: Value" line.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (f Field) String() string { return f.Label + ": " + f.Value }

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is every section of one work-order sheet. Optional sections are
// nil or empty when the order has nothing to show.
type Document struct {
	Item        string               `json:"item"`
	Header      Header               `json:"header"`
	Contact     ContactSection       `json:"contact"`
	Address     AddressSection       `json:"address"`
	OrderInfo   OrderInfo            `json:"orderInfo"`
	Delivery    DeliveryDates        `json:"delivery"`
	Appointment *AppointmentSection  `json:"appointment,omitempty"`
	Services    []ServiceEntry       `json:"services,omitempty"`
	Dependents  []DependentOrderRow  `json:"dependents,omitempty"`
	Additional  []AdditionalInfoItem `json:"additional,omitempty"`
	Remarks     []RemarkEntry        `json:"remarks,omitempty"`
	CPE         []CPERow             `json:"cpe,omitempty"`
	References  []ReferenceRow       `json:"references,omitempty"`
	Lines       []OrderLineRow       `json:"lines,omitempty"`
}

// Header is the title line and the three-column summary under it.
type Header struct {
	Title            string `json:"title"`
	OrderID          string `json:"orderId"`
	ClientOrderID    string `json:"clientOrderId"`
	CustomerCategory string `json:"customerCategory"`
	CircuitID        string `json:"circuitId"`
	CustomerID       string `json:"customerId"`
	OrderType        string `json:"orderType"`
	Area             string `json:"area"`
	Contract         string `json:"contract"`
	PurchaseArea     string `json:"purchaseArea"`
	Issued           string `json:"issued"`
	Modified         string `json:"modified"`
	State            string `json:"state"`
	StateCWO         string `json:"stateCwo"`
}

// Columns lays the summary out as three columns of label/value lines.
func (h Header) Columns() [3][]Field {
	return [3][]Field{
		{
			{"OrderId", h.OrderID},
			{"ClientOrderId", h.ClientOrderID},
			{"CustomerCategory", h.CustomerCategory},
			{"CircuitId", h.CircuitID},
			{"CustomerId", h.CustomerID},
		},
		{
			{"OrderType", h.OrderType},
			{"Area", h.Area},
			{"Contract", h.Contract},
			{"PurchaseArea", h.PurchaseArea},
		},
		{
			{"Issued", h.Issued},
			{"Modified", h.Modified},
			{"State", h.State},
			{"State (CWO)", h.StateCWO},
		},
	}
}

type Company struct {
	Name      string `json:"name"`
	OrgNumber string `json:"orgNumber"`
}

type ContactSection struct {
	Buyer    Company `json:"buyer"`
	Supplier Company `json:"supplier"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	ISP      string  `json:"isp"`
}

// AddressSource tells which part of the order the address came from.
type AddressSource string

const (
	AddressUser1     AddressSource = "user1"
	AddressStreet    AddressSource = "street"
	AddressCadastral AddressSource = "cadastral"
	AddressNone      AddressSource = "none"
)

type Coordinates struct {
	System string `json:"system"`
	X      string `json:"x"`
	Y      string `json:"y"`
}

// AddressSection lists the address as label/value lines. With AddressNone
// Fields is empty and the sheet prints NoAddress.
type AddressSection struct {
	Source      AddressSource `json:"source"`
	Fields      []Field       `json:"fields,omitempty"`
	Coordinates *Coordinates  `json:"coordinates,omitempty"`
}

type ConnectionPointInfo struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty"`
	Remark   string `json:"remark,omitempty"`
}

// OrderInfo is the free-text description, one entry per line, and the
// connection point (nil prints NoConnectionPoint).
type OrderInfo struct {
	Description     []string             `json:"description"`
	ConnectionPoint *ConnectionPointInfo `json:"connectionPoint,omitempty"`
}

type DeliveryDates struct {
	Start              string `json:"start"`
	PlanningCompletion string `json:"planningCompletion"`
	Acceptance         string `json:"acceptance"`
	End                string `json:"end"`
	Ad                 string `json:"ad"`
}

func (d DeliveryDates) Fields() []Field {
	return []Field{
		{"Start", d.Start},
		{"Planning completion", d.PlanningCompletion},
		{"Acceptance", d.Acceptance},
		{"End", d.End},
		{"Ad", d.Ad},
	}
}

type AppointmentSection struct {
	Type string `json:"type"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ServiceEntry is one service detail, titled by its resource type.
type ServiceEntry struct {
	ResourceType string  `json:"resourceType"`
	Fields       []Field `json:"fields"`
}

type DependentOrderRow struct {
	WorkOrderID      string `json:"workOrderId"`
	ContractorName   string `json:"contractorName"`
	ContactPerson    string `json:"contactPerson"`
	Role             string `json:"role"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	PreferredChannel string `json:"preferredContactChannel"`
}

type AdditionalInfoItem struct {
	Description     string  `json:"description"`
	Characteristics []Field `json:"characteristics,omitempty"`
}

// RemarkEntry is rendered as a "({initiator}) {created}" title line and the text.
type RemarkEntry struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type CPERow struct {
	Name          string `json:"name"`
	SerialNumber  string `json:"serialNumber"`
	OnSitePairing string `json:"onSitePairing"`
}

type ReferenceRow struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// OrderLineRow is one order line; Quantity is "{quantity} {unit}".
type OrderLineRow struct {
	LineNumber  string `json:"lineNumber"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    string `json:"quantity"`
	Project     string `json:"project"`
}
