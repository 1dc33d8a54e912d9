package monday

import (
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/calendar"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/classify"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/extract"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// DefaultBookingDays is the booking window after the issued date.
const DefaultBookingDays = 5

// Assembler turns orders into rows. It holds only read-only collaborators
// and is safe for concurrent use.
type Assembler struct {
	Regions     lookup.Regions
	Contractors lookup.Contractors
	Products    lookup.Products
	Calendar    calendar.HolidayCalendar
	BookingDays int
}

// NewAssembler backs every lookup with the same tables.
func NewAssembler(t *lookup.Tables, cal calendar.HolidayCalendar) *Assembler {
	return &Assembler{
		Regions:     t,
		Contractors: t,
		Products:    t,
		Calendar:    cal,
		BookingDays: DefaultBookingDays,
	}
}

// Assembled is a row plus the classification it was built from.
type Assembled struct {
	Row            Row
	Classification classify.Result
}

// Assemble builds one row. The only error is a fatal one: an order without
// a usable issued date.
func (a *Assembler) Assemble(o *woc.Order, diags *woc.Diagnostics) (Assembled, error) {
	sig, class := classify.ClassifyOrder(o, a.Products, diags)
	item := sig.Item

	issued, err := extract.IssuedDate(o, item)
	if err != nil {
		return Assembled{}, err
	}

	addr := extract.WorkOrderAddress(o, a.Regions, item, diags)
	contact := extract.ContactInfo(o)

	var start, end string
	if dp := o.DeliveryPeriod; dp != nil {
		start, end = extract.ISODate(dp.StartDate.String()), extract.ISODate(dp.EndDate.String())
	}

	row := Row{
		Item:                  item,
		Address:               addr.Text,
		Municipality:          addr.Municipality,
		Region:                addr.Region,
		Customer:              contact.Name,
		Phone:                 contact.Phone,
		IssuedDate:            issued.String(),
		BookBy:                extract.BookingDeadline(a.Calendar, issued, a.BookingDays),
		OrderDate:             extract.OrderDate(o, issued, item, diags),
		Contractor:            extract.Contractor(addr.PostalCode, a.Contractors, item, diags),
		RegionStatus:          addr.Region,
		EarliestStart:         start,
		DeliveryDate:          end,
		OrderNumber:           o.ClientOrderID.Number(),
		CircuitRef:            extract.CircuitReference(o, item, diags).Number,
		Connector:             ConnectorWOC,
		SpiderNumber:          sig.SpiderNumber,
		DeliveryStatus:        class.DeliveryStatus.Label(),
		ContractDetail:        sig.ContractDetail,
		FiberType:             class.FiberType.Label(),
		Segment:               class.Segment.Label(),
		NetworkType:           class.NetworkType.Label(),
		AreaOfSubject:         sig.AreaOfSubject,
		DetailedAreaOfSubject: o.DetailedAreaOfSubject.String(),
		AssignmentType:        class.AssignmentType.Label(),
		WOCAssignmentTypes:    joinList(extract.WOCTypeOfAssignment(o)),
		LUNumber:              extract.LUNumber(o),
		LastTransactionDate:   extract.ISODate(o.ModifiedDate.String()),
		MainProduct:           sig.PriorityProduct,
		ProductIDs:            joinList(sig.ProductIDs),
		VULA:                  joinList(sig.VULA),
		ProductDescriptions:   joinList(extract.ProductDescriptions(o)),
		CoordSystem:           addr.CoordSystem,
		X:                     addr.X,
		Y:                     addr.Y,
		OrderDescription:      sig.OrderDescription,
		CustomerCategory:      sig.CustomerCategory,
	}
	return Assembled{Row: row, Classification: class}, nil
}
