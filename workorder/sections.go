package workorder

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/extract"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// Date layouts on the sheet.
const (
	TimestampLayout = "02.01.2006 15:04"
	DayLayout       = "02.01.2006"
)

// Builder assembles Documents. Products resolves order-line names that the
// line itself does not carry; Regions places the file.
type Builder struct {
	Regions  lookup.Regions
	Products lookup.Products
}

// NewBuilder backs both lookups with the same tables.
func NewBuilder(t *lookup.Tables) *Builder {
	return &Builder{Regions: t, Products: t}
}

// Build renders every section of o. It never fails; missing data becomes
// blanks or placeholders and is reported on diags.
func (b *Builder) Build(o *woc.Order, diags *woc.Diagnostics) Document {
	item := extract.ItemName(o)
	return Document{
		Item:        item,
		Header:      header(o),
		Contact:     contactSection(o),
		Address:     addressSection(o, item, diags),
		OrderInfo:   orderInfo(o),
		Delivery:    deliveryDates(o),
		Appointment: appointment(o),
		Services:    services(o),
		Dependents:  dependents(o),
		Additional:  additional(o),
		Remarks:     remarks(o),
		CPE:         cpe(o),
		References:  references(o),
		Lines:       b.orderLines(o, item, diags),
	}
}

// =============================================================================
// HEADER AND CONTACT
// =============================================================================

func header(o *woc.Order) Header {
	h := Header{
		Title:            o.Title.String(),
		OrderID:          o.WorkOrderID.Joined(),
		ClientOrderID:    o.ClientOrderID.Joined(),
		CustomerCategory: o.CustomerCategory(),
		OrderType:        o.OrderType.String(),
		Area:             o.AreaOfSubject.String(),
		Issued:           extract.FormatDate(o.IssuedDate.String(), TimestampLayout),
		Modified:         extract.FormatDate(o.ModifiedDate.String(), TimestampLayout),
		State:            o.WocOrderStatus.String(),
		StateCWO:         capitalize(o.OrderStatus.String()),
	}
	if h.CustomerCategory == "" {
		h.CustomerCategory = "-"
	}
	h.CircuitID, _ = extract.FirstResource(o, "CircuitId")
	h.CustomerID, _ = extract.FirstResource(o, "CustomerId")
	if c := o.Contract; c != nil {
		h.Contract = joinNonEmpty(c.ContractType.String(), c.ContractSegment.String())
		h.PurchaseArea = joinNonEmpty(c.PurchaseArea.String(), c.PriceRegion.String())
	}
	return h
}

func company(p *woc.Party) Company {
	if p == nil {
		return Company{}
	}
	return Company{Name: p.CompanyName.String(), OrgNumber: p.BusinessRegistrationNumber.String()}
}

func contactSection(o *woc.Order) ContactSection {
	cs := ContactSection{
		Buyer:    company(o.Buyer),
		Supplier: company(o.Supplier),
		Phone:    extract.Unknown,
	}
	if p, ok := extract.PrimaryContact(o); ok {
		cs.Name = p.FullName()
		cs.Role = p.Role.String()
		cs.Email = p.Email.String()
		if phone := p.Phone1.Trim(); phone != "" {
			cs.Phone = phone
		}
	}
	if o.Details != nil {
		cs.ISP = o.Details.ISP.FullName.String()
	}
	return cs
}

// =============================================================================
// ADDRESS
// =============================================================================

func addressSection(o *woc.Order, item string, diags *woc.Diagnostics) AddressSection {
	if u := o.User1(); u != nil && u.Address != nil && !u.Address.StreetAddress.Empty() {
		s := u.Address.StreetAddress
		orgID := u.OrganizationID.String()
		if orgID == "" {
			orgID = "-"
		}
		fields := []Field{
			{"Organisation Id", orgID},
			{"FullName", u.FullName.String()},
		}
		fields = append(fields, streetFields(s, s.HouseNumber.String(), true)...)
		return AddressSection{Source: AddressUser1, Fields: fields, Coordinates: coordinates(s.Coordinates)}
	}

	wa := o.FirstAddress()
	switch {
	case wa != nil && !wa.StreetAddress.Empty():
		s := wa.StreetAddress
		return AddressSection{
			Source:      AddressStreet,
			Fields:      streetFields(s, s.HouseNumberWithChar(), false),
			Coordinates: orEmpty(coordinates(s.Coordinates)),
		}
	case wa != nil && !wa.CadastralUnit.Empty():
		c := wa.CadastralUnit
		return AddressSection{
			Source: AddressCadastral,
			Fields: []Field{
				{"MunicipalityNumber", c.MunicipalityNumber.String()},
				{"MunicipalityName", c.MunicipalityName.String()},
				{"CountyNumber", c.CountyNumber.String()},
				{"PostalCode", c.PostalCode.String()},
				{"City", c.City.String()},
				{"CadastralUnitNumber", c.CadastralUnitNumber.String()},
				{"PropertyUnitNumber", c.PropertyUnitNumber.String()},
				{"LeaseholdNumber", c.LeaseholdNumber.String()},
				{"CondominiumUnitNumber", c.CondominiumUnitNumber.String()},
			},
			Coordinates: orEmpty(coordinates(c.Coordinates)),
		}
	}
	diags.Warnf(woc.KindMissingData, item, "Adresse", "no user1, street or cadastral address")
	return AddressSection{Source: AddressNone}
}

// streetFields lists a street address. Floor and apartment are always
// listed for user1 and only when set for the work-order address.
func streetFields(s *woc.StreetAddress, houseNumber string, allUnits bool) []Field {
	fields := []Field{
		{"MunicipalityNumber", s.MunicipalityNumber.String()},
		{"MunicipalityName", s.MunicipalityName.String()},
		{"CountyNumber", s.CountyNumber.String()},
		{"StreetName", s.StreetName.String()},
		{"StreetCode", s.StreetCode.String()},
		{"HouseNumber", houseNumber},
	}
	if allUnits || s.FloorNumber != "" {
		fields = append(fields, Field{"FloorNumber", s.FloorNumber.String()})
	}
	if allUnits || s.ApartmentNumber != "" {
		fields = append(fields, Field{"ApartmentNumber", s.ApartmentNumber.String()})
	}
	return append(fields,
		Field{"PostalCode", s.PostalCode.String()},
		Field{"City", s.City.String()},
	)
}

func coordinates(c *woc.Coordinates) *Coordinates {
	if c == nil {
		return nil
	}
	return &Coordinates{System: c.System.String(), X: c.X.String(), Y: c.Y.String()}
}

func orEmpty(c *Coordinates) *Coordinates {
	if c == nil {
		return &Coordinates{}
	}
	return c
}

// =============================================================================
// ORDER INFORMATION, DATES, APPOINTMENT
// =============================================================================

func orderInfo(o *woc.Order) OrderInfo {
	info := OrderInfo{Description: strings.Split(o.OrderDescription(), "\n")}
	if cp := o.ConnectionPoint; cp != nil {
		id := cp.ID.String()
		if id == "" {
			id = "-"
		}
		info.ConnectionPoint = &ConnectionPointInfo{ID: id, FullName: cp.FullName.String(), Remark: cp.Remark.String()}
	}
	return info
}

func day(t woc.Text) string { return extract.FormatDate(t.String(), DayLayout) }

func deliveryDates(o *woc.Order) DeliveryDates {
	dp := o.DeliveryPeriod
	if dp == nil {
		return DeliveryDates{}
	}
	return DeliveryDates{
		Start:              day(dp.StartDate),
		PlanningCompletion: day(dp.PlanningCompletedDate),
		Acceptance:         day(dp.AcceptanceDate),
		End:                day(dp.EndDate),
		Ad:                 day(dp.AdDate),
	}
}

func appointment(o *woc.Order) *AppointmentSection {
	a := o.CustomerAppointment
	if a.Empty() {
		return nil
	}
	return &AppointmentSection{Type: a.Type.String(), From: day(a.FromTime), To: day(a.ToTime)}
}

// =============================================================================
// TABLES
// =============================================================================

func services(o *woc.Order) []ServiceEntry {
	var out []ServiceEntry
	for _, sd := range o.ServiceDetails() {
		rt := sd.ResourceType.String()
		if rt == "" {
			continue
		}
		var fields []Field
		optional := func(label string, v woc.Text) {
			if v != "" {
				fields = append(fields, Field{label, v.String()})
			}
		}
		optional("ResourceId", sd.ResourceID)
		fields = append(fields, Field{"ResourceType", rt})
		optional("ProductDescription", sd.ProductDescription)
		optional("Action", sd.Action)
		optional("SpeedDown", sd.SpeedDown)
		optional("SpeedUp", sd.SpeedUp)
		fields = append(fields, Field{"SpeedDownReduced", sd.SpeedDownReduced.String()})
		out = append(out, ServiceEntry{ResourceType: rt, Fields: fields})
	}
	return out
}

func dependents(o *woc.Order) []DependentOrderRow {
	var out []DependentOrderRow
	for _, d := range o.DependentWorkOrders {
		row := DependentOrderRow{WorkOrderID: d.WorkOrderID.String(), ContractorName: d.ContractorName.String()}
		if p := d.ContactPerson; p != nil {
			row.ContactPerson = p.FullName()
			row.Role = p.Role.String()
			row.Phone = p.Phone1.String()
			row.Email = p.Email.String()
			row.PreferredChannel = p.PreferredContactChannel.String()
		}
		out = append(out, row)
	}
	return out
}

func additional(o *woc.Order) []AdditionalInfoItem {
	if o.Details == nil {
		return nil
	}
	var out []AdditionalInfoItem
	for _, a := range o.Details.AdditionalInformation {
		item := AdditionalInfoItem{Description: a.Description.String()}
		for _, c := range a.Characteristics {
			item.Characteristics = append(item.Characteristics, Field{c.Name.String(), c.Value.String()})
		}
		out = append(out, item)
	}
	return out
}

func remarks(o *woc.Order) []RemarkEntry {
	var out []RemarkEntry
	for _, r := range o.Remarks {
		out = append(out, RemarkEntry{
			Title: "(" + r.Initiator.String() + ") " + extract.FormatDate(r.CreatedDate.String(), TimestampLayout),
			Text:  r.Text.String(),
		})
	}
	return out
}

func cpe(o *woc.Order) []CPERow {
	if o.Details == nil {
		return nil
	}
	var out []CPERow
	for _, c := range o.Details.CPE {
		row := CPERow{Name: c.Name.String(), SerialNumber: c.SerialNumber.String()}
		if c.OnSitePairing {
			row.OnSitePairing = "X"
		}
		out = append(out, row)
	}
	return out
}

func references(o *woc.Order) []ReferenceRow {
	var out []ReferenceRow
	for _, r := range o.ExternalReferences.Items {
		out = append(out, ReferenceRow{Name: r.ReferenceName.String(), Number: r.ReferenceNumber.String()})
	}
	return out
}

// orderLines sorts by line number; lines sharing a number keep their
// export order.
func (b *Builder) orderLines(o *woc.Order, item string, diags *woc.Diagnostics) []OrderLineRow {
	lines := append([]woc.OrderLine(nil), o.OrderLines...)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].LineNumber < lines[j].LineNumber })

	var out []OrderLineRow
	for _, l := range lines {
		row := OrderLineRow{
			LineNumber:  strconv.Itoa(l.LineNumber),
			ProductID:   l.ContractorProductID.String(),
			ProductName: extract.ProductName(l, b.Products, item, diags),
			Quantity:    Quantity(l),
		}
		if l.Project != nil {
			row.Project = l.Project.ProjectCode.String()
		}
		out = append(out, row)
	}
	return out
}

// Quantity renders "{quantity} {unit}". A missing quantity is "0"; a
// missing unit is left out.
func Quantity(l woc.OrderLine) string {
	qty := "0"
	if l.Quantity.Valid {
		qty = l.Quantity.Decimal.String()
	}
	return strings.TrimSpace(qty + " " + l.UnitOfMeasure.Trim())
}

// =============================================================================
// HELPERS
// =============================================================================

func joinNonEmpty(a, b string) string { return strings.TrimSpace(a + " " + b) }

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
