/*
Package extract projects one semantic field at a time out of a WOC order.

PURPOSE:
  Every function here is a pure projection Order -> T with an explicit
  default for missing data. Absent and null sub-records are treated the
  same way, and nothing here returns an error for missing data: the
  classification engine and the assemblers always get a value.

KEY CONCEPTS:
  - Item name: the identifier operators search for on the board; every
    diagnostic is tagged with it
  - Lookups: region, contractor and product tables are passed in, never
    global; a miss becomes a diagnostic and an absent value
  - Diagnostics: findings are appended to a *woc.Diagnostics sink (nil is
    allowed and discards them)

FILES:
  - extract.go:    Item name, contact
  - address.go:    Work-order address, region, contractor
  - service.go:    Circuit reference, LU number, spider number
  - products.go:   Product ids, main products, priority product
  - references.go: VULA markers
  - dates.go:      Issued date, booking deadline, accepted date, formatting

SEE ALSO:
  - classify: Consumes the signals extracted here
  - monday/row.go: Assembles a full Monday row from these projections
*/
package extract

import (
	"strings"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// Unknown is the placeholder for contact data WOC did not send.
const Unknown = "Ukjent"

// =============================================================================
// ITEM NAME
// =============================================================================

// ItemName prefers user1.fullName. Otherwise it composes
// "{connectionPoint.fullName}-{connectionPoint.id}-{detailedAreaOfSubject}",
// with "-OLT" appended for OLT orders.
func ItemName(o *woc.Order) string {
	if u := o.User1(); u != nil && u.FullName.Trim() != "" {
		return u.FullName.String()
	}

	var cpName, cpID string
	if cp := o.ConnectionPoint; cp != nil {
		cpName, cpID = cp.FullName.String(), cp.ID.String()
	}
	name := cpName + "-" + cpID + "-" + o.DetailedAreaOfSubject.String()
	if strings.HasSuffix(o.Title.Trim(), "OLT") {
		name += "-OLT"
	}
	return name
}

// =============================================================================
// CONTACT
// =============================================================================

type Contact struct {
	Name  string
	Phone string
}

// PrimaryContact returns the first contact person of user1 when WOC sent a
// user1, else the buyer's.
func PrimaryContact(o *woc.Order) (woc.ContactPerson, bool) {
	var persons []woc.ContactPerson
	if u := o.User1(); !u.Empty() {
		persons = u.ContactPersons
	} else {
		persons = o.Buyer.Contacts()
	}
	if len(persons) == 0 {
		return woc.ContactPerson{}, false
	}
	return persons[0], true
}

// ContactInfo is the board's Kunde/Telefon pair. Both fields are Unknown
// when the order has no contact person.
func ContactInfo(o *woc.Order) Contact {
	p, ok := PrimaryContact(o)
	if !ok {
		return Contact{Name: Unknown, Phone: Unknown}
	}
	return Contact{Name: p.FullName(), Phone: p.Phone1.Trim()}
}
