package extract

import (
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// Address is workOrderAddress[0] flattened for the board.
type Address struct {
	Text         string
	PostalCode   string
	Municipality string
	Region       string
	CoordSystem  string
	X            string
	Y            string
}

// WorkOrderAddress prefers the street address ("{street} {no}{char},
// {city}, Norge") and falls back to the cadastral unit ("Gnr. .. Bnr. ..").
// The region is looked up by municipality; a miss leaves it blank.
func WorkOrderAddress(o *woc.Order, regions lookup.Regions, item string, diags *woc.Diagnostics) Address {
	var a Address
	wa := o.FirstAddress()
	if wa == nil {
		wa = &woc.WorkOrderAddress{}
	}

	switch {
	case !wa.StreetAddress.Empty():
		s := wa.StreetAddress
		a.Text = s.StreetName.String() + " " + s.HouseNumberWithChar() + ", " + s.City.String() + ", Norge"
		a.PostalCode = s.PostalCode.Trim()
		a.Municipality = s.MunicipalityName.String()
	case !wa.CadastralUnit.Empty():
		c := wa.CadastralUnit
		a.Text = "Gnr. " + c.CadastralUnitNumber.String() + " Bnr. " + c.PropertyUnitNumber.String()
		a.PostalCode = c.PostalCode.Trim()
		a.Municipality = c.MunicipalityName.String()
	default:
		diags.Warnf(woc.KindMissingData, item, "Adresse", "no street address or cadastral unit")
	}

	if region, err := regions.Region(a.Municipality); err != nil {
		diags.Record(item, "Fylke", err)
	} else {
		a.Region = region
	}

	if c := coordinatesOf(wa); c != nil {
		a.CoordSystem, a.X, a.Y = c.System.String(), c.X.String(), c.Y.String()
	}
	return a
}

// coordinatesOf prefers the address-level coordinates and falls back to
// those nested in the street address or cadastral unit.
func coordinatesOf(wa *woc.WorkOrderAddress) *woc.Coordinates {
	switch {
	case wa.Coordinates != nil:
		return wa.Coordinates
	case wa.StreetAddress != nil && wa.StreetAddress.Coordinates != nil:
		return wa.StreetAddress.Coordinates
	case wa.CadastralUnit != nil:
		return wa.CadastralUnit.Coordinates
	}
	return nil
}

// Contractor resolves the contractor covering a postal code. A miss is
// recorded and yields "".
func Contractor(postalCode string, contractors lookup.Contractors, item string, diags *woc.Diagnostics) string {
	c, err := contractors.Contractor(postalCode)
	if err != nil {
		diags.Record(item, "Entreprenør", err)
		return ""
	}
	return c
}
