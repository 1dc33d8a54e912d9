package workorder

import (
	"path/filepath"
	"strings"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/extract"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// NoShortAddress names files of orders without any work-order address.
const NoShortAddress = "finner ikke addresse"

// Location is where a sheet is filed, relative to the output root.
type Location struct {
	Region    string `json:"region"`
	OrderType string `json:"orderType"`
	FileName  string `json:"fileName"`
}

// Rel is the slash-separated path below the output root.
func (l Location) Rel() string {
	return l.Region + "/" + l.OrderType + "/" + l.FileName
}

// Path joins the location onto root.
func (l Location) Path(root string) string {
	return filepath.Join(root, l.Region, l.OrderType, l.FileName)
}

// Locate files the order under its region and order type. The region comes
// from the municipality of the first work-order address; an unknown region
// files under extract.Unknown.
func Locate(o *woc.Order, regions lookup.Regions, item string, diags *woc.Diagnostics) Location {
	short, municipality := shortAddress(o)

	region := extract.Unknown
	if municipality != "" {
		if r, err := regions.Region(municipality); err != nil {
			diags.Record(item, "Fylke", err)
		} else if r != "" {
			region = r
		}
	}

	name := strings.TrimSpace(o.ClientOrderID.Number() + " " + short)
	return Location{
		Region:    segment(region),
		OrderType: segment(o.OrderType.Trim()),
		FileName:  segment(name) + ".pdf",
	}
}

// shortAddress is "{street} {no}{char}" or "Gnr. X Bnr. Y", plus the
// municipality the region is looked up by.
func shortAddress(o *woc.Order) (short, municipality string) {
	wa := o.FirstAddress()
	switch {
	case wa == nil:
		return NoShortAddress, ""
	case !wa.StreetAddress.Empty():
		s := wa.StreetAddress
		return strings.TrimSpace(s.StreetName.String() + " " + s.HouseNumberWithChar()), s.MunicipalityName.Trim()
	case !wa.CadastralUnit.Empty():
		c := wa.CadastralUnit
		return "Gnr. " + c.CadastralUnitNumber.String() + " Bnr. " + c.PropertyUnitNumber.String(), c.MunicipalityName.Trim()
	}
	return NoShortAddress, ""
}

var segmentReplacer = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")

// segment makes s usable as one path element. Blank or dot-only segments
// become extract.Unknown.
func segment(s string) string {
	s = strings.TrimSpace(segmentReplacer.Replace(s))
	if s == "" || strings.Trim(s, ".") == "" {
		return extract.Unknown
	}
	return s
}

// Sheet is a built document and where it is filed.
type Sheet struct {
	Document Document `json:"document"`
	Location Location `json:"location"`
}

// Sheet builds o's document and locates its file.
func (b *Builder) Sheet(o *woc.Order, diags *woc.Diagnostics) Sheet {
	doc := b.Build(o, diags)
	return Sheet{Document: doc, Location: Locate(o, b.Regions, doc.Item, diags)}
}
