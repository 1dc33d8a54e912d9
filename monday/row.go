/*
Package monday assembles the "Monday import": one flat row per included
order, in the fixed column order the tracking board imports.

PURPOSE:
  Combines extractor and classifier outputs into a Row, writes rows to an
  xlsx workbook (sheet "Data"), and splits them into the business (B) and
  consumer (P) imports.

KEY CONCEPTS:
  - Row: 40 named cells, created fresh per order and never mutated
  - Columns: the header, in board order
  - Assembler: carries the lookup services and the holiday calendar

SEE ALSO:
  - assemble.go: Order -> Row
  - xlsx.go: Workbook writer and segment split
*/
package monday

import (
	"strings"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/classify"
)

// Columns is the board's import header, in order.
var Columns = []string{
	"Item",
	"Adresse",
	"Kommune",
	"Fylke",
	"Kunde",
	"Telefon",
	"Issued Date",
	"Bookes innen",
	"Ordredato",
	"Entreprenør",
	"Fylke Status",
	"Start arbeid tidligst",
	"Dato leveranse",
	"WOC Status",
	"BC Status",
	"UE Status",
	"Ordrenummer",
	"Sambandsnummer",
	"WOC/connector",
	"Spidernummer",
	"Status Leveranse",
	"kontraktdetaljer",
	"Type FTTx",
	"Kunde Kategori",
	"GPON/P2P",
	"GPON/P2P - WOC",
	"GPON/AEG - from detailedAreaOfSubject",
	"Type oppdrag",
	"Type oppdrag WOC",
	"LU-nummer",
	"Last Transaction Date",
	"Hovedprodukt",
	"Produkt ID",
	"VULA ?",
	"Beskrivelse av produkt",
	"Coordsys",
	"X-koordinat",
	"Y-koordinat",
	"Orderinfo Description",
	"Customer Category",
}

// ConnectorWOC marks rows created from a WOC export.
const ConnectorWOC = "WOC"

// Row is one board row. Field order matches Columns; category cells hold
// board labels, list cells are joined with ", ".
type Row struct {
	Item                  string `json:"Item"`
	Address               string `json:"Adresse"`
	Municipality          string `json:"Kommune"`
	Region                string `json:"Fylke"`
	Customer              string `json:"Kunde"`
	Phone                 string `json:"Telefon"`
	IssuedDate            string `json:"Issued Date"`
	BookBy                string `json:"Bookes innen"`
	OrderDate             string `json:"Ordredato"`
	Contractor            string `json:"Entreprenør"`
	RegionStatus          string `json:"Fylke Status"`
	EarliestStart         string `json:"Start arbeid tidligst"`
	DeliveryDate          string `json:"Dato leveranse"`
	WOCStatus             string `json:"WOC Status"`
	BCStatus              string `json:"BC Status"`
	UEStatus              string `json:"UE Status"`
	OrderNumber           string `json:"Ordrenummer"`
	CircuitRef            string `json:"Sambandsnummer"`
	Connector             string `json:"WOC/connector"`
	SpiderNumber          string `json:"Spidernummer"`
	DeliveryStatus        string `json:"Status Leveranse"`
	ContractDetail        string `json:"kontraktdetaljer"`
	FiberType             string `json:"Type FTTx"`
	Segment               string `json:"Kunde Kategori"`
	NetworkType           string `json:"GPON/P2P"`
	AreaOfSubject         string `json:"GPON/P2P - WOC"`
	DetailedAreaOfSubject string `json:"GPON/AEG - from detailedAreaOfSubject"`
	AssignmentType        string `json:"Type oppdrag"`
	WOCAssignmentTypes    string `json:"Type oppdrag WOC"`
	LUNumber              string `json:"LU-nummer"`
	LastTransactionDate   string `json:"Last Transaction Date"`
	MainProduct           string `json:"Hovedprodukt"`
	ProductIDs            string `json:"Produkt ID"`
	VULA                  string `json:"VULA ?"`
	ProductDescriptions   string `json:"Beskrivelse av produkt"`
	CoordSystem           string `json:"Coordsys"`
	X                     string `json:"X-koordinat"`
	Y                     string `json:"Y-koordinat"`
	OrderDescription      string `json:"Orderinfo Description"`
	CustomerCategory      string `json:"Customer Category"`
}

// Values returns the cells in Columns order.
func (r Row) Values() []string {
	return []string{
		r.Item,
		r.Address,
		r.Municipality,
		r.Region,
		r.Customer,
		r.Phone,
		r.IssuedDate,
		r.BookBy,
		r.OrderDate,
		r.Contractor,
		r.RegionStatus,
		r.EarliestStart,
		r.DeliveryDate,
		r.WOCStatus,
		r.BCStatus,
		r.UEStatus,
		r.OrderNumber,
		r.CircuitRef,
		r.Connector,
		r.SpiderNumber,
		r.DeliveryStatus,
		r.ContractDetail,
		r.FiberType,
		r.Segment,
		r.NetworkType,
		r.AreaOfSubject,
		r.DetailedAreaOfSubject,
		r.AssignmentType,
		r.WOCAssignmentTypes,
		r.LUNumber,
		r.LastTransactionDate,
		r.MainProduct,
		r.ProductIDs,
		r.VULA,
		r.ProductDescriptions,
		r.CoordSystem,
		r.X,
		r.Y,
		r.OrderDescription,
		r.CustomerCategory,
	}
}

// InSegment reports whether the row belongs to seg's split file.
func (r Row) InSegment(seg classify.Segment) bool {
	return r.Segment == seg.Label()
}

func joinList(items []string) string { return strings.Join(items, ", ") }
