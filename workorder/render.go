package workorder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

const (
	fontFamily   = "Arial"
	bottomMargin = 20.0
	headerBand   = 15.0
)

var tableRule = [3]int{200, 200, 200}

// Renderer lays Documents out as A4 PDF pages. Now stamps the header band
// and the document metadata.
type Renderer struct {
	Now func() time.Time
}

func NewRenderer() *Renderer { return &Renderer{Now: time.Now} }

// Render writes doc as a PDF to w.
func (r *Renderer) Render(w io.Writer, doc Document) error {
	pdf := r.newPDF(doc)
	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	p.header(doc.Header)
	p.contact(doc.Contact)
	p.address(doc.Address)
	p.orderInfo(doc.OrderInfo)
	p.delivery(doc.Delivery, doc.Appointment)
	p.services(doc.Services)
	p.dependents(doc.Dependents)
	p.additional(doc.Additional)
	p.remarks(doc.Remarks)
	p.cpe(doc.CPE)
	p.references(doc.References)
	p.lines(doc.Lines)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render %s: %w", doc.Item, err)
	}
	return pdf.Output(w)
}

// RenderFile writes doc to path, creating parent directories.
func (r *Renderer) RenderFile(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return woc.Setup("create output directory", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return woc.Setup("create pdf", path, err)
	}
	if err := r.Render(f, doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return woc.Setup("write pdf", path, err)
	}
	return nil
}

func (r *Renderer) newPDF(doc Document) *fpdf.Fpdf {
	now := time.Now
	if r != nil && r.Now != nil {
		now = r.Now
	}
	stamp := now()

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Header.Title, true)
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(true, bottomMargin)

	pdf.SetHeaderFunc(func() {
		pageW, _ := pdf.GetPageSize()
		pdf.SetFillColor(230, 230, 230)
		pdf.Rect(0, 0, pageW, headerBand, "F")

		pdf.SetXY(5, 5)
		pdf.SetFont(fontFamily, "", 10)
		pdf.CellFormat(0, 0, stamp.Format("02.01.2006, 15:04"), "", 0, "L", false, 0, "")

		pdf.SetY(3)
		pdf.SetFont(fontFamily, "B", 12)
		pdf.CellFormat(0, 10, "WOC 2 Work Order", "", 0, "C", false, 0, "")
		pdf.Ln(11)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Side %d/{nb}", pdf.PageNo())), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()
	return pdf
}

// =============================================================================
// PAGE PRIMITIVES
// =============================================================================

type page struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p *page) font(style string, size float64) { p.pdf.SetFont(fontFamily, style, size) }

// line writes one full-width line.
func (p *page) line(h float64, text string) {
	p.pdf.CellFormat(0, h, p.tr(text), "", 1, "L", false, 0, "")
}

func (p *page) cell(w, h float64, text, border string, ln int) {
	p.pdf.CellFormat(w, h, p.tr(text), border, ln, "L", false, 0, "")
}

func (p *page) para(w, h float64, text, border string) {
	p.pdf.MultiCell(w, h, p.tr(text), border, "L", false)
}

// label writes the small bold caption above a block.
func (p *page) label(text string) {
	p.font("B", 8)
	p.line(3, text)
	p.font("", 10)
}

func (p *page) fields(fields []Field) {
	for _, f := range fields {
		p.line(4, f.String())
	}
}

// section starts a titled section, first breaking the page when fewer than
// needed millimetres are left.
func (p *page) section(title string, needed float64) {
	_, pageH := p.pdf.GetPageSize()
	if p.pdf.GetY()+needed >= pageH-bottomMargin {
		p.pdf.AddPage()
	}
	p.font("B", 11)
	p.pdf.SetFillColor(200, 200, 200)
	p.pdf.CellFormat(0, 8, p.tr(title), "", 1, "L", true, 0, "")
	p.pdf.Ln(2)
	p.font("", 10)
}

type column struct {
	title string
	width float64
}

// table writes a header row and data rows with light bottom rules.
func (p *page) table(cols []column, rows [][]string) {
	p.pdf.SetDrawColor(tableRule[0], tableRule[1], tableRule[2])
	p.font("B", 8)
	for i, c := range cols {
		p.cell(c.width, 5, c.title, "B", lnFor(i, len(cols)))
	}
	p.font("", 10)
	for _, row := range rows {
		for i, c := range cols {
			p.cell(c.width, 5, row[i], "B", lnFor(i, len(cols)))
		}
	}
	p.pdf.Ln(4)
}

func lnFor(i, n int) int {
	if i == n-1 {
		return 1
	}
	return 0
}

// =============================================================================
// SECTIONS
// =============================================================================

func (p *page) header(h Header) {
	p.font("B", 14)
	p.line(10, h.Title)

	p.font("", 8)
	cols := h.Columns()
	for row := range cols[0] {
		for c := range cols {
			if row < len(cols[c]) {
				p.cell(60, 5, cols[c][row].String(), "", 0)
			}
		}
		p.pdf.Ln(-1)
	}
	p.pdf.Ln(6)
}

func (p *page) contact(c ContactSection) {
	p.section("Contact Info", 0)

	for _, party := range []struct {
		label string
		c     Company
	}{{"Buyer", c.Buyer}, {"Supplier", c.Supplier}} {
		p.label(party.label)
		p.line(4, party.c.Name)
		p.line(4, "Org.nr: "+party.c.OrgNumber)
		p.pdf.Ln(2)
	}

	p.label("Contacts")
	p.fields([]Field{{"Name", c.Name}, {"Role", c.Role}, {"Phone", c.Phone}, {"Email", c.Email}})
	p.pdf.Ln(2)

	p.label("ISP")
	p.line(4, c.ISP)
	p.pdf.Ln(4)
}

func (p *page) address(a AddressSection) {
	p.section("WorkOrder Address", 0)
	switch a.Source {
	case AddressNone:
		p.line(3, NoAddress)
	case AddressUser1:
		p.font("B", 10)
		p.line(3, "User1")
		p.font("", 10)
		fallthrough
	default:
		p.fields(a.Fields)
	}
	if c := a.Coordinates; c != nil {
		p.line(5, "Coordinates ("+c.System+"):")
		p.line(4, "    X: "+c.X)
		p.line(4, "    Y: "+c.Y)
	}
	p.pdf.Ln(4)
}

func (p *page) orderInfo(info OrderInfo) {
	p.section("Order Information", 50)

	p.label("Description")
	for _, l := range info.Description {
		p.para(0, 4, l, "")
	}
	p.pdf.Ln(2)

	p.label("ConnectionPoint")
	if cp := info.ConnectionPoint; cp == nil {
		p.line(4, NoConnectionPoint)
	} else {
		p.line(4, "Id: "+cp.ID)
		if cp.FullName != "" {
			p.line(4, "FullName: "+cp.FullName)
		}
		if cp.Remark != "" {
			p.para(0, 4, cp.Remark, "")
		}
	}
	p.pdf.Ln(4)
}

func (p *page) delivery(d DeliveryDates, a *AppointmentSection) {
	p.section("Delivery dates", 30)
	p.fields(d.Fields())
	p.pdf.Ln(4)

	if a == nil {
		return
	}
	p.section("Appointment", 30)
	p.fields([]Field{{"Type", a.Type}, {"From", a.From}, {"To", a.To}})
	p.pdf.Ln(4)
}

func (p *page) services(entries []ServiceEntry) {
	if len(entries) == 0 {
		return
	}
	p.section("Service details", 50)
	for _, e := range entries {
		p.label(e.ResourceType)
		p.fields(e.Fields)
		p.pdf.Ln(2)
	}
	p.pdf.Ln(4)
}

func (p *page) dependents(rows []DependentOrderRow) {
	if len(rows) == 0 {
		return
	}
	p.section("DependentWorkOrders", 0)
	cols := []column{
		{"WorkorderId", 25}, {"ContractorName", 30}, {"ContactPerson", 30}, {"Role", 15},
		{"Phone", 20}, {"Email", 25}, {"PreferredContactChannel", 35},
	}
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.WorkOrderID, r.ContractorName, r.ContactPerson, r.Role, r.Phone, r.Email, r.PreferredChannel})
	}
	p.table(cols, data)
}

func (p *page) additional(items []AdditionalInfoItem) {
	if len(items) == 0 {
		return
	}
	p.section("Additional Information", 0)
	for _, it := range items {
		p.label(it.Description)
		p.fields(it.Characteristics)
		p.pdf.Ln(2)
	}
	p.pdf.Ln(2)
}

func (p *page) remarks(entries []RemarkEntry) {
	if len(entries) == 0 {
		return
	}
	p.section("Remarks", 0)
	for _, r := range entries {
		p.label(r.Title)
		p.font("", 6)
		p.para(0, 4, "    - "+r.Text, "")
		p.pdf.Ln(2)
	}
	p.pdf.Ln(2)
}

func (p *page) cpe(rows []CPERow) {
	if len(rows) == 0 {
		return
	}
	p.section("CPE", 0)
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Name, r.SerialNumber, r.OnSitePairing})
	}
	p.table([]column{{"Name", 60}, {"Serial Number", 60}, {"On-site pairing", 40}}, data)
}

func (p *page) references(rows []ReferenceRow) {
	if len(rows) == 0 {
		return
	}
	p.section("ExternalOrderReferences", 0)
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Name, r.Number})
	}
	p.table([]column{{"ReferenceName", 60}, {"ReferenceNumber", 100}}, data)
}

// lines is the order-line table. Product names wrap inside their column,
// so each row is as tall as its name.
func (p *page) lines(rows []OrderLineRow) {
	if len(rows) == 0 {
		return
	}
	p.section("Orderlines", 0)
	p.pdf.SetDrawColor(tableRule[0], tableRule[1], tableRule[2])

	const nameWidth = 80.0
	p.font("B", 8)
	p.cell(15, 5, "LineNo", "B", 0)
	p.cell(25, 5, "ProductId", "B", 0)
	p.cell(nameWidth, 5, "ProductName", "B", 0)
	p.cell(30, 5, "Quantity", "B", 0)
	p.cell(40, 5, "Project", "B", 1)

	p.font("", 10)
	for _, r := range rows {
		name := p.tr(r.ProductName)
		n := len(p.pdf.SplitLines([]byte(name), nameWidth))
		if n < 1 {
			n = 1
		}
		h := float64(n) * 5

		p.cell(15, h, r.LineNumber, "B", 0)
		p.cell(25, h, r.ProductID, "B", 0)
		x, y := p.pdf.GetXY()
		p.pdf.MultiCell(nameWidth, h/float64(n), name, "B", "L", false)
		p.pdf.SetXY(x+nameWidth, y)
		p.cell(30, h, r.Quantity, "B", 0)
		p.cell(40, h, strings.TrimSpace(r.Project), "B", 1)
	}
	p.pdf.Ln(4)
}
