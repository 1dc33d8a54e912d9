package lookup

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// Sheet points at one worksheet. An empty Name selects the first sheet.
type Sheet struct {
	Path string
	Name string
}

// Workbooks locates the three operations workbooks.
type Workbooks struct {
	Regions     Sheet
	Contractors Sheet
	Products    Sheet
}

// Column positions in the operations workbooks. The region and contractor
// sheets are read positionally (their headers vary between exports); the
// product sheet is read by header name.
const (
	regionColRegion       = 0 // Fylkesnavn
	regionColMunicipality = 2 // Kommunenavn

	contractorColPostalCode = 3 // Postnummer
	contractorColContractor = 5 // Entreprenør

	productHeaderCode     = "Produktkode"
	productHeaderName     = "Produkt"
	productHeaderPriority = "Prioritering"
)

// LoadWorkbooks reads all three tables. Any unreadable workbook is a setup
// error: the batch cannot classify without its reference data.
func LoadWorkbooks(wb Workbooks) (*Tables, error) {
	regions, err := readRegions(wb.Regions)
	if err != nil {
		return nil, err
	}
	contractors, err := readContractors(wb.Contractors)
	if err != nil {
		return nil, err
	}
	products, err := readProducts(wb.Products)
	if err != nil {
		return nil, err
	}
	return NewTables(regions, contractors, products), nil
}

func readSheet(s Sheet) ([][]string, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, woc.Setup("open workbook", s.Path, err)
	}
	defer f.Close()

	name := s.Name
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, woc.Setup("read workbook", s.Path, fmt.Errorf("no sheets"))
		}
		name = sheets[0]
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, woc.Setup("read sheet "+name, s.Path, err)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func readRegions(s Sheet) ([]RegionRow, error) {
	rows, err := readSheet(s)
	if err != nil {
		return nil, err
	}
	var out []RegionRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		m := cell(row, regionColMunicipality)
		if m == "" {
			continue
		}
		out = append(out, RegionRow{Municipality: m, Region: cell(row, regionColRegion)})
	}
	return out, nil
}

func readContractors(s Sheet) ([]ContractorRow, error) {
	rows, err := readSheet(s)
	if err != nil {
		return nil, err
	}
	var out []ContractorRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		pc := cell(row, contractorColPostalCode)
		if pc == "" {
			continue
		}
		out = append(out, ContractorRow{PostalCode: pc, Contractor: cell(row, contractorColContractor)})
	}
	return out, nil
}

func readProducts(s Sheet) ([]Product, error) {
	rows, err := readSheet(s)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	col := make(map[string]int)
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, h := range []string{productHeaderCode, productHeaderName, productHeaderPriority} {
		if _, ok := col[h]; !ok {
			return nil, woc.Setup("read products", s.Path, fmt.Errorf("missing column %q", h))
		}
	}

	var out []Product
	for i, row := range rows[1:] {
		code := cell(row, col[productHeaderCode])
		if code == "" {
			continue
		}
		p := Product{Code: code, Name: cell(row, col[productHeaderName]), Row: i}
		// Rows without a numeric priority are still described, never ranked.
		if prio, err := decimal.NewFromString(cell(row, col[productHeaderPriority])); err == nil {
			p.Priority = prio
			p.Ranked = true
		}
		out = append(out, p)
	}
	return out, nil
}
