/*
Package lookup provides the reference tables the extractors consult.

PURPOSE:
  Region-by-municipality, contractor-by-postal-code and product
  priority/name-by-code are maintained by operations in spreadsheets.
  They are loaded once at startup into immutable Tables and passed by
  reference to the extraction functions. A miss is never fatal: callers
  get a *woc.LookupMissError, record a diagnostic and carry on.

KEY CONCEPTS:
  - Regions / Contractors / Products: single-purpose query interfaces
  - Tables: the in-memory implementation of all three
  - NormalizePostalCode: the key normalization shared by every source

IMPLEMENTATIONS:
  - lookup/workbook.go: Load Tables from the operations workbooks
  - store/sqlite: Persist Tables and load them back

SEE ALSO:
  - extract/address.go: Region and contractor consumers
  - extract/products.go: Priority consumer
*/
package lookup

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// Table names used in miss errors, diagnostics and metrics.
const (
	TableRegions     = "regions"
	TableContractors = "contractors"
	TableProducts    = "products"
)

// =============================================================================
// INTERFACES
// =============================================================================

// Regions resolves a municipality name to its region (fylke).
// Matching is case-insensitive on the trimmed name.
type Regions interface {
	Region(municipality string) (string, error)
}

// Contractors resolves a postal code to the contractor covering it.
type Contractors interface {
	Contractor(postalCode string) (string, error)
}

// Products resolves product codes.
type Products interface {
	// Product returns the best-ranked entry for an exact code.
	Product(code string) (Product, error)

	// Describe returns the display name for a code, case-insensitively.
	Describe(code string) (string, error)
}

// =============================================================================
// ROWS
// =============================================================================

type RegionRow struct {
	Municipality string
	Region       string
}

type ContractorRow struct {
	PostalCode string
	Contractor string
}

// Product is one row of the product priority table. Lower Priority means
// more important. Row is the position in the source table and breaks ties.
// Unranked rows carry a name but take no part in priority selection.
type Product struct {
	Code     string
	Name     string
	Priority decimal.Decimal
	Ranked   bool
	Row      int
}

// Outranks reports whether p should be preferred over other.
func (p Product) Outranks(other Product) bool {
	if !p.Priority.Equal(other.Priority) {
		return p.Priority.LessThan(other.Priority)
	}
	return p.Row < other.Row
}

// Label renders "CODE: Name", the form used for the main product column.
func (p Product) Label() string {
	return p.Code + ": " + p.Name
}

// =============================================================================
// TABLES - Immutable in-memory implementation
// =============================================================================

type Tables struct {
	regions      map[string]string
	contractors  map[string]string
	products     map[string]Product
	descriptions map[string]string

	regionRows     []RegionRow
	contractorRows []ContractorRow
	productRows    []Product
}

var (
	_ Regions     = (*Tables)(nil)
	_ Contractors = (*Tables)(nil)
	_ Products    = (*Tables)(nil)
)

// NewTables indexes the given rows. For duplicate keys the first region and
// contractor row wins; for products the best-ranked row wins.
func NewTables(regions []RegionRow, contractors []ContractorRow, products []Product) *Tables {
	t := &Tables{
		regions:        make(map[string]string, len(regions)),
		contractors:    make(map[string]string, len(contractors)),
		products:       make(map[string]Product, len(products)),
		descriptions:   make(map[string]string, len(products)),
		regionRows:     append([]RegionRow(nil), regions...),
		contractorRows: append([]ContractorRow(nil), contractors...),
		productRows:    append([]Product(nil), products...),
	}
	for _, r := range regions {
		k := municipalityKey(r.Municipality)
		if _, ok := t.regions[k]; !ok && k != "" {
			t.regions[k] = r.Region
		}
	}
	for _, c := range contractors {
		k := NormalizePostalCode(c.PostalCode)
		if _, ok := t.contractors[k]; !ok && k != "" {
			t.contractors[k] = c.Contractor
		}
	}
	for _, p := range products {
		if p.Code == "" {
			continue
		}
		if cur, ok := t.products[p.Code]; p.Ranked && (!ok || p.Outranks(cur)) {
			t.products[p.Code] = p
		}
		lk := strings.ToLower(p.Code)
		if _, ok := t.descriptions[lk]; !ok {
			t.descriptions[lk] = p.Name
		}
	}
	return t
}

// Empty returns Tables with no entries; every lookup misses.
func Empty() *Tables { return NewTables(nil, nil, nil) }

func (t *Tables) Region(municipality string) (string, error) {
	if r, ok := t.regions[municipalityKey(municipality)]; ok {
		return r, nil
	}
	return "", &woc.LookupMissError{Table: TableRegions, Key: municipality}
}

func (t *Tables) Contractor(postalCode string) (string, error) {
	if c, ok := t.contractors[NormalizePostalCode(postalCode)]; ok {
		return c, nil
	}
	return "", &woc.LookupMissError{Table: TableContractors, Key: postalCode}
}

func (t *Tables) Product(code string) (Product, error) {
	if p, ok := t.products[code]; ok {
		return p, nil
	}
	return Product{}, &woc.LookupMissError{Table: TableProducts, Key: code}
}

func (t *Tables) Describe(code string) (string, error) {
	if name, ok := t.descriptions[strings.ToLower(code)]; ok {
		return name, nil
	}
	return "", &woc.LookupMissError{Table: TableProducts, Key: code}
}

// Rows expose the source rows, in source order, for persistence.
func (t *Tables) RegionRows() []RegionRow         { return append([]RegionRow(nil), t.regionRows...) }
func (t *Tables) ContractorRows() []ContractorRow { return append([]ContractorRow(nil), t.contractorRows...) }
func (t *Tables) ProductRows() []Product          { return append([]Product(nil), t.productRows...) }

// Counts returns the number of source rows per table.
func (t *Tables) Counts() map[string]int {
	return map[string]int{
		TableRegions:     len(t.regionRows),
		TableContractors: len(t.contractorRows),
		TableProducts:    len(t.productRows),
	}
}

// =============================================================================
// KEY NORMALIZATION
// =============================================================================

func municipalityKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizePostalCode trims the code and restores leading zeros that
// spreadsheets drop from numeric cells ("301" -> "0301").
func NormalizePostalCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || len(code) >= 4 {
		return code
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return code
		}
	}
	return strings.Repeat("0", 4-len(code)) + code
}
