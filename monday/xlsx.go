package monday

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/classify"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// SheetName is the worksheet the board import reads.
const SheetName = "Data"

// Default file names of the combined and split imports.
const (
	CombinedFile = "Monday_Import.xlsx"
	BusinessFile = "Monday_Import - B.xlsx"
	ConsumerFile = "Monday_Import - P.xlsx"
)

// Split partitions rows into the business and consumer imports. Rows whose
// segment needs review stay only in the combined import.
func Split(rows []Row) (business, consumer []Row) {
	for _, r := range rows {
		switch {
		case r.InSegment(classify.SegmentBusiness):
			business = append(business, r)
		case r.InSegment(classify.SegmentConsumer):
			consumer = append(consumer, r)
		}
	}
	return business, consumer
}

// Workbook renders rows into a new workbook with the header in row 1.
// The caller closes the returned file.
func Workbook(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, err
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := sw.SetRow("A1", cells(Columns), excelize.RowOpts{StyleID: bold}); err != nil {
		f.Close()
		return nil, err
	}
	for i, r := range rows {
		ref, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(ref, cells(r.Values())); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// cells keeps blank values as empty cells rather than empty strings.
func cells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if v != "" {
			out[i] = v
		}
	}
	return out
}

// WriteWorkbook streams an xlsx of rows to w.
func WriteWorkbook(w io.Writer, rows []Row) error {
	f, err := Workbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveWorkbook writes rows to path, replacing any previous file.
func SaveWorkbook(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return woc.Setup("create output directory", filepath.Dir(path), err)
	}
	f, err := Workbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return woc.Setup("save workbook", path, err)
	}
	return nil
}

// Files names the three imports written by SaveImports.
type Files struct {
	Combined string
	Business string
	Consumer string
}

// SaveImports writes the combined import and its two segment splits.
func SaveImports(files Files, rows []Row) error {
	business, consumer := Split(rows)
	for _, out := range []struct {
		path string
		rows []Row
	}{
		{files.Combined, rows},
		{files.Business, business},
		{files.Consumer, consumer},
	} {
		if err := SaveWorkbook(out.path, out.rows); err != nil {
			return err
		}
	}
	return nil
}

// ReadWorkbook reads rows back from a Monday import. It is the inverse of
// Workbook and is used to check written files.
func ReadWorkbook(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, woc.Setup("open workbook", path, err)
	}
	defer f.Close()

	raw, err := f.GetRows(SheetName)
	if err != nil {
		return nil, woc.Setup("read sheet "+SheetName, path, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []Row
	for _, cellsRow := range raw[1:] {
		values := make([]string, len(Columns))
		copy(values, cellsRow)
		rows = append(rows, rowFromValues(values))
	}
	return rows, nil
}

func rowFromValues(v []string) Row {
	return Row{
		Item: v[0], Address: v[1], Municipality: v[2], Region: v[3], Customer: v[4], Phone: v[5],
		IssuedDate: v[6], BookBy: v[7], OrderDate: v[8], Contractor: v[9], RegionStatus: v[10],
		EarliestStart: v[11], DeliveryDate: v[12], WOCStatus: v[13], BCStatus: v[14], UEStatus: v[15],
		OrderNumber: v[16], CircuitRef: v[17], Connector: v[18], SpiderNumber: v[19],
		DeliveryStatus: v[20], ContractDetail: v[21], FiberType: v[22], Segment: v[23],
		NetworkType: v[24], AreaOfSubject: v[25], DetailedAreaOfSubject: v[26], AssignmentType: v[27],
		WOCAssignmentTypes: v[28], LUNumber: v[29], LastTransactionDate: v[30], MainProduct: v[31],
		ProductIDs: v[32], VULA: v[33], ProductDescriptions: v[34], CoordSystem: v[35],
		X: v[36], Y: v[37], OrderDescription: v[38], CustomerCategory: v[39],
	}
}
