package export

import (
	"bytes"

	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/usecase/shared"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName  = "Rentals"
	dateLayout = "2006-01-02"
)

var headers = []string{
	"Rental number",
	"Status",
	"Employee",
	"Purpose",
	"Project code",
	"Start date",
	"End date",
	"Items",
	"Shortage",
	"Total cost",
	"Approved by",
	"Created",
}

type XLSXExporter struct{}

func NewXLSXExporter() shared.RentalExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXExporter) FileExtension() string {
	return "xlsx"
}

// Render writes one header row and one row per rental.
func (e *XLSXExporter) Render(rows []shared.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, errs.Wrap(err, "rename sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, errs.Wrap(err, "create header style")
	}

	for col, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, errs.Wrap(err, "write header")
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return nil, errs.Wrap(err, "style header")
	}

	for i, r := range rows {
		cost, _ := r.TotalCost.Round(2).Float64()
		values := []any{
			r.RentalNumber,
			r.Status,
			r.Employee,
			r.Purpose,
			r.ProjectCode,
			r.StartDate.Format(dateLayout),
			r.EndDate.Format(dateLayout),
			r.ItemCount,
			r.DeficitQuantity,
			cost,
			r.ApprovedBy,
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, errs.Wrapf(err, "write row %d", i+2)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "L", 16); err != nil {
		return nil, errs.Wrap(err, "set column width")
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, errs.Wrap(err, "freeze header")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errs.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}
