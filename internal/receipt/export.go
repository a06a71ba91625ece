package receipt

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the document as a single-sheet spreadsheet. Amounts stay
// blank where they are not computable.
func ExportXLSX(doc *Document, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Receipt"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	rows := [][]interface{}{
		{doc.Kind.Label()},
		{"Event", doc.EventID},
		{"Date", when(doc.CreatedAt)},
		{"Customer", orDash(doc.CustomerName)},
		{"Phone", orDash(doc.CustomerPhone)},
		{"Address", orDash(doc.CustomerAddress)},
		{"Description", orDash(doc.Description)},
		{},
		{"Item", "Quantity", "Unit", "Value", "Amount"},
	}
	for _, l := range doc.Lines {
		row := []interface{}{l.Name}
		if l.Quantity != nil {
			q, _ := l.Quantity.Float64()
			row = append(row, q)
		} else {
			row = append(row, "")
		}
		row = append(row, l.Unit)
		if l.Value != nil {
			v, _ := l.Value.Float64()
			row = append(row, v)
		} else {
			row = append(row, "")
		}
		if l.Amount != nil {
			a, _ := l.Amount.Float64()
			row = append(row, a)
		} else {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	rows = append(rows, []interface{}{})
	if doc.TotalComplete {
		t, _ := doc.Total.Float64()
		rows = append(rows, []interface{}{"Total", "", "", "", t})
	} else {
		rows = append(rows, []interface{}{"Total not computable (missing quantity or value)"})
	}
	if doc.ItemsUnavailable {
		rows = append(rows, []interface{}{"Line items were unavailable for this event."})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("set row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
