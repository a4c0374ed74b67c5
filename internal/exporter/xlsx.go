package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"loaneda/pkg/contracts/domain"
)

const defaultSheet = "Sheet1"

// WriteXLSX saves one workbook with a sheet per report table
func WriteXLSX(path string, rep *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, t := range Tables(rep) {
		idx, err := f.NewSheet(t.Sheet)
		if err != nil {
			return fmt.Errorf("create sheet %s: %w", t.Sheet, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, t, header); err != nil {
			return fmt.Errorf("write sheet %s: %w", t.Sheet, err)
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table, headerStyle int) error {
	headers := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(t.Sheet, "A1", &headers); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.Sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			// typed nil pointers must become untyped nil to stay empty
			if p, ok := v.(*float64); ok {
				if p == nil {
					continue
				}
				v = *p
			}
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Sheet, cell, &cells); err != nil {
			return err
		}
	}

	return f.SetColWidth(t.Sheet, "A", "A", 30)
}
