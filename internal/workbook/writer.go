package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/project"
)

// Write serializes the projected tables as one sheet each, in order, and
// writes the workbook to w.
func Write(tables []project.Table, w io.Writer) error {
	f, err := build(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile serializes the projected tables to a workbook at path.
func WriteFile(tables []project.Table, path string) error {
	f, err := build(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func build(tables []project.Table) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, table := range tables {
		if i == 0 {
			// excelize starts every workbook with one default sheet.
			if err := f.SetSheetName(f.GetSheetName(0), table.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to name sheet %s: %w", table.Name, err)
			}
		} else {
			if _, err := f.NewSheet(table.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to create sheet %s: %w", table.Name, err)
			}
		}

		header := make([]any, len(table.Header))
		for j, h := range table.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header for %s: %w", table.Name, err)
		}

		for r, row := range table.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			values := make([]any, len(row))
			copy(values, row)
			if err := f.SetSheetRow(table.Name, cell, &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d of %s: %w", r+2, table.Name, err)
			}
		}
	}

	return f, nil
}
