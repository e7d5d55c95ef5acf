package workbook

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/profile"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/project"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/standardize"
)

// Preview summarizes a previously written standardized workbook for display.
type Preview struct {
	Headers        []string            `json:"headers"`
	Rows           []map[string]string `json:"data"`
	TotalRecords   int                 `json:"total_records"`
	PreviewRecords int                 `json:"preview_records"`
	AccountNumber  string              `json:"-"`
	AccountName    string              `json:"-"`
	Format         string              `json:"format"`
	DateRange      string              `json:"date_range,omitempty"`
}

// ReadPreview reads up to maxRows transactions plus the account metadata back
// out of a standardized workbook at path.
func ReadPreview(path string, maxRows int) (*Preview, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer r.Close()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	p := &Preview{Format: "Standardized"}

	sheet := project.TransactionsSheet
	if !hasSheet(f, sheet) {
		// Fall back to the first sheet for workbooks we did not write.
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	if len(rows) > 0 {
		p.Headers = rows[0]
		p.TotalRecords = len(rows) - 1
	}

	var minDate, maxDate time.Time
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		record := make(map[string]string, len(p.Headers))
		for j, h := range p.Headers {
			if j < len(row) {
				record[h] = row[j]
			} else {
				record[h] = ""
			}
		}
		if len(p.Rows) < maxRows {
			p.Rows = append(p.Rows, record)
		}

		if t, ok := standardize.ParseDate(record[string(profile.TranDate)]); ok {
			if minDate.IsZero() || t.Before(minDate) {
				minDate = t
			}
			if maxDate.IsZero() || t.After(maxDate) {
				maxDate = t
			}
		}
	}
	p.PreviewRecords = len(p.Rows)

	if !minDate.IsZero() {
		p.DateRange = fmt.Sprintf("%s to %s",
			minDate.Format("02/01/2006"), maxDate.Format("02/01/2006"))
	}

	if hasSheet(f, project.MetadataSheet) {
		meta, err := f.GetRows(project.MetadataSheet)
		if err == nil {
			for _, row := range meta {
				if len(row) < 1 {
					continue
				}
				label := strings.TrimSpace(row[0])
				value := ""
				if len(row) > 1 {
					value = strings.TrimSpace(row[1])
				}
				// Downstream matches labels by substring; so do we.
				switch {
				case strings.Contains(label, "Account Number"):
					p.AccountNumber = value
				case strings.Contains(label, "Account Name"):
					p.AccountName = value
				case strings.Contains(label, "Original Format"):
					p.Format = value
				}
			}
		}
	}

	return p, nil
}

func hasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}
