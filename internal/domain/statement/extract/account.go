// Package extract pulls account metadata and raw transaction rows out of a
// grid using a bound layout profile.
package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/grid"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/profile"
)

// AccountInfo holds statement-level metadata. Every field is optional;
// absence is a valid outcome, never an error.
type AccountInfo struct {
	AccountNumber  string           `json:"account_number,omitempty"`
	AccountName    string           `json:"account_name,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
}

var (
	// accountNumberPattern matches the first run of 10+ consecutive digits.
	accountNumberPattern = regexp.MustCompile(`(\d{10,})`)
	// accountNamePattern matches a run of uppercase letters and spaces of
	// length >= 11.
	accountNamePattern = regexp.MustCompile(`\b[A-Z][A-Z\s]{10,}\b`)
)

// ExtractAccountInfo scans the profile's metadata rows and extracts whatever
// account details it can find. The first match wins per field; a field
// already set is never overwritten by a later row.
func ExtractAccountInfo(g grid.Grid, p profile.Profile) AccountInfo {
	var info AccountInfo

	for _, rowIndex := range p.AccountInfoRows {
		row := g.Row(rowIndex)
		if len(row) == 0 {
			continue
		}
		rowText := g.RowText(rowIndex)

		if info.AccountNumber == "" {
			if m := accountNumberPattern.FindString(rowText); m != "" {
				info.AccountNumber = m
			}
		}

		if info.AccountName == "" {
			if m := accountNamePattern.FindString(rowText); m != "" {
				name := strings.TrimSpace(m)
				// Guards against label phrases like "ACCOUNT NUMBER".
				if !strings.Contains(name, "ACCOUNT") {
					info.AccountName = name
				}
			}
		}

		for i, c := range row {
			if c.Kind() != grid.KindText {
				continue
			}
			label := strings.ToLower(c.Text())
			switch {
			case strings.Contains(label, "opening balance") && info.OpeningBalance == nil:
				v := grid.ParseAmount(g.Cell(rowIndex, i+1))
				info.OpeningBalance = &v
			case strings.Contains(label, "closing balance") && info.ClosingBalance == nil:
				v := grid.ParseAmount(g.Cell(rowIndex, i+1))
				info.ClosingBalance = &v
			}
		}
	}

	return info
}
