// Package standardize converts raw transaction rows into the canonical
// seven-field schema: mapped columns, normalized dates and amounts, resolved
// debit/credit semantics. Cell-level conversion never fails; unparseable
// values degrade to their raw textual representation.
package standardize

import (
	"sort"
	"strings"
	"time"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/extract"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/grid"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/profile"
)

// Target date formats accepted from callers. Anything else falls back to the
// default.
const (
	DateFormatDMY     = "DD/MM/YYYY"
	DateFormatMDY     = "MM/DD/YYYY"
	DateFormatISO     = "YYYY-MM-DD"
	DefaultDateFormat = DateFormatDMY
)

var dateLayouts = map[string]string{
	DateFormatDMY: "02/01/2006",
	DateFormatMDY: "01/02/2006",
	DateFormatISO: "2006-01-02",
}

// serialEpoch is the spreadsheet serial-date epoch. Serial day counts are
// nominally days since 1900-01-01, but the format's historical leap-year
// defect means day N lands on 1899-12-30 + N days. Preserved exactly; do not
// simplify.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseLayouts are tried in order when parsing textual dates. Day-first comes
// before month-first: the statements this system ingests are day-first.
var parseLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"02/01/06",
	"02-01-06",
	"2 Jan 2006",
	"2-Jan-2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

// Transaction is one standardized transaction: exactly the seven canonical
// fields, string-valued, empty string meaning "not applicable".
type Transaction map[profile.Field]string

// Degradation records one cell that could not be converted cleanly and was
// emitted best-effort instead. Degradations never fail a transform; they
// exist so callers can log them.
type Degradation struct {
	Row   int
	Field profile.Field
	Value string
}

// Apply standardizes raw transactions in order, preserving their relative
// ordering in the output. The returned degradations identify cells whose
// conversion fell back to raw text or zero.
func Apply(raws []extract.RawTransaction, p profile.Profile, dateFormat string) ([]Transaction, []Degradation) {
	out := make([]Transaction, 0, len(raws))
	var degraded []Degradation
	for i, raw := range raws {
		tx, degs := standardizeOne(raw, p, dateFormat)
		for _, d := range degs {
			d.Row = i
			degraded = append(degraded, d)
		}
		out = append(out, tx)
	}
	return out, degraded
}

func standardizeOne(raw extract.RawTransaction, p profile.Profile, dateFormat string) (Transaction, []Degradation) {
	tx := Transaction{}
	var degraded []Degradation

	// Mapping iteration is sorted by raw label so that output is
	// deterministic when two labels map to the same canonical field.
	labels := make([]string, 0, len(p.Mapping))
	for label := range p.Mapping {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		cell, ok := raw[label]
		if !ok || cell.IsAbsent() {
			continue
		}
		field := p.Mapping[label]
		switch {
		case strings.Contains(string(field), "Date"):
			tx[field] = Date(cell, dateFormat)
			if dateDegraded(cell) {
				degraded = append(degraded, Degradation{Field: field, Value: cell.String()})
			}
		case field == profile.Debit, field == profile.Credit, field == profile.Balance:
			tx[field] = Amount(cell)
			if amountDegraded(cell) {
				degraded = append(degraded, Degradation{Field: field, Value: cell.String()})
			}
		default:
			tx[field] = cell.String()
		}
	}

	for _, field := range profile.StandardFields {
		if _, ok := tx[field]; !ok {
			tx[field] = ""
		}
	}

	resolveDebitCredit(tx, raw)

	return tx, degraded
}

// dateDegraded reports whether Date would emit the raw representation rather
// than a converted calendar date.
func dateDegraded(c grid.Cell) bool {
	switch c.Kind() {
	case grid.KindNumber:
		v := c.Number()
		return v != 0 && v <= 1000
	case grid.KindText:
		s := strings.TrimSpace(c.Text())
		if s == "" {
			return false
		}
		_, ok := ParseDate(s)
		return !ok
	}
	return false
}

// amountDegraded reports whether Amount would emit zero for a cell that
// carried non-empty, non-numeric text.
func amountDegraded(c grid.Cell) bool {
	if c.Kind() != grid.KindText || strings.TrimSpace(c.Text()) == "" {
		return false
	}
	_, ok := grid.TryParseAmount(c)
	return !ok
}

// resolveDebitCredit handles formats that report one signed Amount column
// instead of split debit/credit columns, then normalizes mutual exclusivity.
// Idempotent; never overwrites a value already present.
func resolveDebitCredit(tx Transaction, raw extract.RawTransaction) {
	if cell, ok := raw["Amount"]; ok && tx[profile.Debit] == "" && tx[profile.Credit] == "" {
		amount := grid.ParseAmount(cell)
		if amount.IsNegative() {
			tx[profile.Debit] = amount.Abs().StringFixed(2)
			tx[profile.Credit] = ""
		} else {
			tx[profile.Credit] = amount.StringFixed(2)
			tx[profile.Debit] = ""
		}
	}

	if tx[profile.Debit] != "" && tx[profile.Credit] == "" {
		tx[profile.Credit] = ""
	}
	if tx[profile.Credit] != "" && tx[profile.Debit] == "" {
		tx[profile.Debit] = ""
	}
}

// Date renders a cell as a calendar date in the target format. Serial numbers
// are resolved against the spreadsheet epoch, text is parsed best-effort, and
// temporal cells pass through. Anything unparseable returns the original
// textual representation verbatim rather than failing.
func Date(c grid.Cell, targetFormat string) string {
	layout, ok := dateLayouts[targetFormat]
	if !ok {
		layout = dateLayouts[DefaultDateFormat]
	}

	switch c.Kind() {
	case grid.KindAbsent:
		return ""
	case grid.KindNumber:
		v := c.Number()
		if v == 0 {
			return ""
		}
		if v > 1000 {
			return serialEpoch.AddDate(0, 0, int(v)).Format(layout)
		}
		return c.String()
	case grid.KindText:
		s := strings.TrimSpace(c.Text())
		if s == "" {
			return ""
		}
		if t, ok := ParseDate(s); ok {
			return t.Format(layout)
		}
		return c.Text()
	case grid.KindTime:
		return c.Time().Format(layout)
	}
	return c.String()
}

// ParseDate parses a textual calendar date against the known layouts,
// day-first before month-first.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Amount renders a cell as fixed two-decimal text. Empty input yields the
// empty string, never "0.00": "not reported" and "reported as zero" are
// distinct outcomes.
func Amount(c grid.Cell) string {
	if c.IsAbsent() {
		return ""
	}
	if c.Kind() == grid.KindText && strings.TrimSpace(c.Text()) == "" {
		return ""
	}
	return grid.ParseAmount(c).StringFixed(2)
}
