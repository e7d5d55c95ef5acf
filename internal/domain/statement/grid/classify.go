package grid

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Textual date shapes accepted by IsDate, kept as a table so new shapes can
// be added without touching classification control flow.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}[/\-]\d{1,2}[/\-]\d{4}$`), // DD/MM/YYYY or DD-MM-YYYY
	regexp.MustCompile(`^\d{4}[/\-]\d{1,2}[/\-]\d{1,2}$`), // YYYY/MM/DD or YYYY-MM-DD
	regexp.MustCompile(`^\d{1,2}[/\-]\d{1,2}[/\-]\d{2}$`), // DD/MM/YY or DD-MM-YY
}

// amountNoise matches currency symbols, thousands separators, whitespace and
// parentheses that are stripped before amounts are parsed. Parentheses are
// stripped, not treated as negative.
var amountNoise = regexp.MustCompile(`[₦$£€,()\s]`)

// Serial numbers inside this open range are taken for spreadsheet epoch
// dates.
const (
	serialDateMin = 1000
	serialDateMax = 100000
)

// IsDate reports whether the cell looks like a calendar date: a temporal
// value, a number inside the spreadsheet serial-date window, or text matching
// one of the accepted date shapes.
func IsDate(c Cell) bool {
	switch c.Kind() {
	case KindTime:
		return true
	case KindNumber:
		v := c.Number()
		return v > serialDateMin && v < serialDateMax
	case KindText:
		s := strings.TrimSpace(c.Text())
		for _, p := range datePatterns {
			if p.MatchString(s) {
				return true
			}
		}
	}
	return false
}

// IsAmount reports whether the cell looks like a non-zero monetary amount.
func IsAmount(c Cell) bool {
	switch c.Kind() {
	case KindNumber:
		return c.Number() != 0
	case KindText:
		cleaned := amountNoise.ReplaceAllString(c.Text(), "")
		if cleaned == "" {
			return false
		}
		d, err := decimal.NewFromString(cleaned)
		return err == nil && !d.IsZero()
	}
	return false
}

// ParseAmount extracts a decimal amount from a cell. Numeric cells pass
// through as-is; text is cleaned of currency noise first. Unparseable text
// yields zero, conflating "failed to parse" with "zero"; callers that need
// the distinction use TryParseAmount.
func ParseAmount(c Cell) decimal.Decimal {
	d, _ := TryParseAmount(c)
	return d
}

// TryParseAmount is ParseAmount with an explicit success flag. Absent cells
// and unparseable text report false.
func TryParseAmount(c Cell) (decimal.Decimal, bool) {
	switch c.Kind() {
	case KindNumber:
		return decimal.NewFromFloat(c.Number()), true
	case KindText:
		cleaned := amountNoise.ReplaceAllString(c.Text(), "")
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}
