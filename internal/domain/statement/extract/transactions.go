package extract

import (
	"errors"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/grid"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/profile"
)

// ErrHeaderRowNotFound is returned when neither a registered profile nor the
// generic scan could locate the transaction header row. It is fatal for the
// file being processed.
var ErrHeaderRowNotFound = errors.New("unable to locate transaction header row")

// RawTransaction maps raw column labels, as they appeared in the header row,
// to the cell values of one row judged to be a transaction.
type RawTransaction map[string]grid.Cell

// Transactions walks the rows after the profile's header row and materializes
// every row that looks like a transaction. A row qualifies when at least one
// of its cells classifies as a date or an amount; rows yielding an empty
// mapping are dropped. Output order equals source row order: statements are
// chronological and callers rely on it.
func Transactions(g grid.Grid, p profile.Profile) ([]RawTransaction, error) {
	if p.HeaderRow < 0 {
		return nil, ErrHeaderRowNotFound
	}
	if p.HeaderRow >= len(g) {
		return nil, ErrHeaderRowNotFound
	}

	headers := g.Row(p.HeaderRow)
	var transactions []RawTransaction

	for i := p.HeaderRow + 1; i < len(g); i++ {
		row := g.Row(i)
		if allAbsent(row) {
			continue
		}
		if !hasDateOrAmount(row) {
			continue
		}

		tx := RawTransaction{}
		for j, header := range headers {
			if header.IsAbsent() {
				continue
			}
			cell := g.Cell(i, j)
			if cell.IsAbsent() {
				continue
			}
			tx[header.String()] = cell
		}
		if len(tx) == 0 {
			continue
		}
		transactions = append(transactions, tx)
	}

	return transactions, nil
}

func allAbsent(row []grid.Cell) bool {
	for _, c := range row {
		if !c.IsAbsent() {
			return false
		}
	}
	return true
}

func hasDateOrAmount(row []grid.Cell) bool {
	for _, c := range row {
		if c.IsAbsent() {
			continue
		}
		if grid.IsDate(c) || grid.IsAmount(c) {
			return true
		}
	}
	return false
}
