// Package grid models loaded spreadsheet content as rows of untyped cells,
// with no file-format detail retained. Every cell is one of four kinds and
// every consumer must handle all four.
package grid

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the scalar type held by a Cell.
type Kind int

const (
	KindAbsent Kind = iota
	KindNumber
	KindText
	KindTime
)

// Cell is an untyped spreadsheet scalar: absent, numeric, text, or temporal.
type Cell struct {
	kind Kind
	num  float64
	text string
	t    time.Time
}

// Absent is the zero Cell.
var Absent = Cell{}

// Number creates a numeric cell.
func Number(v float64) Cell {
	return Cell{kind: KindNumber, num: v}
}

// Text creates a text cell.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Time creates a temporal cell.
func Time(t time.Time) Cell {
	return Cell{kind: KindTime, t: t}
}

// Kind returns the cell's scalar kind.
func (c Cell) Kind() Kind { return c.kind }

// IsAbsent reports whether the cell holds no value.
func (c Cell) IsAbsent() bool { return c.kind == KindAbsent }

// Number returns the numeric value; zero for non-numeric cells.
func (c Cell) Number() float64 { return c.num }

// Text returns the raw text value; empty for non-text cells.
func (c Cell) Text() string { return c.text }

// Time returns the temporal value; the zero time for non-temporal cells.
func (c Cell) Time() time.Time { return c.t }

// String renders the cell as display text. Numbers drop insignificant
// trailing zeros, times render as ISO dates, absent cells are empty.
func (c Cell) String() string {
	switch c.kind {
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindText:
		return c.text
	case KindTime:
		return c.t.Format("2006-01-02")
	default:
		return ""
	}
}

// Grid is an ordered sequence of rows of cells. Rows may be ragged; missing
// trailing cells are treated as absent. A Grid is owned exclusively by one
// transform for its duration and never mutated.
type Grid [][]Cell

// Cell returns the cell at (row, col), or Absent when out of range.
func (g Grid) Cell(row, col int) Cell {
	if row < 0 || row >= len(g) {
		return Absent
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return Absent
	}
	return r[col]
}

// Row returns the row at index i, or nil when out of range.
func (g Grid) Row(i int) []Cell {
	if i < 0 || i >= len(g) {
		return nil
	}
	return g[i]
}

// RowText joins the display text of all non-absent cells in row i with
// single spaces.
func (g Grid) RowText(i int) string {
	var parts []string
	for _, c := range g.Row(i) {
		if c.IsAbsent() {
			continue
		}
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

// FromStrings builds a Grid from string rows, converting cells that parse as
// numbers into numeric cells and empty strings into absent cells. This is how
// loaders that only see text (CSV, raw spreadsheet values) materialize a grid.
func FromStrings(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, s := range row {
			cells[j] = CellFromString(s)
		}
		g[i] = cells
	}
	return g
}

// CellFromString converts one raw string value into a typed cell.
func CellFromString(s string) Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Absent
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(v)
	}
	return Text(s)
}
