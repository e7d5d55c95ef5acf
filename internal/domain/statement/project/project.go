// Package project arranges standardized transactions and account metadata
// into the two logical output tables. The Metadata table's label text is an
// external contract: downstream consumers re-parse it by matching on label
// substrings, so labels must be preserved exactly.
package project

import (
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/extract"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/profile"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/standardize"
)

// Sheet names in the output workbook.
const (
	TransactionsSheet = "Transactions"
	MetadataSheet     = "Metadata"
)

// Table is one logical output table: a header row plus data rows of typed
// values ready for a workbook writer.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Input carries everything the projector arranges.
type Input struct {
	Transactions   []standardize.Transaction
	AccountInfo    extract.AccountInfo
	OriginalFormat string
	ProcessedAt    string
}

// Transactions builds the transactions table with the seven canonical columns
// in fixed order, one row per standardized transaction, in order.
func Transactions(txs []standardize.Transaction) Table {
	header := make([]string, len(profile.StandardFields))
	for i, f := range profile.StandardFields {
		header[i] = string(f)
	}

	rows := make([][]any, len(txs))
	for i, tx := range txs {
		row := make([]any, len(profile.StandardFields))
		for j, f := range profile.StandardFields {
			row[j] = tx[f]
		}
		rows[i] = row
	}

	return Table{Name: TransactionsSheet, Header: header, Rows: rows}
}

// Metadata builds the label/value metadata table. Label text and row order
// are part of the external contract.
func Metadata(in Input) Table {
	info := in.AccountInfo

	opening := ""
	if info.OpeningBalance != nil {
		opening = info.OpeningBalance.StringFixed(2)
	}
	closing := ""
	if info.ClosingBalance != nil {
		closing = info.ClosingBalance.StringFixed(2)
	}

	rows := [][]any{
		{"Account Information", ""},
		{"Account Number", info.AccountNumber},
		{"Account Name", info.AccountName},
		{"Opening Balance", opening},
		{"Closing Balance", closing},
		{"", ""},
		{"Processing Information", ""},
		{"Original Format", in.OriginalFormat},
		{"Records Processed", len(in.Transactions)},
		{"Processed At", in.ProcessedAt},
	}

	return Table{Name: MetadataSheet, Header: []string{"Field", "Value"}, Rows: rows}
}

// Project builds the output tables for one transform result. The metadata
// table is omitted when includeMetadata is false.
func Project(in Input, includeMetadata bool) []Table {
	tables := []Table{Transactions(in.Transactions)}
	if includeMetadata {
		tables = append(tables, Metadata(in))
	}
	return tables
}
