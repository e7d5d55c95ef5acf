package project

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/extract"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/profile"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/standardize"
)

func TestTransactions(t *testing.T) {
	txs := []standardize.Transaction{
		{
			profile.TranDate:           "01/01/2024",
			profile.ValueDate:          "",
			profile.RefNo:              "REF1",
			profile.TransactionDetails: "first",
			profile.Debit:              "",
			profile.Credit:             "1000.00",
			profile.Balance:            "1000.00",
		},
		{
			profile.TranDate:           "02/01/2024",
			profile.ValueDate:          "",
			profile.RefNo:              "",
			profile.TransactionDetails: "second",
			profile.Debit:              "250.00",
			profile.Credit:             "",
			profile.Balance:            "750.00",
		},
	}

	table := Transactions(txs)

	assert.Equal(t, TransactionsSheet, table.Name)
	assert.Equal(t, []string{
		"Tran Date", "Value Date", "Ref. No", "Transaction Details",
		"Debit", "Credit", "Balance",
	}, table.Header)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []any{"01/01/2024", "", "REF1", "first", "", "1000.00", "1000.00"}, table.Rows[0])
	assert.Equal(t, []any{"02/01/2024", "", "", "second", "250.00", "", "750.00"}, table.Rows[1])
}

func TestMetadata(t *testing.T) {
	opening := decimal.NewFromInt(50000)

	table := Metadata(Input{
		Transactions:   make([]standardize.Transaction, 3),
		AccountInfo:    extract.AccountInfo{AccountNumber: "1021040520", AccountName: "JOHN DOE ENTERPRISES", OpeningBalance: &opening},
		OriginalFormat: "FCMB Statement Format 1",
		ProcessedAt:    "2026-08-29T10:00:00Z",
	})

	assert.Equal(t, MetadataSheet, table.Name)
	assert.Equal(t, []string{"Field", "Value"}, table.Header)

	// Label text and order are load-bearing: downstream re-parses by label.
	labels := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		labels[i] = row[0].(string)
	}
	assert.Equal(t, []string{
		"Account Information", "Account Number", "Account Name",
		"Opening Balance", "Closing Balance", "",
		"Processing Information", "Original Format", "Records Processed", "Processed At",
	}, labels)

	assert.Equal(t, "1021040520", table.Rows[1][1])
	assert.Equal(t, "50000.00", table.Rows[3][1])
	assert.Equal(t, "", table.Rows[4][1]) // closing balance absent
	assert.Equal(t, 3, table.Rows[8][1])
}

func TestProject(t *testing.T) {
	in := Input{OriginalFormat: profile.GenericName}

	t.Run("with metadata", func(t *testing.T) {
		tables := Project(in, true)
		require.Len(t, tables, 2)
		assert.Equal(t, TransactionsSheet, tables[0].Name)
		assert.Equal(t, MetadataSheet, tables[1].Name)
	})

	t.Run("without metadata", func(t *testing.T) {
		tables := Project(in, false)
		require.Len(t, tables, 1)
		assert.Equal(t, TransactionsSheet, tables[0].Name)
	})
}
