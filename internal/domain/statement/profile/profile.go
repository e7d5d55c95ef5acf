// Package profile defines bank layout descriptors and the registry of known
// statement formats. Profiles are immutable data built at process start; the
// registry is an ordered list, and order is a contract: detection tries
// profiles in registration order and the first full match wins.
package profile

// Field is one of the seven canonical output columns. The string value is the
// exact header text written to the standardized output and must not change:
// downstream consumers match on it.
type Field string

const (
	TranDate           Field = "Tran Date"
	ValueDate          Field = "Value Date"
	RefNo              Field = "Ref. No"
	TransactionDetails Field = "Transaction Details"
	Debit              Field = "Debit"
	Credit             Field = "Credit"
	Balance            Field = "Balance"
)

// StandardFields lists the canonical columns in output order.
var StandardFields = []Field{
	TranDate, ValueDate, RefNo, TransactionDetails, Debit, Credit, Balance,
}

// HeaderRowAuto marks a profile whose header row must be discovered by
// scanning rather than taken from a fixed index.
const HeaderRowAuto = -1

// Profile describes one bank statement layout: how to recognize it and where
// its metadata and transaction table live.
type Profile struct {
	// Key uniquely names the profile.
	Key string
	// Name is the human-readable format name reported in results.
	Name string
	// Identifiers are substrings that must ALL occur (case-insensitively) in
	// the head of the file for the profile to match. Empty for synthetic
	// profiles that never match by content.
	Identifiers []string
	// HeaderRow is the 0-based index of the transaction header row, or
	// HeaderRowAuto when it must be discovered.
	HeaderRow int
	// AccountInfoRows are the 0-based indices of rows scanned for account
	// metadata.
	AccountInfoRows []int
	// Mapping maps raw column labels, exactly as they appear in the header
	// row, to canonical fields. Columns absent from the mapping are dropped.
	Mapping map[string]Field
}

// GenericKey and GenericName identify the synthetic fallback profile used
// when no registered format matches.
const (
	GenericKey  = "GENERIC"
	GenericName = "Generic Bank Format"
)

// Builtin returns the registry of known bank formats in match-priority order.
// The slice and its profiles must be treated as read-only; they are safe for
// unsynchronized concurrent reads.
func Builtin() []Profile {
	return []Profile{
		{
			Key:             "FCMB_FORMAT_1",
			Name:            "FCMB Statement Format 1",
			Identifiers:     []string{"1021040520", "STATEMENT OF ACCOUNT"},
			HeaderRow:       16,
			AccountInfoRows: []int{3, 4, 5, 6, 7, 8, 12, 13, 14},
			Mapping: map[string]Field{
				"Transaction Date": TranDate,
				"Description":      TransactionDetails,
				"Value Date":       ValueDate,
				"Withdrawls":       Debit,
				"Deposits":         Credit,
				"Balance":          Balance,
				"Instrument Code":  RefNo,
			},
		},
		{
			Key:             "GTB_ODS_FORMAT",
			Name:            "GTB ODS Statement Format",
			Identifiers:     []string{"TRA DATE", "REMARKS", "NUBAN"},
			HeaderRow:       2,
			AccountInfoRows: []int{0, 1},
			Mapping: map[string]Field{
				"TRA DATE": TranDate,
				"REMARKS":  TransactionDetails,
				"NUBAN":    RefNo,
				"DEBIT":    Debit,
				"CREDIT":   Credit,
				"CRNT BAL": Balance,
			},
		},
	}
}
