// Package detect selects the bank layout profile for a loaded grid. Known
// profiles are matched by identifying substrings; unknown layouts fall back to
// a heuristic header-row scan that synthesizes a generic profile.
package detect

import (
	"strings"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/grid"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/profile"
)

const (
	// corpusRows is how many leading rows feed the identifier search.
	corpusRows = 20
	// scanRows is how many leading rows the generic header scan inspects.
	scanRows = 25
	// minHeaderHits is the minimum number of vocabulary-bearing cells a row
	// needs to qualify as the transaction header.
	minHeaderHits = 4
	// genericAccountInfoRows is how many leading rows the generic profile
	// scans for account metadata.
	genericAccountInfoRows = 5
)

// headerVocabulary is the financial-header token list driving generic header
// detection. Kept as data so new tokens can be added without touching the
// scan itself.
var headerVocabulary = []string{
	"date", "transaction", "description", "narration", "remarks",
	"debit", "credit", "withdrawal", "deposit", "balance", "amount",
}

// columnRule maps header-token presence to a canonical field. Rules are
// evaluated in order and the first match wins.
type columnRule struct {
	all   []string // every token must be present
	none  []string // no token may be present
	field profile.Field
}

var columnRules = []columnRule{
	{all: []string{"date"}, none: []string{"value"}, field: profile.TranDate},
	{all: []string{"value", "date"}, field: profile.ValueDate},
	{all: []string{"description"}, field: profile.TransactionDetails},
	{all: []string{"narration"}, field: profile.TransactionDetails},
	{all: []string{"remarks"}, field: profile.TransactionDetails},
	{all: []string{"debit"}, field: profile.Debit},
	{all: []string{"withdrawal"}, field: profile.Debit},
	{all: []string{"credit"}, field: profile.Credit},
	{all: []string{"deposit"}, field: profile.Credit},
	{all: []string{"balance"}, field: profile.Balance},
	{all: []string{"reference"}, field: profile.RefNo},
	{all: []string{"ref"}, field: profile.RefNo},
}

// Detector matches grids against an ordered profile registry.
type Detector struct {
	profiles []profile.Profile
}

// New creates a detector over the given registry. The registry is read-only
// and shared; the detector never mutates it.
func New(profiles []profile.Profile) *Detector {
	return &Detector{profiles: profiles}
}

// Detect returns the profile bound to this grid. When no registered profile
// matches, a generic profile is synthesized; if even the generic scan finds no
// header row, the returned profile carries HeaderRow == -1 and extraction must
// fail.
func (d *Detector) Detect(g grid.Grid) profile.Profile {
	corpus := buildCorpus(g)

	for _, p := range d.profiles {
		if len(p.Identifiers) == 0 {
			continue
		}
		if matchesAll(corpus, p.Identifiers) {
			return p
		}
	}

	return detectGeneric(g)
}

// buildCorpus concatenates the display text of every cell in the first
// corpusRows rows, lower-cased, for identifier matching.
func buildCorpus(g grid.Grid) string {
	var sb strings.Builder
	for i := 0; i < corpusRows && i < len(g); i++ {
		for _, c := range g.Row(i) {
			if c.IsAbsent() {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(c.String())
		}
	}
	return strings.ToLower(sb.String())
}

func matchesAll(corpus string, identifiers []string) bool {
	for _, id := range identifiers {
		if !strings.Contains(corpus, strings.ToLower(id)) {
			return false
		}
	}
	return true
}

// detectGeneric scans the leading rows for a header row carrying at least
// minHeaderHits vocabulary tokens and synthesizes a column mapping from it.
// Scanning stops at the first qualifying row.
func detectGeneric(g grid.Grid) profile.Profile {
	p := profile.Profile{
		Key:       profile.GenericKey,
		Name:      profile.GenericName,
		HeaderRow: -1,
		Mapping:   map[string]profile.Field{},
	}
	for i := 0; i < genericAccountInfoRows; i++ {
		p.AccountInfoRows = append(p.AccountInfoRows, i)
	}

	for i := 0; i < scanRows && i < len(g); i++ {
		row := g.Row(i)
		if len(row) == 0 {
			continue
		}

		hits := 0
		for _, c := range row {
			if c.Kind() != grid.KindText {
				continue
			}
			if containsAnyToken(strings.ToLower(c.Text()), headerVocabulary) {
				hits++
			}
		}
		if hits < minHeaderHits {
			continue
		}

		p.HeaderRow = i
		for _, c := range row {
			if c.Kind() != grid.KindText {
				continue
			}
			if field, ok := mapColumn(c.Text()); ok {
				p.Mapping[c.Text()] = field
			}
		}
		break
	}

	return p
}

// mapColumn resolves one raw header label to a canonical field via the rule
// table. Labels matching no rule are dropped from the mapping.
func mapColumn(label string) (profile.Field, bool) {
	lower := strings.ToLower(label)
	for _, r := range columnRules {
		if !containsAllTokens(lower, r.all) {
			continue
		}
		if containsAnyToken(lower, r.none) {
			continue
		}
		return r.field, true
	}
	return "", false
}

func containsAnyToken(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func containsAllTokens(s string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}
