// Package report builds the per-year report document of a ledger and
// compares documents across years.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/aggregate"
	"github.com/collectivites/m57/internal/hierarchy"
	"github.com/collectivites/m57/internal/ledger"
	"github.com/collectivites/m57/internal/model"
	"github.com/collectivites/m57/internal/ratios"
)

// Labeler resolves account codes to nomenclature labels.
type Labeler interface {
	Label(code string) (string, bool)
}

// Options tune Build.
type Options struct {
	// Scope selects the budget kept by the normalizer. Defaults to the
	// principal budget.
	Scope model.BudgetScope
	// Labels is optional; accounts are listed without labels when nil.
	Labels Labeler
}

// AccountLine is one account of the detail listing.
type AccountLine struct {
	Code          string          `json:"code"`
	Label         string          `json:"label,omitempty"`
	Credit        decimal.Decimal `json:"credit"`
	Debit         decimal.Decimal `json:"debit"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	NetFlow       decimal.Decimal `json:"net_flow"`
	NetBalance    decimal.Decimal `json:"net_balance"`
}

// Document is the report of one entity-year.
type Document struct {
	Metadata     model.Metadata               `json:"metadata"`
	Available    bool                         `json:"available"`
	Aggregates   map[string]hierarchy.Section `json:"aggregates"`
	Ratios       ratios.Set                   `json:"ratios"`
	AccountCount int                          `json:"account_count"`
	Accounts     []AccountLine                `json:"accounts"`
}

// Build runs the whole pipeline over lines: normalize, evaluate, assemble,
// ratios and the account listing. An empty ledger yields an unavailable
// document with zero amounts.
func Build(lines []model.LedgerLine, opts Options) Document {
	scope := opts.Scope
	if scope == "" {
		scope = model.PrincipalBudget
	}

	ix := ledger.Normalize(lines, scope)
	tree := hierarchy.Assemble(aggregate.Evaluate(ix), ix.Metadata())

	doc := Document{
		Metadata:     tree.Metadata,
		Available:    tree.Available,
		Aggregates:   tree.Sections,
		Ratios:       ratios.Compute(tree),
		AccountCount: ix.Len(),
		Accounts:     []AccountLine{},
	}
	for _, b := range ix.Movements() {
		al := AccountLine{
			Code:          b.AccountCode,
			Credit:        b.Credit,
			Debit:         b.Debit,
			DebitBalance:  b.DebitBalance,
			CreditBalance: b.CreditBalance,
			NetFlow:       b.NetFlow(),
			NetBalance:    b.NetBalance(),
		}
		if opts.Labels != nil {
			al.Label, _ = opts.Labels.Label(b.AccountCode)
		}
		doc.Accounts = append(doc.Accounts, al)
	}
	return doc
}

// Tree returns the aggregate tree held by the document.
func (d Document) Tree() hierarchy.Tree {
	return hierarchy.Tree{
		Available: d.Available,
		Metadata:  d.Metadata,
		Sections:  d.Aggregates,
	}
}

// Amount returns the amount at path, zero when missing.
func (d Document) Amount(section string, path ...string) decimal.Decimal {
	return d.Tree().Amount(section, path...)
}
