package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/classify"
	"github.com/collectivites/m57/internal/ledger"
	"github.com/collectivites/m57/internal/model"
)

// Precision is the number of decimal places every primitive sum is rounded to.
const Precision = 2

// Summer reduces the buckets of an index matched by a rule. A rule that
// includes nothing, or whose accounts are all excluded, sums to zero.
type Summer struct {
	ix *ledger.Index
}

// NewSummer returns a Summer over ix.
func NewSummer(ix *ledger.Index) *Summer {
	return &Summer{ix: ix}
}

func (s *Summer) sum(r classify.Rule, field func(model.AccountBucket) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	s.ix.Scan(r, func(b model.AccountBucket) {
		total = total.Add(field(b))
	})
	return total.Round(Precision)
}

// Credits sums credit amounts.
func (s *Summer) Credits(r classify.Rule) decimal.Decimal {
	return s.sum(r, func(b model.AccountBucket) decimal.Decimal { return b.Credit })
}

// Debits sums debit amounts.
func (s *Summer) Debits(r classify.Rule) decimal.Decimal {
	return s.sum(r, func(b model.AccountBucket) decimal.Decimal { return b.Debit })
}

// Flow sums net flows (credit minus debit).
func (s *Summer) Flow(r classify.Rule) decimal.Decimal {
	return s.sum(r, model.AccountBucket.NetFlow)
}

// DebitBalance sums end-of-period debit balances.
func (s *Summer) DebitBalance(r classify.Rule) decimal.Decimal {
	return s.sum(r, func(b model.AccountBucket) decimal.Decimal { return b.DebitBalance })
}

// CreditBalance sums end-of-period credit balances.
func (s *Summer) CreditBalance(r classify.Rule) decimal.Decimal {
	return s.sum(r, func(b model.AccountBucket) decimal.Decimal { return b.CreditBalance })
}

// NetBalance is DebitBalance minus CreditBalance over the same rule.
func (s *Summer) NetBalance(r classify.Rule) decimal.Decimal {
	return s.DebitBalance(r).Sub(s.CreditBalance(r))
}
