package model

import "github.com/shopspring/decimal"

// AccountBucket accumulates every principal-budget line sharing an account code.
type AccountBucket struct {
	AccountCode   string
	Credit        decimal.Decimal
	Debit         decimal.Decimal
	DebitBalance  decimal.Decimal
	CreditBalance decimal.Decimal
	Lines         int // number of merged ledger lines
}

// Add merges a ledger line into the bucket.
func (b *AccountBucket) Add(l LedgerLine) {
	b.Credit = b.Credit.Add(l.Credit)
	b.Debit = b.Debit.Add(l.Debit)
	b.DebitBalance = b.DebitBalance.Add(l.DebitBalance)
	b.CreditBalance = b.CreditBalance.Add(l.CreditBalance)
	b.Lines++
}

// NetFlow is credit minus debit (flow-of-funds view).
func (b AccountBucket) NetFlow() decimal.Decimal {
	return b.Credit.Sub(b.Debit)
}

// NetBalance is debit balance minus credit balance (balance-sheet view).
func (b AccountBucket) NetBalance() decimal.Decimal {
	return b.DebitBalance.Sub(b.CreditBalance)
}

// Idle reports whether the bucket has neither net flow nor net balance.
// Idle buckets are left out of detail listings but still take part in sums.
func (b AccountBucket) Idle() bool {
	return b.NetFlow().IsZero() && b.NetBalance().IsZero()
}

// Account is a chart-of-accounts entry of the M57 nomenclature.
type Account struct {
	Code  string
	Label string
}
