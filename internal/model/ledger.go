package model

import (
	"github.com/shopspring/decimal"
)

// BudgetScope discriminates the principal budget from annex budgets (cbudg).
type BudgetScope string

// PrincipalBudget is the cbudg value of the main municipal budget.
const PrincipalBudget BudgetScope = "1"

// LedgerLine is one row of a balance ledger (one account, one sub-ledger).
// Missing numeric fields are zero.
type LedgerLine struct {
	AccountCode   string          // compte, digits only
	Credit        decimal.Decimal // obnetcre
	Debit         decimal.Decimal // obnetdeb
	DebitBalance  decimal.Decimal // sd
	CreditBalance decimal.Decimal // sc
	BudgetScope   BudgetScope     // cbudg

	EntityID   string // siren
	EntityName string // lbudg
	FiscalYear int    // exer
	Population int

	// Sub-ledger discriminators, carried through untouched.
	Type       string // ctype
	Subtype    string // cstyp
	Sector     string // secteur
	Finess     string
	BudgetCode string // codbud1
}

// ClassOf returns the leading byte of an account code ("class" 0-9), or 0 for
// an empty code.
func ClassOf(code string) byte {
	if code == "" {
		return 0
	}
	return code[0]
}

// Metadata identifies the entity and fiscal year a ledger belongs to.
type Metadata struct {
	EntityID     string `json:"siren"`
	EntityName   string `json:"name"`
	FiscalYear   int    `json:"fiscal_year"`
	Population   int    `json:"population"`
	Scope        string `json:"scope_note"`
	Principal    int    `json:"principal_records"`
	AnnexSkipped int    `json:"annex_records_excluded"`
}
