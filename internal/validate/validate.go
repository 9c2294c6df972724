// Package validate re-derives the accounting identities of an assembled
// aggregate tree.
package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/hierarchy"
)

// DefaultTolerance is the largest accepted gap, in monetary units.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Discrepancy kinds.
const (
	KindMismatch = "identity-mismatch"
	KindMissing  = "missing-node"
)

// Discrepancy describes one identity that does not hold.
type Discrepancy struct {
	Identity    string
	Kind        string
	Expected    decimal.Decimal // derived from the operands
	Actual      decimal.Decimal // stored in the tree
	Description string
}

func (d Discrepancy) Error() string {
	return fmt.Sprintf("%s [%s]: %s", d.Identity, d.Kind, d.Description)
}

// Gap returns Actual minus Expected.
func (d Discrepancy) Gap() decimal.Decimal {
	return d.Actual.Sub(d.Expected)
}

type ref struct {
	section string
	path    []string
}

func (r ref) String() string {
	return r.section + "/" + strings.Join(r.path, "/")
}

func at(section string, path ...string) ref {
	return ref{section: section, path: path}
}

type term struct {
	ref
	negate bool
}

func plus(r ref) term  { return term{ref: r} }
func minus(r ref) term { return term{ref: r, negate: true} }

// Identity is result = sum of signed operands.
type Identity struct {
	Name   string
	result ref
	terms  []term
}

var (
	totalRevenue   = at(hierarchy.Operating, "total_revenue")
	totalExpense   = at(hierarchy.Operating, "total_expense")
	accounting     = at(hierarchy.Operating, "accounting_result")
	cafRevenue     = at(hierarchy.Operating, "caf_revenue")
	cafExpense     = at(hierarchy.Operating, "caf_expense")
	resources      = at(hierarchy.Investment, "total_resources")
	uses           = at(hierarchy.Investment, "total_uses")
	debtRepayment  = at(hierarchy.Investment, "total_uses", "debt_repayment")
	residual       = at(hierarchy.Investment, "residual_financing_need")
	thirdParty     = at(hierarchy.Investment, "third_party_operations")
	financingNeed  = at(hierarchy.Investment, "financing_need")
	overall        = at(hierarchy.Investment, "overall_result")
	cafGross       = at(hierarchy.SelfFinancing, "caf_gross")
	cafNet         = at(hierarchy.SelfFinancing, "caf_net")
	annuity        = at(hierarchy.Debt, "annuity")
	interest       = at(hierarchy.Debt, "annuity", "interest_expense")
	annuityCapital = at(hierarchy.Debt, "annuity", "debt_repayment")
)

// Identities lists every checked identity in evaluation order.
var Identities = []Identity{
	{Name: "accounting-result", result: accounting, terms: []term{plus(totalRevenue), minus(totalExpense)}},
	{Name: "residual-financing-need", result: residual, terms: []term{plus(uses), minus(resources)}},
	{Name: "financing-need", result: financingNeed, terms: []term{plus(residual), plus(thirdParty)}},
	{Name: "overall-result", result: overall, terms: []term{plus(accounting), minus(financingNeed)}},
	{Name: "gross-caf", result: cafGross, terms: []term{plus(cafRevenue), minus(cafExpense)}},
	{Name: "net-caf", result: cafNet, terms: []term{plus(cafGross), minus(debtRepayment)}},
	{Name: "debt-annuity", result: annuity, terms: []term{plus(interest), plus(annuityCapital)}},
}

// Check verifies every identity of tree within tol. It returns nil when all
// identities hold.
func Check(tree hierarchy.Tree, tol decimal.Decimal) []Discrepancy {
	var out []Discrepancy
	for _, id := range Identities {
		if d, ok := id.check(tree, tol); !ok {
			out = append(out, d)
		}
	}
	return out
}

func (id Identity) check(tree hierarchy.Tree, tol decimal.Decimal) (Discrepancy, bool) {
	var missing []string
	expected := decimal.Zero
	for _, t := range id.terms {
		n, ok := tree.Find(t.section, t.path...)
		if !ok {
			missing = append(missing, t.String())
			continue
		}
		if t.negate {
			expected = expected.Sub(n.Amount)
		} else {
			expected = expected.Add(n.Amount)
		}
	}
	actual, ok := tree.Find(id.result.section, id.result.path...)
	if !ok {
		missing = append(missing, id.result.String())
	}
	if len(missing) > 0 {
		return Discrepancy{
			Identity:    id.Name,
			Kind:        KindMissing,
			Description: fmt.Sprintf("missing node(s) %s", strings.Join(missing, ", ")),
		}, false
	}

	if actual.Amount.Sub(expected).Abs().GreaterThan(tol) {
		return Discrepancy{
			Identity: id.Name,
			Kind:     KindMismatch,
			Expected: expected,
			Actual:   actual.Amount,
			Description: fmt.Sprintf("%s is %s, operands give %s (gap %s)",
				id.result, actual.Amount.StringFixed(2), expected.StringFixed(2),
				actual.Amount.Sub(expected).StringFixed(2)),
		}, false
	}
	return Discrepancy{}, true
}
