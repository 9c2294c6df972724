// Package ratios derives financial ratios from an assembled aggregate tree.
package ratios

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/hierarchy"
)

// Ratio is a computed ratio. A ratio whose denominator is zero is not
// applicable and encodes as JSON null.
type Ratio struct {
	Value      decimal.Decimal
	Applicable bool
}

// NotApplicable is the sentinel for a zero denominator.
var NotApplicable = Ratio{}

// MarshalJSON writes null for a ratio that does not apply.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Applicable {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON reads null as NotApplicable.
func (r *Ratio) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = NotApplicable
		return nil
	}
	if err := json.Unmarshal(b, &r.Value); err != nil {
		return err
	}
	r.Applicable = true
	return nil
}

// String formats the value with one decimal, or "n/a".
func (r Ratio) String() string {
	if !r.Applicable {
		return "n/a"
	}
	return r.Value.StringFixed(1)
}

var hundred = decimal.NewFromInt(100)

// percent returns num/den*100 rounded to one decimal place.
func percent(num, den decimal.Decimal) Ratio {
	if den.IsZero() {
		return NotApplicable
	}
	return Ratio{Value: num.Div(den).Mul(hundred).Round(1), Applicable: true}
}

// quotient returns num/den rounded to one decimal place.
func quotient(num, den decimal.Decimal) Ratio {
	if den.IsZero() {
		return NotApplicable
	}
	return Ratio{Value: num.Div(den).Round(1), Applicable: true}
}

// Ratio names.
const (
	PersonnelShare          = "personnel_share_pct"
	GrossSavingsRate        = "gross_savings_rate_pct"
	NetSavingsRate          = "net_savings_rate_pct"
	DebtCapacityYears       = "debt_capacity_years"
	DebtRatio               = "debt_ratio_pct"
	EquipmentEffort         = "equipment_effort_pct"
	FiscalAutonomy          = "fiscal_autonomy_pct"
	OperatingRigidity       = "operating_rigidity_pct"
	CAFMobilization         = "caf_mobilization_pct"
	EquipmentCoverage       = "equipment_coverage_pct"
	ProductiveSelfFinancing = "productive_investment_self_financing_pct"
	ExternalPurchasesShare  = "external_purchases_share_pct"
)

// Names lists every ratio in presentation order.
var Names = []string{
	PersonnelShare, GrossSavingsRate, NetSavingsRate, DebtCapacityYears,
	DebtRatio, EquipmentEffort, FiscalAutonomy, OperatingRigidity,
	CAFMobilization, EquipmentCoverage, ProductiveSelfFinancing, ExternalPurchasesShare,
}

// Set maps ratio names to values.
type Set map[string]Ratio

// Compute derives every ratio from tree. An unavailable tree yields a set of
// not-applicable ratios.
func Compute(tree hierarchy.Tree) Set {
	op := func(path ...string) decimal.Decimal { return tree.Amount(hierarchy.Operating, path...) }

	cafRevenue := op("caf_revenue")
	cafExpense := op("caf_expense")
	personnel := op("caf_expense", "personnel_costs")
	external := op("caf_expense", "external_purchases")
	financial := op("caf_expense", "financial_charges")
	localTaxes := op("caf_revenue", "local_taxes")

	cafGross := tree.Amount(hierarchy.SelfFinancing, "caf_gross")
	cafNet := tree.Amount(hierarchy.SelfFinancing, "caf_net")

	uses := tree.Amount(hierarchy.Investment, "total_uses")
	equipment := tree.Amount(hierarchy.Investment, "total_uses", "equipment_expenditure")
	repayment := tree.Amount(hierarchy.Investment, "total_uses", "debt_repayment")

	debt := tree.Amount(hierarchy.Debt, "total_stock")

	return Set{
		PersonnelShare:          percent(personnel, cafExpense),
		GrossSavingsRate:        percent(cafGross, cafRevenue),
		NetSavingsRate:          percent(cafNet, cafRevenue),
		DebtCapacityYears:       quotient(debt, cafGross),
		DebtRatio:               percent(debt, cafRevenue),
		EquipmentEffort:         percent(equipment, cafRevenue),
		FiscalAutonomy:          percent(localTaxes, cafRevenue),
		OperatingRigidity:       percent(personnel.Add(financial), cafRevenue),
		CAFMobilization:         percent(repayment, cafGross),
		EquipmentCoverage:       percent(cafNet, equipment),
		ProductiveSelfFinancing: percent(cafNet, uses.Sub(repayment)),
		ExternalPurchasesShare:  percent(external, cafExpense),
	}
}

// Get returns the named ratio, not applicable when absent.
func (s Set) Get(name string) Ratio {
	if r, ok := s[name]; ok {
		return r
	}
	return NotApplicable
}
