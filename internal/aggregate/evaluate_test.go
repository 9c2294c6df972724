package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectivites/m57/internal/ledger"
	"github.com/collectivites/m57/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func flow(code, credit, debit string) model.LedgerLine {
	return model.LedgerLine{
		AccountCode: code,
		Credit:      dec(credit),
		Debit:       dec(debit),
		BudgetScope: model.PrincipalBudget,
	}
}

func balance(code, sd, sc string) model.LedgerLine {
	return model.LedgerLine{
		AccountCode:   code,
		DebitBalance:  dec(sd),
		CreditBalance: dec(sc),
		BudgetScope:   model.PrincipalBudget,
	}
}

func evaluate(lines ...model.LedgerLine) Result {
	return Evaluate(ledger.Normalize(lines, model.PrincipalBudget))
}

func assertAmount(t *testing.T, r Result, key Key, want string) {
	t.Helper()
	got := r.Get(key)
	assert.True(t, got.Equal(dec(want)), "%s: got %s, want %s", key, got, want)
}

func TestOperatingScenario(t *testing.T) {
	r := evaluate(
		flow("706", "1000", "0"),
		flow("606", "0", "400"),
	)
	require.True(t, r.Available)
	require.NoError(t, r.Err())

	assertAmount(t, r, TotalRevenue, "1000")
	assertAmount(t, r, TotalExpense, "400")
	assertAmount(t, r, AccountingResult, "600")
	assertAmount(t, r, CAFRevenue, "1000")
	assertAmount(t, r, CAFExpense, "400")
	assertAmount(t, r, CAFGross, "600")
	assertAmount(t, r, ServiceRevenue, "1000")
	assertAmount(t, r, ExternalPurchases, "400")
	assertAmount(t, r, GrossOperatingSurplus, "600")
}

func TestInternalOrderRevenueExcluded(t *testing.T) {
	r := evaluate(
		flow("706", "1000", "0"),
		flow("709", "50", "0"),
	)
	gross := NewSummer(ledger.Normalize([]model.LedgerLine{
		flow("706", "1000", "0"),
		flow("709", "50", "0"),
	}, model.PrincipalBudget)).Credits(p("7"))

	assert.True(t, gross.Equal(dec("1050")))
	assertAmount(t, r, CAFRevenue, "1000")
}

func TestInternalOrderDebitsReduceTotalRevenue(t *testing.T) {
	r := evaluate(
		flow("7011", "500", "0"),
		flow("749", "0", "20"),
	)
	assertAmount(t, r, TotalRevenue, "480")
}

func TestInternalOrderCreditsReduceTotalExpense(t *testing.T) {
	r := evaluate(
		flow("6411", "0", "300"),
		flow("649", "30", "0"),
	)
	assertAmount(t, r, TotalExpense, "270")
	assertAmount(t, r, PersonnelCosts, "270")
	assertAmount(t, r, CAFExpense, "300")
}

func TestNetCAF(t *testing.T) {
	r := evaluate(
		flow("706", "1000", "0"),
		flow("606", "0", "400"),
		flow("1641", "0", "200"),
	)
	assertAmount(t, r, CAFGross, "600")
	assertAmount(t, r, DebtRepayment, "200")
	assertAmount(t, r, CAFNet, "400")
	assertAmount(t, r, TotalUses, "200")
}

func TestTaxPrefixSpecificity(t *testing.T) {
	r := evaluate(
		flow("73211", "100", "0"),
		flow("7321", "40", "0"),
		flow("7311", "70", "0"),
		flow("739211", "0", "10"),
		flow("7391", "0", "5"),
	)
	assertAmount(t, r, RedistributedTaxation, "90")
	assertAmount(t, r, OtherTaxes, "35")
	assertAmount(t, r, LocalTaxes, "70")
}

func TestInvestmentIdentities(t *testing.T) {
	r := evaluate(
		flow("706", "1000", "0"),
		flow("606", "0", "400"),
		flow("1641", "500", "100"),
		flow("1311", "300", "0"),
		flow("139", "0", "0"),
		flow("2031", "0", "800"),
		flow("238", "50", "0"),
		flow("4541", "0", "25"),
		flow("4542", "10", "0"),
	)
	assertAmount(t, r, BankLoans, "500")
	assertAmount(t, r, GrantsReceived, "300")
	assertAmount(t, r, TotalResources, "850")
	assertAmount(t, r, TotalUses, "900")
	assertAmount(t, r, EquipmentExpenditure, "750")
	assertAmount(t, r, ResidualFinancingNeed, "50")
	assertAmount(t, r, ThirdPartyOperations, "15")
	assertAmount(t, r, FinancingNeed, "65")
	assertAmount(t, r, OverallResult, "535")

	diff := r.Get(AccountingResult).Sub(r.Get(FinancingNeed)).Sub(r.Get(OverallResult))
	assert.True(t, diff.IsZero())
}

func TestDebtAndBalanceSheet(t *testing.T) {
	r := evaluate(
		balance("1641", "0", "10000"),
		balance("1688", "0", "300"),
		balance("166", "0", "999"),
		balance("44121", "150", "0"),
		flow("66111", "0", "120"),
		flow("1641", "0", "800"),
		balance("411", "2000", "100"),
		balance("515", "500", "0"),
		balance("491", "0", "70"),
	)
	assertAmount(t, r, TotalDebtStock, "10000")
	assertAmount(t, r, BankDebtStock, "10000")
	assertAmount(t, r, BankDebtStockNet, "9850")
	assertAmount(t, r, InterestExpense, "120")
	assertAmount(t, r, DebtAnnuity, "920")
	// (2000 - 100) + 500 + 150 - 300
	assertAmount(t, r, WorkingCapital, "2250")
}

func TestZeroInput(t *testing.T) {
	for _, r := range []Result{Evaluate(nil), evaluate()} {
		assert.False(t, r.Available)
		assert.ErrorIs(t, r.Err(), ErrUnavailable)
		require.Len(t, r.Values, len(Keys()))
		for _, k := range Keys() {
			v, ok := r.Values[k]
			require.True(t, ok, "missing %s", k)
			assert.True(t, v.IsZero(), "%s = %s", k, v)
		}
	}
}

func TestAllZeroLedgerIsAvailable(t *testing.T) {
	r := evaluate(flow("706", "0", "0"))
	assert.True(t, r.Available)
	assertAmount(t, r, AccountingResult, "0")
}

func TestIdempotent(t *testing.T) {
	ix := ledger.Normalize([]model.LedgerLine{
		flow("706", "1000.123", "0"),
		flow("606", "0", "400.456"),
		flow("1641", "0", "200"),
		balance("1641", "0", "5000"),
	}, model.PrincipalBudget)

	first := Evaluate(ix)
	second := Evaluate(ix)
	require.Equal(t, first.Order, second.Order)
	for _, k := range Keys() {
		assert.Equal(t, first.Get(k).String(), second.Get(k).String(), "%s", k)
	}
}

func TestRounding(t *testing.T) {
	r := evaluate(
		flow("706", "0.004", "0"),
		flow("707", "0.004", "0"),
		flow("708", "10.005", "0"),
	)
	assertAmount(t, r, ServiceRevenue, "10.01")
}

func TestUnknownKeyIsZero(t *testing.T) {
	r := evaluate(flow("706", "1", "0"))
	assert.True(t, r.Get("nope").IsZero())
}

func TestEvaluationOrderRespectsDependencies(t *testing.T) {
	pos := make(map[Key]int)
	for i, k := range Keys() {
		pos[k] = i
	}
	for _, f := range formulas {
		for _, d := range f.deps {
			assert.Less(t, pos[d], pos[f.key], "%s must follow %s", f.key, d)
		}
	}
	assert.Less(t, pos[DebtRepayment], pos[CAFNet])
}

func TestTopoSortErrors(t *testing.T) {
	zero := func(*Summer, Values) decimal.Decimal { return decimal.Zero }

	_, err := topoSort([]formula{
		{key: "a", deps: []Key{"b"}, eval: zero},
		{key: "b", deps: []Key{"a"}, eval: zero},
	})
	assert.ErrorContains(t, err, "cycle")

	_, err = topoSort([]formula{{key: "a", deps: []Key{"missing"}, eval: zero}})
	assert.ErrorContains(t, err, "unknown")

	_, err = topoSort([]formula{{key: "a", eval: zero}, {key: "a", eval: zero}})
	assert.ErrorContains(t, err, "duplicate")
}
