package hierarchy

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectivites/m57/internal/aggregate"
	"github.com/collectivites/m57/internal/ledger"
	"github.com/collectivites/m57/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleTree(t *testing.T) Tree {
	t.Helper()
	lines := []model.LedgerLine{
		{AccountCode: "706", Credit: dec("1000"), BudgetScope: model.PrincipalBudget, EntityID: "217500016", FiscalYear: 2023},
		{AccountCode: "606", Debit: dec("400"), BudgetScope: model.PrincipalBudget},
		{AccountCode: "744", Credit: dec("25"), BudgetScope: model.PrincipalBudget},
		{AccountCode: "1641", Debit: dec("200"), BudgetScope: model.PrincipalBudget},
	}
	ix := ledger.Normalize(lines, model.PrincipalBudget)
	return Assemble(aggregate.Evaluate(ix), ix.Metadata())
}

func TestAssembleSections(t *testing.T) {
	tree := sampleTree(t)
	require.True(t, tree.Available)
	assert.Equal(t, "217500016", tree.Metadata.EntityID)

	for _, name := range Sections {
		assert.Contains(t, tree.Sections, name)
	}

	n, ok := tree.Find(Operating, "accounting_result")
	require.True(t, ok)
	assert.Equal(t, "A-B", n.Code)
	assert.True(t, n.Amount.Equal(dec("625")))

	n, ok = tree.Find(SelfFinancing, "caf_net")
	require.True(t, ok)
	assert.Equal(t, "CAF nette", n.Code)
	assert.True(t, n.Amount.Equal(dec("425")))
}

func TestFindNested(t *testing.T) {
	tree := sampleTree(t)

	n, ok := tree.Find(Operating, "caf_revenue", "other_grants", "fctva")
	require.True(t, ok)
	assert.True(t, n.Amount.Equal(dec("25")))

	assert.True(t, tree.Amount(Debt, "annuity", "debt_repayment").Equal(dec("200")))

	_, ok = tree.Find(Operating, "caf_revenue", "missing")
	assert.False(t, ok)
	_, ok = tree.Find("nowhere", "total_revenue")
	assert.False(t, ok)
	_, ok = tree.Find(Operating)
	assert.False(t, ok)
	assert.True(t, tree.Amount("nowhere", "x").IsZero())
}

func TestAssembleUnavailable(t *testing.T) {
	tree := Assemble(aggregate.Evaluate(ledger.Normalize(nil, model.PrincipalBudget)), model.Metadata{})
	assert.False(t, tree.Available)

	count := 0
	tree.Walk(func(section string, path []string, n Node) {
		count++
		assert.True(t, n.Amount.IsZero(), "%s/%s", section, strings.Join(path, "/"))
	})
	assert.Greater(t, count, 30)
}

func TestEveryKeyIsPlaced(t *testing.T) {
	placed := make(map[aggregate.Key]bool)
	var visit func(slots []slot)
	visit = func(slots []slot) {
		for _, s := range slots {
			placed[s.key] = true
			visit(s.details)
		}
	}
	for _, sl := range layout {
		visit(sl.slots)
	}
	for _, k := range aggregate.Keys() {
		assert.True(t, placed[k], "aggregate %s has no place in the tree", k)
	}
}

func TestWalkOrder(t *testing.T) {
	tree := sampleTree(t)
	var paths []string
	tree.Walk(func(section string, path []string, _ Node) {
		paths = append(paths, section+"/"+strings.Join(path, "/"))
	})
	require.NotEmpty(t, paths)
	assert.Equal(t, "operating/total_revenue", paths[0])
	assert.Equal(t, "operating/caf_revenue/local_taxes", paths[2])
	assert.Equal(t, "balance_sheet/working_capital", paths[len(paths)-1])
}

func TestTreeJSON(t *testing.T) {
	tree := sampleTree(t)
	data, err := json.Marshal(tree)
	require.NoError(t, err)

	var decoded Tree
	require.NoError(t, json.Unmarshal(data, &decoded))
	n, ok := decoded.Find(Investment, "financing_need")
	require.True(t, ok)
	assert.Equal(t, "E", n.Code)
	assert.True(t, n.Amount.Equal(tree.Amount(Investment, "financing_need")))
	assert.Contains(t, string(data), `"aggregates"`)
}
