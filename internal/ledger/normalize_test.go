package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectivites/m57/internal/classify"
	"github.com/collectivites/m57/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(code, credit, debit string) model.LedgerLine {
	return model.LedgerLine{
		AccountCode: code,
		Credit:      dec(credit),
		Debit:       dec(debit),
		BudgetScope: model.PrincipalBudget,
	}
}

func TestNormalizeGroupsRepeatedCodes(t *testing.T) {
	lines := []model.LedgerLine{
		line("706", "1000", "0"),
		line("706", "250", "50"),
		line("606", "0", "400"),
	}
	ix := Normalize(lines, model.PrincipalBudget)

	require.Equal(t, 2, ix.Len())
	b, ok := ix.Bucket("706")
	require.True(t, ok)
	assert.True(t, b.Credit.Equal(dec("1250")))
	assert.True(t, b.Debit.Equal(dec("50")))
	assert.True(t, b.NetFlow().Equal(dec("1200")))
	assert.Equal(t, 2, b.Lines)
}

func TestNormalizeExcludesAnnexBudgets(t *testing.T) {
	annex := line("706", "999", "0")
	annex.BudgetScope = "2"
	lines := []model.LedgerLine{
		line("706", "1000", "0"),
		annex,
		annex,
	}
	ix := Normalize(lines, model.PrincipalBudget)

	b, ok := ix.Bucket("706")
	require.True(t, ok)
	assert.True(t, b.Credit.Equal(dec("1000")))

	meta := ix.Metadata()
	assert.Equal(t, 1, meta.Principal)
	assert.Equal(t, 2, meta.AnnexSkipped)
	assert.Contains(t, meta.Scope, `"1"`)
}

func TestNormalizeEmpty(t *testing.T) {
	ix := Normalize(nil, model.PrincipalBudget)
	assert.True(t, ix.Empty())
	assert.Empty(t, ix.Buckets())

	called := false
	ix.Scan(classify.Prefixes("7"), func(model.AccountBucket) { called = true })
	assert.False(t, called)
}

func TestNormalizeSkipsEmptyAccountCode(t *testing.T) {
	ix := Normalize([]model.LedgerLine{line("", "10", "0")}, model.PrincipalBudget)
	assert.True(t, ix.Empty())
	assert.Equal(t, 1, ix.Metadata().Principal)
}

func TestNormalizeMetadataFromPrincipalRecord(t *testing.T) {
	annex := line("706", "1", "0")
	annex.BudgetScope = "3"
	annex.EntityName = "BUDGET ANNEXE EAU"
	principal := line("706", "1", "0")
	principal.EntityID = "217500016"
	principal.EntityName = "VILLE"
	principal.FiscalYear = 2023
	principal.Population = 12000

	meta := Normalize([]model.LedgerLine{annex, principal}, model.PrincipalBudget).Metadata()
	assert.Equal(t, "217500016", meta.EntityID)
	assert.Equal(t, "VILLE", meta.EntityName)
	assert.Equal(t, 2023, meta.FiscalYear)
	assert.Equal(t, 12000, meta.Population)
}

func TestBucketsSortedAcrossClasses(t *testing.T) {
	ix := Normalize([]model.LedgerLine{
		line("706", "1", "0"),
		line("1641", "1", "0"),
		line("60611", "0", "1"),
		line("601", "0", "1"),
	}, model.PrincipalBudget)

	var codes []string
	for _, b := range ix.Buckets() {
		codes = append(codes, b.AccountCode)
	}
	assert.Equal(t, []string{"1641", "601", "60611", "706"}, codes)
}

func TestMovementsSkipIdleBuckets(t *testing.T) {
	ix := Normalize([]model.LedgerLine{
		line("706", "100", "100"),
		line("606", "0", "40"),
	}, model.PrincipalBudget)

	moves := ix.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, "606", moves[0].AccountCode)
	// Idle buckets are still part of the index.
	_, ok := ix.Bucket("706")
	assert.True(t, ok)
}

func TestScan(t *testing.T) {
	ix := Normalize([]model.LedgerLine{
		line("7311", "10", "0"),
		line("73211", "20", "0"),
		line("741", "30", "0"),
		line("606", "0", "40"),
		line("074", "99", "0"),
	}, model.PrincipalBudget)

	tests := []struct {
		name string
		rule classify.Rule
		want []string
	}{
		{"class prefix", classify.Prefixes("73"), []string{"7311", "73211"}},
		{"exclusion", classify.Prefixes("73").Except("732"), []string{"7311"}},
		{"two classes", classify.Prefixes("741", "60"), []string{"606", "741"}},
		{"literal prefix", classify.Prefixes("74"), []string{"741"}},
		{"empty", classify.Rule{}, nil},
		{"every class", classify.Prefixes(""), []string{"074", "606", "7311", "73211", "741"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			ix.Scan(tt.rule, func(b model.AccountBucket) {
				got = append(got, b.AccountCode)
			})
			assert.Equal(t, tt.want, got)
		})
	}
}
