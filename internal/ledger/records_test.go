package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectivites/m57/internal/model"
)

func TestDecodeRecordsPage(t *testing.T) {
	input := `{
	  "total_count": 2,
	  "results": [
	    {"compte": "706", "obnetcre": 1000.5, "obnetdeb": null, "cbudg": "1",
	     "siren": "217500016", "lbudg": "VILLE", "exer": "2023", "population": 12000},
	    {"compte": 1641, "sc": "5000", "cbudg": 1, "ctype": "BP", "codbud1": "00"}
	  ]
	}`
	lines, err := DecodeRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "706", lines[0].AccountCode)
	assert.True(t, lines[0].Credit.Equal(dec("1000.5")))
	assert.True(t, lines[0].Debit.IsZero())
	assert.Equal(t, model.PrincipalBudget, lines[0].BudgetScope)
	assert.Equal(t, 2023, lines[0].FiscalYear)
	assert.Equal(t, 12000, lines[0].Population)

	assert.Equal(t, "1641", lines[1].AccountCode)
	assert.True(t, lines[1].CreditBalance.Equal(dec("5000")))
	assert.Equal(t, model.PrincipalBudget, lines[1].BudgetScope)
	assert.Equal(t, "BP", lines[1].Type)
	assert.Equal(t, "00", lines[1].BudgetCode)
}

func TestDecodeRecordsBareArray(t *testing.T) {
	lines, err := DecodeRecords(strings.NewReader(`[{"compte": "606", "obnetdeb": "400"}]`))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Debit.Equal(dec("400")))
	assert.Equal(t, model.BudgetScope(""), lines[0].BudgetScope)
}

func TestDecodeRecordsEmpty(t *testing.T) {
	lines, err := DecodeRecords(strings.NewReader("  "))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestDecodeRecordsMalformed(t *testing.T) {
	_, err := DecodeRecords(strings.NewReader(`{"results": [`))
	assert.Error(t, err)
}

func TestScalarInt(t *testing.T) {
	assert.Equal(t, 2023, Scalar("2023").Int())
	assert.Equal(t, 12000, Scalar("12000.0").Int())
	assert.Equal(t, 12000, Scalar("12000.00").Int())
	assert.Equal(t, 0, Scalar("").Int())
	assert.Equal(t, 0, Scalar("n/a").Int())
}

func TestNumericBudgetScopeMatchesPrincipal(t *testing.T) {
	tests := []struct {
		name  string
		cbudg string
		want  model.BudgetScope
	}{
		{"integer", `1`, "1"},
		{"zero fraction", `1.0`, "1"},
		{"string", `"1"`, "1"},
		{"padded string", `" 1 "`, "1"},
		{"annex", `2.0`, "2"},
		{"real fraction", `1.5`, "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `[{"compte": "706", "obnetcre": 10, "cbudg": ` + tt.cbudg + `}]`
			lines, err := DecodeRecords(strings.NewReader(input))
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].BudgetScope)

			ix := Normalize(lines, model.PrincipalBudget)
			assert.Equal(t, tt.want == model.PrincipalBudget, !ix.Empty())
		})
	}
}
