package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectivites/m57/internal/ratios"
)

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestEvolve(t *testing.T) {
	tests := []struct {
		name  string
		prev  *decimal.Decimal
		cur   *decimal.Decimal
		trend Trend
		pct   string // "" when nil
	}{
		{"up", ptr("100"), ptr("110"), TrendUp, "10"},
		{"down", ptr("100"), ptr("50"), TrendDown, "-50"},
		{"stable", ptr("100"), ptr("101.5"), TrendStable, "1.5"},
		{"both zero", ptr("0"), ptr("0"), TrendStable, "0"},
		{"appeared", ptr("0"), ptr("12"), TrendAppeared, ""},
		{"unknown", nil, ptr("12"), TrendUnknown, ""},
		{"rounded", ptr("3"), ptr("4"), TrendUp, "33.33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Evolve(tt.prev, tt.cur)
			assert.Equal(t, tt.trend, e.Trend)
			if tt.pct == "" {
				assert.Nil(t, e.Percent)
				return
			}
			require.NotNil(t, e.Percent)
			assert.True(t, e.Percent.Equal(dec(tt.pct)), "got %s", e.Percent)
		})
	}
}

func TestCompare(t *testing.T) {
	docs := []Document{
		Build(ledgerFor(2023, "1100", "700", "200"), Options{}),
		Build(ledgerFor(2021, "1000", "400", "200"), Options{}),
		Build(ledgerFor(2022, "1050", "500", "200"), Options{}),
	}
	s, err := Compare(docs)
	require.NoError(t, err)

	assert.Equal(t, "217500016", s.EntityID)
	assert.Equal(t, []int{2021, 2022, 2023}, s.Years)

	rev := s.Items["operating_revenue"]
	require.Len(t, rev.YearOverYear, 2)
	assert.Equal(t, 2021, rev.YearOverYear[0].From)
	assert.Equal(t, 2022, rev.YearOverYear[0].To)
	assert.True(t, rev.YearOverYear[0].Percent.Equal(dec("5")))
	assert.Equal(t, TrendUp, rev.Overall.Trend)
	assert.True(t, rev.Overall.Percent.Equal(dec("10")))

	// CAF gross goes from 600 to 400.
	caf := s.Items["caf_gross"].Overall
	assert.Equal(t, TrendDown, caf.Trend)
	assert.True(t, caf.Percent.Equal(dec("-33.33")))

	kinds := map[string]bool{}
	for _, sig := range s.Signals {
		kinds[sig.Kind+"/"+sig.Item] = true
	}
	assert.True(t, kinds[SignalStrongTrend+"/personnel_costs"])
	assert.True(t, kinds[SignalAnomaly+"/personnel_costs"], "personnel +75%")
	assert.True(t, kinds[SignalSelfFinance+"/caf_gross"])
	assert.True(t, kinds[SignalRigidity+"/personnel_costs"])
	assert.False(t, kinds[SignalDebt+"/debt_stock"])

	require.Contains(t, s.Changes, ratios.GrossSavingsRate)
	ch := s.Changes[ratios.GrossSavingsRate]
	assert.Equal(t, 2, ch.Years)
	// 60.0 -> 36.4
	assert.True(t, ch.Total.Equal(dec("-23.6")), "got %s", ch.Total)
}

func TestCompareUnavailableYear(t *testing.T) {
	empty := Build(nil, Options{})
	empty.Metadata.EntityID = "217500016"
	empty.Metadata.FiscalYear = 2022

	s, err := Compare([]Document{Build(ledgerFor(2021, "1000", "400", "0"), Options{}), empty})
	require.NoError(t, err)
	assert.Equal(t, TrendUnknown, s.Items["caf_gross"].Overall.Trend)
	assert.Nil(t, s.Items["caf_gross"].Values[2022])
}

func TestCompareErrors(t *testing.T) {
	_, err := Compare(nil)
	assert.ErrorIs(t, err, ErrNoReports)

	other := Build(ledgerFor(2022, "1", "1", "0"), Options{})
	other.Metadata.EntityID = "200054781"
	_, err = Compare([]Document{Build(ledgerFor(2021, "1", "1", "0"), Options{}), other})
	assert.Error(t, err)

	_, err = Compare([]Document{
		Build(ledgerFor(2021, "1", "1", "0"), Options{}),
		Build(ledgerFor(2021, "2", "1", "0"), Options{}),
	})
	assert.ErrorContains(t, err, "2021")
}
