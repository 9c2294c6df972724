package benchmark

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/ledger"
	"github.com/collectivites/m57/internal/model"
)

// Labeler resolves account codes to nomenclature labels.
type Labeler interface {
	Label(code string) (string, bool)
}

// Row compares one account of the commune with its band.
type Row struct {
	Code              string          `json:"code"`
	Label             string          `json:"label,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	PerInhabitant     decimal.Decimal `json:"per_inhabitant"`
	PeerMean          decimal.Decimal `json:"peer_mean"`
	PeerPerInhabitant decimal.Decimal `json:"peer_per_inhabitant"`
	Gap               decimal.Decimal `json:"gap"`
	// GapPercent is nil when the peer mean is zero.
	GapPercent              *decimal.Decimal `json:"gap_percent"`
	GapPerInhabitant        decimal.Decimal  `json:"gap_per_inhabitant"`
	GapPerInhabitantPercent *decimal.Decimal `json:"gap_per_inhabitant_percent"`
	Communes                int              `json:"communes"`
}

// Comparison is the benchmark of one commune for one fiscal year.
type Comparison struct {
	Commune  model.Commune   `json:"commune"`
	Year     int             `json:"year"`
	BandSize int             `json:"band_size"`
	Sampled  int             `json:"sampled"`
	Stats    map[string]Stat `json:"stats"`
	Rows     []Row           `json:"rows"`
}

var hundred = decimal.NewFromInt(100)

// Rows compares every moving account of target with stats, largest absolute
// gap first. Accounts no peer moved compare against zero.
func Rows(target *ledger.Index, population int, stats map[string]Stat, labels Labeler) []Row {
	rows := []Row{}
	for _, b := range target.Movements() {
		st := stats[b.AccountCode]
		amount := b.NetFlow()
		perInhabitant := decimal.Zero
		if population > 0 {
			perInhabitant = amount.Div(decimal.NewFromInt(int64(population))).Round(Precision)
		}

		r := Row{
			Code:              b.AccountCode,
			Amount:            amount,
			PerInhabitant:     perInhabitant,
			PeerMean:          st.Mean,
			PeerPerInhabitant: st.MeanPerInhabitant,
			Gap:               amount.Sub(st.Mean),
			GapPerInhabitant:  perInhabitant.Sub(st.MeanPerInhabitant),
			Communes:          st.Communes,
		}
		r.GapPercent = percentOf(r.Gap, st.Mean)
		r.GapPerInhabitantPercent = percentOf(r.GapPerInhabitant, st.MeanPerInhabitant)
		if labels != nil {
			r.Label, _ = labels.Label(b.AccountCode)
		}
		rows = append(rows, r)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		gi, gj := rows[i].Gap.Abs(), rows[j].Gap.Abs()
		if !gi.Equal(gj) {
			return gi.GreaterThan(gj)
		}
		return rows[i].Code < rows[j].Code
	})
	return rows
}

func percentOf(gap, base decimal.Decimal) *decimal.Decimal {
	if base.IsZero() {
		return nil
	}
	pct := gap.Div(base).Mul(hundred).Round(Precision)
	return &pct
}
