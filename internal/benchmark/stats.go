// Package benchmark compares the accounts of a municipality with the
// average of the communes in its population band.
package benchmark

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/ledger"
)

// Precision of every amount written by the package.
const Precision = 2

// Peer is the principal-budget ledger of one commune of the band.
type Peer struct {
	SIREN      string
	Population int
	Ledger     *ledger.Index
}

// Stat summarises the net flow of one account across the peers that moved it.
type Stat struct {
	Mean              decimal.Decimal `json:"mean"`
	Median            decimal.Decimal `json:"median"`
	Communes          int             `json:"communes"`
	MeanPerInhabitant decimal.Decimal `json:"mean_per_inhabitant"`
}

// Stats computes per-account statistics over peers. A peer whose net flow on
// an account is zero does not count for that account; per-inhabitant means
// only use peers with a known population. The median is the upper middle
// value.
func Stats(peers []Peer) map[string]Stat {
	codes := make(map[string]bool)
	for _, p := range peers {
		for _, b := range p.Ledger.Movements() {
			codes[b.AccountCode] = true
		}
	}

	out := make(map[string]Stat, len(codes))
	for code := range codes {
		var values, perInhabitant []decimal.Decimal
		for _, p := range peers {
			b, ok := p.Ledger.Bucket(code)
			if !ok {
				continue
			}
			flow := b.NetFlow()
			if flow.IsZero() {
				continue
			}
			values = append(values, flow)
			if p.Population > 0 {
				perInhabitant = append(perInhabitant, flow.Div(decimal.NewFromInt(int64(p.Population))))
			}
		}
		if len(values) == 0 {
			continue
		}

		sorted := append([]decimal.Decimal(nil), values...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
		out[code] = Stat{
			Mean:              mean(values).Round(Precision),
			Median:            sorted[len(sorted)/2].Round(Precision),
			Communes:          len(values),
			MeanPerInhabitant: mean(perInhabitant).Round(Precision),
		}
	}
	return out
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...).Div(decimal.NewFromInt(int64(len(values))))
}
