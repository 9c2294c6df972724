package ratios

import "github.com/shopspring/decimal"

// Evolution is the change of one ratio between two years, in points (or
// years for the debt capacity).
type Evolution struct {
	Start         decimal.Decimal `json:"start"`
	End           decimal.Decimal `json:"end"`
	Total         decimal.Decimal `json:"total"`
	YearlyAverage decimal.Decimal `json:"yearly_average"`
	Years         int             `json:"years"`
}

// Evolve compares two ratio sets taken years apart. Ratios not applicable at
// either end are left out.
func Evolve(start, end Set, years int) map[string]Evolution {
	out := make(map[string]Evolution)
	for _, name := range Names {
		s, e := start.Get(name), end.Get(name)
		if !s.Applicable || !e.Applicable {
			continue
		}
		total := e.Value.Sub(s.Value).Round(1)
		avg := decimal.Zero
		if years > 0 {
			avg = total.Div(decimal.NewFromInt(int64(years))).Round(1)
		}
		out[name] = Evolution{
			Start:         s.Value,
			End:           e.Value,
			Total:         total,
			YearlyAverage: avg,
			Years:         years,
		}
	}
	return out
}
