package report

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/hierarchy"
	"github.com/collectivites/m57/internal/ratios"
)

// Trend classifies an evolution.
type Trend string

const (
	TrendStable   Trend = "stable"
	TrendUp       Trend = "up"
	TrendDown     Trend = "down"
	TrendAppeared Trend = "appeared"
	TrendUnknown  Trend = "unknown"
)

// stableBand is the percent change under which a value counts as stable.
var stableBand = decimal.NewFromInt(2)

// Evolution is the change of one amount between two years.
type Evolution struct {
	From     int              `json:"from"`
	To       int              `json:"to"`
	Previous *decimal.Decimal `json:"previous"`
	Current  *decimal.Decimal `json:"current"`
	Absolute *decimal.Decimal `json:"absolute"`
	Percent  *decimal.Decimal `json:"percent"`
	Trend    Trend            `json:"trend"`
}

// Evolve compares two amounts. A nil amount means the year had no
// aggregates; the trend is then unknown.
func Evolve(previous, current *decimal.Decimal) Evolution {
	e := Evolution{Previous: previous, Current: current}
	if previous == nil || current == nil {
		e.Trend = TrendUnknown
		return e
	}

	abs := current.Sub(*previous).Round(2)
	e.Absolute = &abs
	if previous.IsZero() {
		if current.IsZero() {
			zero := decimal.Zero
			e.Percent = &zero
			e.Trend = TrendStable
		} else {
			e.Trend = TrendAppeared
		}
		return e
	}

	pct := current.Sub(*previous).Div(*previous).Mul(decimal.NewFromInt(100)).Round(2)
	e.Percent = &pct
	switch {
	case pct.Abs().LessThan(stableBand):
		e.Trend = TrendStable
	case pct.IsPositive():
		e.Trend = TrendUp
	default:
		e.Trend = TrendDown
	}
	return e
}

// Item is a tracked amount of the tree.
type Item struct {
	Name    string
	Section string
	Path    []string
}

// Tracked lists the amounts followed across years.
var Tracked = []Item{
	{"operating_revenue", hierarchy.Operating, []string{"total_revenue"}},
	{"operating_expense", hierarchy.Operating, []string{"total_expense"}},
	{"accounting_result", hierarchy.Operating, []string{"accounting_result"}},
	{"local_taxes", hierarchy.Operating, []string{"caf_revenue", "local_taxes"}},
	{"global_operating_grant", hierarchy.Operating, []string{"caf_revenue", "global_operating_grant"}},
	{"personnel_costs", hierarchy.Operating, []string{"caf_expense", "personnel_costs"}},
	{"equipment_expenditure", hierarchy.Investment, []string{"total_uses", "equipment_expenditure"}},
	{"bank_loans", hierarchy.Investment, []string{"total_resources", "bank_loans"}},
	{"grants_received", hierarchy.Investment, []string{"total_resources", "grants_received"}},
	{"caf_gross", hierarchy.SelfFinancing, []string{"caf_gross"}},
	{"caf_net", hierarchy.SelfFinancing, []string{"caf_net"}},
	{"debt_stock", hierarchy.Debt, []string{"total_stock"}},
}

// ItemSeries is the history of one tracked amount.
type ItemSeries struct {
	Values       map[int]*decimal.Decimal `json:"values"`
	YearOverYear []Evolution              `json:"year_over_year"`
	Overall      Evolution                `json:"overall"`
}

// Signal flags a notable evolution.
type Signal struct {
	Kind    string          `json:"kind"`
	Item    string          `json:"item"`
	Percent decimal.Decimal `json:"percent"`
	Message string          `json:"message"`
}

// Signal kinds.
const (
	SignalStrongTrend = "strong_trend"
	SignalAnomaly     = "anomaly"
	SignalDebt        = "debt"
	SignalSelfFinance = "self_financing"
	SignalRigidity    = "rigidity"
)

// Series compares the reports of one entity over several years.
type Series struct {
	EntityID string                      `json:"siren"`
	Years    []int                       `json:"years"`
	Items    map[string]ItemSeries       `json:"items"`
	Ratios   map[int]ratios.Set          `json:"ratios"`
	Changes  map[string]ratios.Evolution `json:"ratio_changes"`
	Signals  []Signal                    `json:"signals"`
}

// ErrNoReports is returned by Compare without input.
var ErrNoReports = errors.New("no reports to compare")

// Compare orders docs by fiscal year and computes year-over-year and
// first-to-last evolutions of the tracked amounts and ratios. All documents
// must belong to the same entity and distinct years.
func Compare(docs []Document) (Series, error) {
	if len(docs) == 0 {
		return Series{}, ErrNoReports
	}

	sorted := append([]Document(nil), docs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Metadata.FiscalYear < sorted[j].Metadata.FiscalYear
	})

	s := Series{
		EntityID: sorted[0].Metadata.EntityID,
		Items:    make(map[string]ItemSeries, len(Tracked)),
		Ratios:   make(map[int]ratios.Set, len(sorted)),
		Signals:  []Signal{},
	}
	for i, d := range sorted {
		if d.Metadata.EntityID != s.EntityID {
			return Series{}, fmt.Errorf("report for %q mixed with %q", d.Metadata.EntityID, s.EntityID)
		}
		if i > 0 && d.Metadata.FiscalYear == sorted[i-1].Metadata.FiscalYear {
			return Series{}, fmt.Errorf("two reports for year %d", d.Metadata.FiscalYear)
		}
		s.Years = append(s.Years, d.Metadata.FiscalYear)
		s.Ratios[d.Metadata.FiscalYear] = d.Ratios
	}

	for _, item := range Tracked {
		is := ItemSeries{Values: make(map[int]*decimal.Decimal, len(sorted))}
		values := make([]*decimal.Decimal, len(sorted))
		for i, d := range sorted {
			values[i] = amountOf(d, item)
			is.Values[d.Metadata.FiscalYear] = values[i]
		}
		for i := 1; i < len(sorted); i++ {
			e := Evolve(values[i-1], values[i])
			e.From, e.To = s.Years[i-1], s.Years[i]
			is.YearOverYear = append(is.YearOverYear, e)
		}
		is.Overall = Evolve(values[0], values[len(values)-1])
		is.Overall.From, is.Overall.To = s.Years[0], s.Years[len(s.Years)-1]
		s.Items[item.Name] = is
	}

	first, last := sorted[0], sorted[len(sorted)-1]
	s.Changes = ratios.Evolve(first.Ratios, last.Ratios, last.Metadata.FiscalYear-first.Metadata.FiscalYear)
	s.Signals = detect(s)
	return s, nil
}

func amountOf(d Document, item Item) *decimal.Decimal {
	if !d.Available {
		return nil
	}
	n, ok := d.Tree().Find(item.Section, item.Path...)
	if !ok {
		return nil
	}
	v := n.Amount
	return &v
}

var (
	strongTrend   = decimal.NewFromInt(20)
	anomalyHigh   = decimal.NewFromInt(50)
	anomalyLow    = decimal.NewFromInt(-30)
	debtAlert     = decimal.NewFromInt(15)
	cafAlert      = decimal.NewFromInt(-10)
	rigidityAlert = decimal.NewFromInt(5)
)

// detect flags strong or anomalous overall evolutions and a few known
// warning patterns.
func detect(s Series) []Signal {
	out := []Signal{}
	overall := func(name string) (decimal.Decimal, bool) {
		e := s.Items[name].Overall
		if e.Percent == nil {
			return decimal.Zero, false
		}
		return *e.Percent, true
	}

	for _, item := range Tracked {
		pct, ok := overall(item.Name)
		if !ok {
			continue
		}
		if pct.Abs().GreaterThan(strongTrend) {
			out = append(out, Signal{Kind: SignalStrongTrend, Item: item.Name, Percent: pct,
				Message: fmt.Sprintf("%s changed by %s%% over the period", item.Name, pct.StringFixed(1))})
		}
		if pct.GreaterThan(anomalyHigh) || pct.LessThan(anomalyLow) {
			out = append(out, Signal{Kind: SignalAnomaly, Item: item.Name, Percent: pct,
				Message: fmt.Sprintf("very large change of %s (%s%%)", item.Name, pct.StringFixed(1))})
		}
	}

	if pct, ok := overall("debt_stock"); ok && pct.GreaterThan(debtAlert) {
		out = append(out, Signal{Kind: SignalDebt, Item: "debt_stock", Percent: pct,
			Message: fmt.Sprintf("debt stock up %s%%", pct.StringFixed(1))})
	}
	if pct, ok := overall("caf_gross"); ok && pct.LessThan(cafAlert) {
		out = append(out, Signal{Kind: SignalSelfFinance, Item: "caf_gross", Percent: pct,
			Message: fmt.Sprintf("gross self-financing capacity down %s%%", pct.Abs().StringFixed(1))})
	}
	personnel, okP := overall("personnel_costs")
	revenue, okR := overall("operating_revenue")
	if okP && okR && personnel.GreaterThan(revenue.Add(rigidityAlert)) {
		out = append(out, Signal{Kind: SignalRigidity, Item: "personnel_costs", Percent: personnel,
			Message: fmt.Sprintf("personnel costs (%s%%) grow faster than operating revenue (%s%%)",
				personnel.StringFixed(1), revenue.StringFixed(1))})
	}
	return out
}
