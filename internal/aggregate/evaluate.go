// Package aggregate computes the regulatory aggregates of a municipal ledger
// from prefix rules and signed sums, in dependency order.
package aggregate

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/ledger"
)

// ErrUnavailable is returned by Result.Err when the ledger held no
// principal-budget account.
var ErrUnavailable = errors.New("no aggregates available: ledger has no principal-budget records")

// Values maps aggregate keys to amounts.
type Values map[Key]decimal.Decimal

// Get returns the value for key, or zero when it was never computed.
func (v Values) Get(key Key) decimal.Decimal {
	if d, ok := v[key]; ok {
		return d
	}
	return decimal.Zero
}

// Result is the outcome of one evaluation.
type Result struct {
	Values    Values
	Available bool
	Order     []Key // evaluation order
}

// Get returns the amount of key, zero if unknown.
func (r Result) Get(key Key) decimal.Decimal {
	return r.Values.Get(key)
}

// Err returns ErrUnavailable for an empty ledger, nil otherwise.
func (r Result) Err() error {
	if !r.Available {
		return ErrUnavailable
	}
	return nil
}

// order is the topological evaluation order of formulas.
var order = mustOrder(formulas)

// Keys returns every aggregate key in evaluation order.
func Keys() []Key {
	out := make([]Key, len(order))
	for i, f := range order {
		out[i] = f.key
	}
	return out
}

// Evaluate computes every aggregate over ix. An empty index yields a Result
// whose values are all exactly zero and whose Available flag is false.
func Evaluate(ix *ledger.Index) Result {
	res := Result{
		Values: make(Values, len(order)),
		Order:  Keys(),
	}
	if ix == nil || ix.Empty() {
		for _, f := range order {
			res.Values[f.key] = decimal.Zero
		}
		return res
	}

	s := NewSummer(ix)
	for _, f := range order {
		res.Values[f.key] = f.eval(s, res.Values)
	}
	res.Available = true
	return res
}

func mustOrder(fs []formula) []formula {
	sorted, err := topoSort(fs)
	if err != nil {
		panic(fmt.Sprintf("aggregate: %v", err))
	}
	return sorted
}

// topoSort orders formulas so that each comes after its dependencies. Ties
// keep declaration order, so the result is deterministic.
func topoSort(fs []formula) ([]formula, error) {
	index := make(map[Key]int, len(fs))
	for i, f := range fs {
		if _, dup := index[f.key]; dup {
			return nil, fmt.Errorf("duplicate formula %q", f.key)
		}
		index[f.key] = i
	}

	pending := make([]int, len(fs))
	dependents := make([][]int, len(fs))
	for i, f := range fs {
		for _, d := range f.deps {
			j, ok := index[d]
			if !ok {
				return nil, fmt.Errorf("formula %q depends on unknown %q", f.key, d)
			}
			pending[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	done := make([]bool, len(fs))
	sorted := make([]formula, 0, len(fs))
	for len(sorted) < len(fs) {
		next := -1
		for i := range fs {
			if !done[i] && pending[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var stuck []Key
			for i, f := range fs {
				if !done[i] {
					stuck = append(stuck, f.key)
				}
			}
			return nil, fmt.Errorf("dependency cycle among %v", stuck)
		}
		done[next] = true
		sorted = append(sorted, fs[next])
		for _, k := range dependents[next] {
			pending[k]--
		}
	}
	return sorted, nil
}
