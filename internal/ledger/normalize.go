// Package ledger turns raw balance ledger lines into per-account buckets,
// indexed by account class for the aggregation engine.
package ledger

import (
	"fmt"
	"sort"

	"github.com/collectivites/m57/internal/classify"
	"github.com/collectivites/m57/internal/model"
)

// Index holds the principal-budget buckets of one ledger, grouped by the
// leading digit of their account code. It is read-only once built.
type Index struct {
	buckets map[string]*model.AccountBucket
	classes map[byte][]*model.AccountBucket // sorted by account code
	order   []byte                          // sorted class keys
	meta    model.Metadata
}

// Normalize keeps the lines whose budget scope equals scope, merges lines
// sharing an account code and indexes the resulting buckets. Lines without an
// account code are ignored. An empty input yields an empty Index.
func Normalize(lines []model.LedgerLine, scope model.BudgetScope) *Index {
	ix := &Index{
		buckets: make(map[string]*model.AccountBucket),
		classes: make(map[byte][]*model.AccountBucket),
	}

	var first *model.LedgerLine
	for i := range lines {
		l := &lines[i]
		if l.BudgetScope != scope {
			ix.meta.AnnexSkipped++
			continue
		}
		ix.meta.Principal++
		if first == nil {
			first = l
		}
		if l.AccountCode == "" {
			continue
		}
		b, ok := ix.buckets[l.AccountCode]
		if !ok {
			b = &model.AccountBucket{AccountCode: l.AccountCode}
			ix.buckets[l.AccountCode] = b
			c := model.ClassOf(l.AccountCode)
			ix.classes[c] = append(ix.classes[c], b)
		}
		b.Add(*l)
	}

	for c, bs := range ix.classes {
		sort.Slice(bs, func(i, j int) bool { return bs[i].AccountCode < bs[j].AccountCode })
		ix.order = append(ix.order, c)
	}
	sort.Slice(ix.order, func(i, j int) bool { return ix.order[i] < ix.order[j] })

	if first == nil && len(lines) > 0 {
		first = &lines[0]
	}
	if first != nil {
		ix.meta.EntityID = first.EntityID
		ix.meta.EntityName = first.EntityName
		ix.meta.FiscalYear = first.FiscalYear
		ix.meta.Population = first.Population
	}
	ix.meta.Scope = fmt.Sprintf("aggregates computed on budget scope %q only; annex budgets excluded", scope)
	return ix
}

// Empty reports whether no principal-budget account survived normalization.
func (ix *Index) Empty() bool {
	return len(ix.buckets) == 0
}

// Len returns the number of distinct account codes.
func (ix *Index) Len() int {
	return len(ix.buckets)
}

// Metadata returns the passthrough entity metadata and record counts.
func (ix *Index) Metadata() model.Metadata {
	return ix.meta
}

// Bucket returns the bucket for an exact account code.
func (ix *Index) Bucket(code string) (model.AccountBucket, bool) {
	b, ok := ix.buckets[code]
	if !ok {
		return model.AccountBucket{}, false
	}
	return *b, true
}

// Buckets returns every bucket sorted by account code.
func (ix *Index) Buckets() []model.AccountBucket {
	out := make([]model.AccountBucket, 0, len(ix.buckets))
	for _, c := range ix.order {
		for _, b := range ix.classes[c] {
			out = append(out, *b)
		}
	}
	return out
}

// Movements returns the buckets carrying a non-zero net flow or net balance,
// sorted by account code.
func (ix *Index) Movements() []model.AccountBucket {
	var out []model.AccountBucket
	for _, b := range ix.Buckets() {
		if !b.Idle() {
			out = append(out, b)
		}
	}
	return out
}

// Scan calls fn once for every bucket matched by rule. Only the classes the
// rule's include prefixes can reach are visited.
func (ix *Index) Scan(rule classify.Rule, fn func(model.AccountBucket)) {
	if rule.Empty() {
		return
	}
	classes, all := rule.Classes()
	if all {
		classes = ix.order
	}
	for _, c := range classes {
		for _, b := range ix.classes[c] {
			if rule.Matches(b.AccountCode) {
				fn(*b)
			}
		}
	}
}
