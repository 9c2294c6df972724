// Package hierarchy assembles computed aggregates into the nested tree
// consumed by reports, ratios and validation.
package hierarchy

import (
	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/aggregate"
	"github.com/collectivites/m57/internal/model"
)

// Node is one aggregate of the tree. Nodes are values; nothing mutates them
// after assembly.
type Node struct {
	Code        string          `json:"code,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Details     map[string]Node `json:"details,omitempty"`
}

// Section groups the top-level nodes of one domain section by name.
type Section map[string]Node

// Tree is the assembled aggregate hierarchy of one entity-year.
type Tree struct {
	Available bool               `json:"available"`
	Metadata  model.Metadata     `json:"metadata"`
	Sections  map[string]Section `json:"aggregates"`
}

// Assemble packages res into a tree. Every section and node is present even
// when res is unavailable, with zero amounts.
func Assemble(res aggregate.Result, meta model.Metadata) Tree {
	t := Tree{
		Available: res.Available,
		Metadata:  meta,
		Sections:  make(map[string]Section, len(layout)),
	}
	for _, sl := range layout {
		sec := make(Section, len(sl.slots))
		for _, s := range sl.slots {
			sec[s.name] = build(s, res)
		}
		t.Sections[sl.name] = sec
	}
	return t
}

func build(s slot, res aggregate.Result) Node {
	n := Node{
		Code:        s.code,
		Description: s.desc,
		Amount:      res.Get(s.key),
	}
	if len(s.details) > 0 {
		n.Details = make(map[string]Node, len(s.details))
		for _, d := range s.details {
			n.Details[d.name] = build(d, res)
		}
	}
	return n
}

// Find returns the node at path inside section, descending through details.
func (t Tree) Find(section string, path ...string) (Node, bool) {
	sec, ok := t.Sections[section]
	if !ok || len(path) == 0 {
		return Node{}, false
	}
	n, ok := sec[path[0]]
	if !ok {
		return Node{}, false
	}
	for _, name := range path[1:] {
		n, ok = n.Details[name]
		if !ok {
			return Node{}, false
		}
	}
	return n, true
}

// Amount returns the amount at path, zero when the node is missing.
func (t Tree) Amount(section string, path ...string) decimal.Decimal {
	n, _ := t.Find(section, path...)
	return n.Amount
}

// Walk calls fn for every node in presentation order, with the node's path
// inside its section.
func (t Tree) Walk(fn func(section string, path []string, n Node)) {
	for _, sl := range layout {
		sec := t.Sections[sl.name]
		for _, s := range sl.slots {
			n, ok := sec[s.name]
			if !ok {
				continue
			}
			walk(sl.name, []string{s.name}, s, n, fn)
		}
	}
}

func walk(section string, path []string, s slot, n Node, fn func(string, []string, Node)) {
	fn(section, path, n)
	for _, d := range s.details {
		child, ok := n.Details[d.name]
		if !ok {
			continue
		}
		p := append(append([]string(nil), path...), d.name)
		walk(section, p, d, child, fn)
	}
}
