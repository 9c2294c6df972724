// Package classify decides which accounts of the M57/M14 chart belong to a
// bucket, using literal digit-string prefixes.
package classify

import (
	"sort"
	"strings"
)

// Matches reports whether code starts with any include prefix and with none
// of the exclude prefixes. Exclusions always win over inclusions.
func Matches(code string, include, exclude []string) bool {
	if !hasAnyPrefix(code, include) {
		return false
	}
	return !hasAnyPrefix(code, exclude)
}

func hasAnyPrefix(code string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// Rule is an include/exclude prefix pair describing one bucket of accounts.
type Rule struct {
	Include []string
	Exclude []string
}

// Prefixes starts a Rule including every account under the given prefixes.
func Prefixes(include ...string) Rule {
	return Rule{Include: include}
}

// Except returns a copy of r that additionally excludes the given prefixes.
func (r Rule) Except(exclude ...string) Rule {
	ex := make([]string, 0, len(r.Exclude)+len(exclude))
	ex = append(ex, r.Exclude...)
	ex = append(ex, exclude...)
	return Rule{Include: r.Include, Exclude: ex}
}

// Matches reports whether code belongs to the bucket.
func (r Rule) Matches(code string) bool {
	return Matches(code, r.Include, r.Exclude)
}

// Empty reports whether the rule can match nothing because it includes nothing.
func (r Rule) Empty() bool {
	return len(r.Include) == 0
}

// Classes returns the sorted leading digits an account must start with to
// possibly match. The boolean is true when some include prefix is empty and
// the rule therefore reaches every class.
func (r Rule) Classes() ([]byte, bool) {
	seen := make(map[byte]bool, len(r.Include))
	var classes []byte
	for _, p := range r.Include {
		if p == "" {
			return nil, true
		}
		if !seen[p[0]] {
			seen[p[0]] = true
			classes = append(classes, p[0])
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes, false
}

// String renders the rule the way the nomenclature documents it,
// e.g. "70, 75 (except 75882)".
func (r Rule) String() string {
	s := strings.Join(r.Include, ", ")
	if len(r.Exclude) > 0 {
		s += " (except " + strings.Join(r.Exclude, ", ") + ")"
	}
	return s
}

// InternalOrder returns the ten termination-9 prefixes of an account class:
// {class}{i}9 for i in 0..9, e.g. 709, 719, ..., 799 for class '7'.
// Those accounts carry internal-order (non-cash) counter-entries.
func InternalOrder(class byte) []string {
	out := make([]string, 0, 10)
	for i := byte('0'); i <= '9'; i++ {
		out = append(out, string([]byte{class, i, '9'}))
	}
	return out
}
