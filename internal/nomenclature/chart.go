// Package nomenclature resolves account codes to their M57 labels.
package nomenclature

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/collectivites/m57/internal/model"
)

// UnknownLabel is reported for codes no prefix of which is in the chart.
const UnknownLabel = "Account not found in the M57 chart"

// Chart provides read-only label lookup over a nomenclature.
type Chart struct {
	accounts []model.Account
	byCode   map[string]model.Account
}

// NewChart creates a Chart from a slice of accounts. Later duplicates win.
func NewChart(accounts []model.Account) *Chart {
	byCode := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	sorted := make([]model.Account, 0, len(byCode))
	for _, a := range byCode {
		sorted = append(sorted, a)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	return &Chart{accounts: sorted, byCode: byCode}
}

// Path returns the nomenclature location inside a workspace.
func Path(root string) string {
	return filepath.Join(root, "nomenclature", "chart.csv")
}

// Load reads the workspace nomenclature and returns a Chart.
func Load(root string) (*Chart, error) {
	return LoadFile(Path(root))
}

// LoadFile reads a nomenclature CSV file.
func LoadFile(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening nomenclature: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading nomenclature: %w", err)
	}
	return NewChart(accts), nil
}

// All returns all accounts sorted by code.
func (c *Chart) All() []model.Account {
	return c.accounts
}

// Len returns the number of accounts.
func (c *Chart) Len() int {
	return len(c.accounts)
}

// Get returns the account with exactly this code.
func (c *Chart) Get(code string) (model.Account, bool) {
	a, ok := c.byCode[code]
	return a, ok
}

// Label returns the label of code, falling back to the longest listed prefix.
func (c *Chart) Label(code string) (string, bool) {
	for n := len(code); n > 0; n-- {
		if a, ok := c.byCode[code[:n]]; ok {
			return a.Label, true
		}
	}
	return "", false
}

// LabelOrUnknown returns Label(code) or UnknownLabel.
func (c *Chart) LabelOrUnknown(code string) string {
	if l, ok := c.Label(code); ok {
		return l
	}
	return UnknownLabel
}

// Save writes the chart to the workspace nomenclature file.
func (c *Chart) Save(root string) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating nomenclature dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating nomenclature file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, c.accounts); err != nil {
		return fmt.Errorf("writing nomenclature: %w", err)
	}
	return nil
}
