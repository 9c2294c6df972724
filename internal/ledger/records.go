package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/model"
)

// Record is one result of the public balance API. Every numeric field may be
// absent or null, in which case it counts as zero.
type Record struct {
	Compte     Scalar         `json:"compte"`
	Obnetcre   decimal.NullDecimal `json:"obnetcre"`
	Obnetdeb   decimal.NullDecimal `json:"obnetdeb"`
	Sd         decimal.NullDecimal `json:"sd"`
	Sc         decimal.NullDecimal `json:"sc"`
	Cbudg      Scalar         `json:"cbudg"`
	Siren      Scalar         `json:"siren"`
	Lbudg      Scalar         `json:"lbudg"`
	Exer       Scalar         `json:"exer"`
	Population Scalar         `json:"population"`
	Ctype      Scalar         `json:"ctype"`
	Cstyp      Scalar         `json:"cstyp"`
	Secteur    Scalar         `json:"secteur"`
	Finess     Scalar         `json:"finess"`
	Codbud1    Scalar         `json:"codbud1"`
}

// Page is one page of API results.
type Page struct {
	TotalCount int      `json:"total_count"`
	Results    []Record `json:"results"`
}

// Line converts the record into a typed LedgerLine.
func (r Record) Line() model.LedgerLine {
	return model.LedgerLine{
		AccountCode:   string(r.Compte),
		Credit:        r.Obnetcre.Decimal,
		Debit:         r.Obnetdeb.Decimal,
		DebitBalance:  r.Sd.Decimal,
		CreditBalance: r.Sc.Decimal,
		BudgetScope:   model.BudgetScope(r.Cbudg),
		EntityID:      string(r.Siren),
		EntityName:    string(r.Lbudg),
		FiscalYear:    r.Exer.Int(),
		Population:    r.Population.Int(),
		Type:          string(r.Ctype),
		Subtype:       string(r.Cstyp),
		Sector:        string(r.Secteur),
		Finess:        string(r.Finess),
		BudgetCode:    string(r.Codbud1),
	}
}

// Lines converts a slice of records.
func Lines(records []Record) []model.LedgerLine {
	out := make([]model.LedgerLine, len(records))
	for i, r := range records {
		out[i] = r.Line()
	}
	return out
}

// DecodeRecords reads either an API page ({"results": [...]}) or a bare JSON
// array of records.
func DecodeRecords(r io.Reader) ([]model.LedgerLine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading ledger JSON: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing ledger JSON: %w", err)
		}
		return Lines(records), nil
	}

	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("parsing ledger JSON: %w", err)
	}
	return Lines(page.Results), nil
}

// Scalar accepts a JSON string, number or null. Integral numbers written
// with a zero fraction ("1.0") keep their integer form, so a numeric cbudg
// still matches the principal budget.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*s = ""
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = Scalar(strings.TrimSpace(v))
	default:
		*s = Scalar(integral(string(b)))
	}
	return nil
}

// integral drops an all-zero fraction from a plain decimal number.
func integral(v string) string {
	whole, frac, ok := strings.Cut(v, ".")
	if !ok || whole == "" || strings.Trim(frac, "0") != "" {
		return v
	}
	return whole
}

// Int parses the value as an integer, tolerating a ".0" suffix; anything
// unparsable is zero.
func (s Scalar) Int() int {
	n, err := strconv.Atoi(integral(string(s)))
	if err != nil {
		return 0
	}
	return n
}
