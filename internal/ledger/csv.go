package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/model"
)

// Header is the CSV header of a ledger file. Column names follow the
// public balance datasets.
const Header = "compte,obnetcre,obnetdeb,sd,sc,cbudg,siren,lbudg,exer,population"

const (
	numFields     = 10
	colCompte     = 0
	colCredit     = 1
	colDebit      = 2
	colDebitBal   = 3
	colCreditBal  = 4
	colScope      = 5
	colSiren      = 6
	colName       = 7
	colYear       = 8
	colPopulation = 9
)

// ReadLines reads all ledger lines from a CSV reader.
func ReadLines(r io.Reader) ([]model.LedgerLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var lines []model.LedgerLine
	for i, rec := range records[1:] {
		line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// WriteLines writes ledger lines to w, header included.
func WriteLines(w io.Writer, lines []model.LedgerLine) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, line := range lines {
		if err := cw.Write(MarshalLine(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalLine converts a LedgerLine to a CSV row. Zero amounts are left empty.
func MarshalLine(l model.LedgerLine) []string {
	row := make([]string, numFields)
	row[colCompte] = l.AccountCode
	row[colCredit] = amount(l.Credit)
	row[colDebit] = amount(l.Debit)
	row[colDebitBal] = amount(l.DebitBalance)
	row[colCreditBal] = amount(l.CreditBalance)
	row[colScope] = string(l.BudgetScope)
	row[colSiren] = l.EntityID
	row[colName] = l.EntityName
	if l.FiscalYear != 0 {
		row[colYear] = strconv.Itoa(l.FiscalYear)
	}
	if l.Population != 0 {
		row[colPopulation] = strconv.Itoa(l.Population)
	}
	return row
}

func amount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

// UnmarshalLine converts a CSV row to a LedgerLine. Empty numeric cells are zero.
func UnmarshalLine(record []string) (model.LedgerLine, error) {
	if len(record) != numFields {
		return model.LedgerLine{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var amounts [4]decimal.Decimal
	for i, col := range []int{colCredit, colDebit, colDebitBal, colCreditBal} {
		cell := strings.TrimSpace(record[col])
		if cell == "" {
			continue
		}
		d, err := decimal.NewFromString(cell)
		if err != nil {
			return model.LedgerLine{}, fmt.Errorf("parsing amount %q: %w", cell, err)
		}
		amounts[i] = d
	}

	year, err := optionalInt(record[colYear])
	if err != nil {
		return model.LedgerLine{}, fmt.Errorf("parsing exer %q: %w", record[colYear], err)
	}
	pop, err := optionalInt(record[colPopulation])
	if err != nil {
		return model.LedgerLine{}, fmt.Errorf("parsing population %q: %w", record[colPopulation], err)
	}

	return model.LedgerLine{
		AccountCode:   strings.TrimSpace(record[colCompte]),
		Credit:        amounts[0],
		Debit:         amounts[1],
		DebitBalance:  amounts[2],
		CreditBalance: amounts[3],
		BudgetScope:   model.BudgetScope(strings.TrimSpace(record[colScope])),
		EntityID:      strings.TrimSpace(record[colSiren]),
		EntityName:    record[colName],
		FiscalYear:    year,
		Population:    pop,
	}, nil
}

func optionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
