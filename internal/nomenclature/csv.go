package nomenclature

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/collectivites/m57/internal/model"
)

const (
	numFields = 2
	colCode   = 0
	colLabel  = 1
)

// ReadAccounts reads a code,label nomenclature CSV.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading nomenclature CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes a code,label nomenclature CSV.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"code", "label"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	return []string{acct.Code, acct.Label}
}

// UnmarshalAccount converts a CSV row to an Account. Codes must be digits.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	code := strings.TrimSpace(record[colCode])
	if code == "" {
		return model.Account{}, fmt.Errorf("empty account code")
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return model.Account{}, fmt.Errorf("account code %q is not numeric", code)
		}
	}

	return model.Account{
		Code:  code,
		Label: strings.TrimSpace(record[colLabel]),
	}, nil
}
