package id

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidReportID is returned for report IDs not shaped "<siren>-<year>".
var ErrInvalidReportID = errors.New("invalid report ID")

// FormatReportID returns a report ID like "217500016-2023".
func FormatReportID(siren string, year int) string {
	return fmt.Sprintf("%s-%04d", siren, year)
}

// ReportFile returns the file name of a report, e.g. "217500016-2023.json".
func ReportFile(siren string, year int) string {
	return FormatReportID(siren, year) + ".json"
}

// ParseReportID parses "217500016-2023" into siren and year. A ".json"
// suffix is accepted.
func ParseReportID(id string) (siren string, year int, err error) {
	base := strings.TrimSuffix(id, ".json")

	i := strings.LastIndexByte(base, '-')
	if i <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidReportID, id)
	}
	siren, yearText := base[:i], base[i+1:]
	if !digits(siren) {
		return "", 0, fmt.Errorf("%w: siren %q in %q", ErrInvalidReportID, siren, id)
	}

	if len(yearText) != 4 {
		return "", 0, fmt.Errorf("%w: year %q in %q", ErrInvalidReportID, yearText, id)
	}
	year, err = strconv.Atoi(yearText)
	if err != nil {
		return "", 0, fmt.Errorf("%w: year in %q: %v", ErrInvalidReportID, id, err)
	}

	return siren, year, nil
}

// ValidSIREN reports whether s is a 9-digit SIREN number.
func ValidSIREN(s string) bool {
	return len(s) == 9 && digits(s)
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
