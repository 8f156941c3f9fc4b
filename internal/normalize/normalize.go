// Package normalize contains the pure text-cleaning functions that turn raw
// spreadsheet cells into canonical values: training names, company names,
// dates and locale-formatted revenue amounts.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/lss-analytics/training-api/internal/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the canonical dd-mm-yyyy presentation format.
const DateLayout = "02-01-2006"

var (
	slashDateRe = regexp.MustCompile(`\s+\d{1,2}/\d{1,2}/\d{4}`)
	dashDateRe  = regexp.MustCompile(`\s+\d{1,2}-\d{1,2}-\d{4}`)
	anyDateRe   = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{4}`)
)

// legalSuffixes are stripped from the end of company names, longest first so
// "b.v." wins over "bv". Only one suffix is stripped even if chained.
var legalSuffixes = []string{" b.v.", " n.v.", " bv", " nv", " inc", " ltd"}

// CleanTrainingName strips a trailing date token from a raw training name
// and collapses whitespace. Idempotent.
//
//	CleanTrainingName("Green Belt Training 12/12/2024") == "Green Belt Training"
func CleanTrainingName(raw string) string {
	name := slashDateRe.ReplaceAllString(raw, "")
	name = dashDateRe.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

// ExtractTrainingDate pulls the embedded date token out of a raw training
// name, when present. The token is the one CleanTrainingName strips.
func ExtractTrainingDate(raw string) (time.Time, bool) {
	token := anyDateRe.FindString(raw)
	if token == "" {
		return time.Time{}, false
	}
	layout := "2-1-2006"
	if strings.Contains(token, "/") {
		layout = "2/1/2006"
	}
	t, err := time.Parse(layout, token)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CleanCompanyName trims and collapses whitespace, then strips one trailing
// legal suffix (bv, b.v., nv, n.v., inc, ltd) case-insensitively.
//
//	CleanCompanyName("ACME Solutions B.V.") == "ACME Solutions"
func CleanCompanyName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	lower := strings.ToLower(name)
	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(lower, suffix) {
			name = strings.TrimSpace(name[:len(name)-len(suffix)])
			break
		}
	}
	return name
}

// StandardizeDate parses a dd-mm-yyyy date string and reformats it to the
// canonical zero-padded form. On failure the original string is returned
// unchanged with ok=false; callers must treat that as a soft failure and
// emit a warning rather than abort.
func StandardizeDate(raw string) (string, bool) {
	t, err := time.Parse("2-1-2006", strings.TrimSpace(raw))
	if err != nil {
		return raw, false
	}
	return t.Format(DateLayout), true
}

// ParseDate parses a dd-mm-yyyy date string into a calendar date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse("2-1-2006", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &domain.ParseError{Field: "datum", Value: raw, Err: err}
	}
	return t, nil
}

// ParseRevenue parses a locale-formatted euro amount ("€ 1.234,56") into a
// decimal. The currency symbol and thousands separators are stripped and the
// decimal comma replaced. Non-numeric or negative content fails with a
// ParseError carrying the raw value.
func ParseRevenue(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(raw, "€", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &domain.ParseError{Field: "omzet", Value: raw, Err: err}
	}
	if amount.IsNegative() {
		return decimal.Zero, &domain.ParseError{Field: "omzet", Value: raw}
	}
	return amount, nil
}

// CompanyMatches reports whether a company name matches a search query.
// Matching is case-insensitive and intentionally permissive: either string
// containing the other counts, as does any whitespace-delimited token of one
// being a substring of a token of the other. "ING" matches
// "ING Bank Nederland" and "ING Bank" matches "ing".
func CompanyMatches(name, query string) bool {
	company := strings.ToLower(name)
	search := strings.ToLower(query)

	if strings.Contains(company, search) || strings.Contains(search, company) {
		return true
	}

	for _, sw := range strings.Fields(search) {
		for _, cw := range strings.Fields(company) {
			if strings.Contains(cw, sw) || strings.Contains(sw, cw) {
				return true
			}
		}
	}
	return false
}
