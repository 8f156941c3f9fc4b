// Package export serializes registration sets to spreadsheet-compatible
// CSV: semicolon-delimited, UTF-8 with byte-order mark, Dutch date and
// currency formatting.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/lss-analytics/training-api/internal/domain"
	"github.com/lss-analytics/training-api/internal/normalize"
	"github.com/shopspring/decimal"
)

var header = []string{"Datum Inschrijving", "Training", "Omzet", "Type", "Bedrijf"}

// WriteCSV renders the set as semicolon-delimited CSV, sorted by
// registration date. The UTF-8 BOM keeps Excel from misreading the
// encoding.
func WriteCSV(set *domain.RegistrationSet) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range set.SortedByDate().Registrations() {
		record := []string{
			r.RegisteredAt.Format(normalize.DateLayout),
			r.TrainingName,
			FormatEuro(r.Revenue),
			r.Type,
			r.Company,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatEuro renders an amount in Dutch locale currency format:
// "€ 1.234,56" with dots for thousands and a decimal comma.
func FormatEuro(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	whole, frac := parts[0], parts[1]

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("€ %s%s,%s", sign, grouped.String(), frac)
}
