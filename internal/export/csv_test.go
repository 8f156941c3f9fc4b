package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/lss-analytics/training-api/internal/domain"
	"github.com/lss-analytics/training-api/internal/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reg(day string, training, typ, company string, revenue string) domain.Registration {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return domain.Registration{
		RegisteredAt: d,
		TrainingName: training,
		Type:         typ,
		Company:      company,
		Revenue:      decimal.RequireFromString(revenue),
	}
}

func TestWriteCSV(t *testing.T) {
	set := domain.NewRegistrationSet([]domain.Registration{
		reg("2024-03-01", "Black Belt Training", "Black Belt", "Globex", "2500"),
		reg("2024-01-10", "Green Belt Training", "Green Belt", "ACME", "1250.50"),
	})

	out, err := export.WriteCSV(set)
	require.NoError(t, err)

	content := string(out)
	require.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "missing UTF-8 BOM")

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(content, "\xEF\xBB\xBF"), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Datum Inschrijving;Training;Omzet;Type;Bedrijf", lines[0])
	// Rows come out sorted by registration date
	assert.Equal(t, "10-01-2024;Green Belt Training;€ 1.250,50;Green Belt;ACME", lines[1])
	assert.Equal(t, "01-03-2024;Black Belt Training;€ 2.500,00;Black Belt;Globex", lines[2])
}

func TestWriteCSV_EmptySet(t *testing.T) {
	out, err := export.WriteCSV(domain.NewRegistrationSet(nil))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(string(out), "\xEF\xBB\xBF"), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "Datum Inschrijving;Training;Omzet;Type;Bedrijf", lines[0])
}

func TestFormatEuro(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "€ 0,00"},
		{"750.5", "€ 750,50"},
		{"1234.56", "€ 1.234,56"},
		{"1234567.89", "€ 1.234.567,89"},
		{"-100", "€ -100,00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, export.FormatEuro(decimal.RequireFromString(tc.in)), "input %s", tc.in)
	}
}
