package normalize_test

import (
	"testing"
	"time"

	"github.com/lss-analytics/training-api/internal/normalize"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTrainingName_StripsTrailingDate(t *testing.T) {
	assert.Equal(t, "Green Belt Training", normalize.CleanTrainingName("Green Belt Training 12/12/2024"))
	assert.Equal(t, "Green Belt Training", normalize.CleanTrainingName("Green Belt Training 1-2-2024"))
	assert.Equal(t, "Black Belt", normalize.CleanTrainingName("  Black   Belt  "))
}

func TestCleanTrainingName_Idempotent(t *testing.T) {
	inputs := []string{
		"Green Belt Training 12/12/2024",
		"Lean Foundation",
		"  Orange  Belt   3-4-2023 ",
	}
	for _, in := range inputs {
		once := normalize.CleanTrainingName(in)
		assert.Equal(t, once, normalize.CleanTrainingName(once), "input %q", in)
	}
}

func TestExtractTrainingDate(t *testing.T) {
	d, ok := normalize.ExtractTrainingDate("Green Belt Training 12/12/2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 12, 12, 0, 0, 0, 0, time.UTC), d)

	d, ok = normalize.ExtractTrainingDate("Yellow Belt 3-4-2023")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC), d)

	_, ok = normalize.ExtractTrainingDate("Lean Foundation")
	assert.False(t, ok)
}

func TestCleanCompanyName_StripsLegalSuffix(t *testing.T) {
	assert.Equal(t, "ACME Solutions", normalize.CleanCompanyName("ACME Solutions B.V."))
	assert.Equal(t, "acme", normalize.CleanCompanyName("acme bv"))
	assert.Equal(t, "Planet", normalize.CleanCompanyName("Planet Ltd"))
	assert.Equal(t, "Globex", normalize.CleanCompanyName("  Globex   N.V. "))
}

func TestCleanCompanyName_StripsOnlyOneSuffix(t *testing.T) {
	// Chained suffixes lose only the last one
	assert.Equal(t, "ACME bv", normalize.CleanCompanyName("ACME bv ltd"))
}

func TestCleanCompanyName_CaseOnlyChangesSuffix(t *testing.T) {
	assert.Equal(t, "acme", normalize.CleanCompanyName("acme BV"))
	assert.Equal(t, "Boven", normalize.CleanCompanyName("Boven"))
}

func TestStandardizeDate(t *testing.T) {
	got, ok := normalize.StandardizeDate("1-1-2024")
	assert.True(t, ok)
	assert.Equal(t, "01-01-2024", got)

	got, ok = normalize.StandardizeDate("15-07-2023")
	assert.True(t, ok)
	assert.Equal(t, "15-07-2023", got)
}

func TestStandardizeDate_Idempotent(t *testing.T) {
	once, ok := normalize.StandardizeDate("9-3-2022")
	require.True(t, ok)
	twice, ok := normalize.StandardizeDate(once)
	require.True(t, ok)
	assert.Equal(t, once, twice)
}

func TestStandardizeDate_UnparsableReturnsOriginal(t *testing.T) {
	got, ok := normalize.StandardizeDate("niet een datum")
	assert.False(t, ok)
	assert.Equal(t, "niet een datum", got)
}

func TestParseRevenue(t *testing.T) {
	got, err := normalize.ParseRevenue("€ 1.234,56")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1234.56")), "got %s", got)

	got, err = normalize.ParseRevenue("€2.500,00")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("2500")), "got %s", got)

	got, err = normalize.ParseRevenue("750,50")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("750.5")), "got %s", got)
}

func TestParseRevenue_Invalid(t *testing.T) {
	_, err := normalize.ParseRevenue("gratis")
	assert.Error(t, err)

	_, err = normalize.ParseRevenue("€ -100,00")
	assert.Error(t, err)
}

func TestCompanyMatches(t *testing.T) {
	assert.True(t, normalize.CompanyMatches("ING Bank Nederland", "ing"))
	assert.True(t, normalize.CompanyMatches("ing", "ING Bank"))
	assert.True(t, normalize.CompanyMatches("Rabobank Utrecht", "rabobank"))
	assert.False(t, normalize.CompanyMatches("Rabobank", "ing"))
	assert.False(t, normalize.CompanyMatches("ACME", "globex"))
}
