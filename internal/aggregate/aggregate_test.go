package aggregate_test

import (
	"testing"
	"time"

	"github.com/lss-analytics/training-api/internal/aggregate"
	"github.com/lss-analytics/training-api/internal/domain"
	"github.com/lss-analytics/training-api/internal/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.August, 15, 12, 0, 0, 0, time.UTC)

func reg(day string, training, typ, company string, revenue int64) domain.Registration {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return domain.Registration{
		RegisteredAt: d,
		TrainingName: training,
		Type:         typ,
		Company:      company,
		Revenue:      decimal.NewFromInt(revenue),
	}
}

func TestSummarize_TotalsAndBreakdowns(t *testing.T) {
	set := domain.NewRegistrationSet([]domain.Registration{
		reg("2024-03-05", "Green Belt Training", "Green Belt", "ACME", 500),
		reg("2024-03-12", "Green Belt Training", "Green Belt", "Globex", 500),
		reg("2024-03-20", "Black Belt Training", "Black Belt", "ACME", 1200),
		reg("2024-04-01", "Green Belt Training", "Green Belt", "ACME", 500),
	})

	spec := period.Spec{Kind: period.SpecificMonth, Year: 2024, Month: time.March}
	s := aggregate.Summarize(set, spec, "", now)

	assert.Equal(t, "maart 2024", s.Period)
	assert.Equal(t, 3, s.Count)
	assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(2200)), "got %s", s.TotalRevenue)

	require.Contains(t, s.ByType, "Green Belt")
	assert.Equal(t, 2, s.ByType["Green Belt"].Count)
	assert.True(t, s.ByType["Green Belt"].Revenue.Equal(decimal.NewFromInt(1000)))

	require.Contains(t, s.ByCompany, "ACME")
	assert.Equal(t, 2, s.ByCompany["ACME"].Count)
	assert.Equal(t, []string{"Black Belt Training", "Green Belt Training"}, s.ByCompany["ACME"].Trainings)

	assert.Equal(t, []string{"Green Belt Training", "Black Belt Training"}, s.TrainingOrder)
	assert.Equal(t, 2, s.Trainings["Green Belt Training"].Count)
}

func TestSummarize_TrendAgainstPreviousMonth(t *testing.T) {
	set := domain.NewRegistrationSet([]domain.Registration{
		reg("2024-02-10", "Green Belt Training", "Green Belt", "ACME", 300),
		reg("2024-03-10", "Green Belt Training", "Green Belt", "ACME", 600),
	})

	spec := period.Spec{Kind: period.SpecificMonth, Year: 2024, Month: time.March}
	s := aggregate.Summarize(set, spec, "", now)

	require.True(t, s.Trends.HasPrevious)
	assert.True(t, s.Trends.PreviousRevenue.Equal(decimal.NewFromInt(300)))
	assert.InDelta(t, 100.0, s.Trends.TotalChangePct, 0.001)

	trend := s.Trends.ByType["Green Belt"]
	assert.InDelta(t, 100.0, trend.ChangePct, 0.001)
	assert.True(t, trend.Previous.Equal(decimal.NewFromInt(300)))
}

func TestSummarize_ZeroPreviousReportsZeroChange(t *testing.T) {
	set := domain.NewRegistrationSet([]domain.Registration{
		reg("2024-03-10", "Green Belt Training", "Green Belt", "ACME", 600),
	})

	spec := period.Spec{Kind: period.SpecificMonth, Year: 2024, Month: time.March}
	s := aggregate.Summarize(set, spec, "", now)

	require.True(t, s.Trends.HasPrevious)
	assert.Zero(t, s.Trends.TotalChangePct)
	assert.Zero(t, s.Trends.ByType["Green Belt"].ChangePct)
}

func TestSummarize_AllTimeHasNoTrend(t *testing.T) {
	set := domain.NewRegistrationSet([]domain.Registration{
		reg("2023-06-01", "Green Belt Training", "Green Belt", "ACME", 500),
	})

	s := aggregate.Summarize(set, period.Spec{Kind: period.AllTime}, "", now)
	assert.False(t, s.Trends.HasPrevious)
	assert.Equal(t, 1, s.Count)
}

func TestSummarize_CompanyFilterAppliesToBothPeriods(t *testing.T) {
	set := domain.NewRegistrationSet([]domain.Registration{
		reg("2024-02-10", "Green Belt Training", "Green Belt", "ACME", 200),
		reg("2024-02-15", "Green Belt Training", "Green Belt", "Globex", 900),
		reg("2024-03-10", "Green Belt Training", "Green Belt", "ACME", 400),
		reg("2024-03-15", "Green Belt Training", "Green Belt", "Globex", 100),
	})

	spec := period.Spec{Kind: period.SpecificMonth, Year: 2024, Month: time.March}
	s := aggregate.Summarize(set, spec, "acme", now)

	assert.Equal(t, "acme", s.CompanyFilter)
	assert.Equal(t, 1, s.Count)
	assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(400)))
	// Previous period is filtered to the same company before comparing
	assert.True(t, s.Trends.PreviousRevenue.Equal(decimal.NewFromInt(200)))
	assert.InDelta(t, 100.0, s.Trends.TotalChangePct, 0.001)
}

func TestSummarize_EmptyPeriod(t *testing.T) {
	set := domain.NewRegistrationSet([]domain.Registration{
		reg("2022-01-10", "Green Belt Training", "Green Belt", "ACME", 500),
	})

	spec := period.Spec{Kind: period.SpecificMonth, Year: 2024, Month: time.March}
	s := aggregate.Summarize(set, spec, "", now)

	assert.Zero(t, s.Count)
	assert.True(t, s.TotalRevenue.IsZero())
	assert.Empty(t, s.ByType)
	assert.Empty(t, s.TrainingOrder)
}
