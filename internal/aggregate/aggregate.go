// Package aggregate computes revenue summaries and period-over-period
// trends over a registration snapshot. Everything here is a pure function
// of (set, period, filters, now); no state survives a call.
package aggregate

import (
	"sort"
	"time"

	"github.com/lss-analytics/training-api/internal/domain"
	"github.com/lss-analytics/training-api/internal/normalize"
	"github.com/lss-analytics/training-api/internal/period"
	"github.com/shopspring/decimal"
)

// TypeStats holds the revenue and registration count for one training type.
type TypeStats struct {
	Revenue decimal.Decimal
	Count   int
}

// CompanyStats holds per-company totals plus the distinct training names
// the company registered for.
type CompanyStats struct {
	Revenue   decimal.Decimal
	Count     int
	Trainings []string
}

// TrainingStats holds per-training detail for the itemized section of a
// summary.
type TrainingStats struct {
	Count     int
	FirstDate time.Time
	Revenue   decimal.Decimal
}

// TypeTrend compares one type's revenue against the preceding period.
type TypeTrend struct {
	Current   decimal.Decimal
	Previous  decimal.Decimal
	ChangePct float64
}

// Trends carries the comparison against the immediately preceding period of
// the same kind. A zero previous total reports 0% change by policy, not as
// a math error.
type Trends struct {
	TotalChangePct  float64
	PreviousRevenue decimal.Decimal
	HasPrevious     bool
	ByType          map[string]TypeTrend
}

// Summary is the aggregate view of a filtered registration set.
type Summary struct {
	Period        string
	CompanyFilter string
	Start, End    time.Time
	Count         int
	TotalRevenue  decimal.Decimal
	ByType        map[string]TypeStats
	ByCompany     map[string]CompanyStats
	Trainings     map[string]TrainingStats
	TrainingOrder []string
	Trends        Trends
}

// Summarize filters the set down to the resolved period (and company, when
// given), then computes totals, per-type and per-company breakdowns, and
// trends against the preceding period. The preceding period is obtained by
// shifting the resolved range back one period unit and filtering the same
// snapshot independently; nothing is cached between calls.
func Summarize(set *domain.RegistrationSet, spec period.Spec, companyFilter string, now time.Time) Summary {
	start, end := spec.Range(now)

	current := set.FilterByPeriod(start, end)
	if companyFilter != "" {
		current = current.FilterByCompany(companyFilter, normalize.CompanyMatches)
	}

	s := Summary{
		Period:        spec.Label(now),
		CompanyFilter: companyFilter,
		Start:         start,
		End:           end,
		Count:         current.Len(),
		TotalRevenue:  current.TotalRevenue(),
		ByType:        typeStats(current),
		ByCompany:     companyStats(current),
		Trainings:     map[string]TrainingStats{},
	}

	for _, r := range current.Registrations() {
		ts, seen := s.Trainings[r.TrainingName]
		if !seen {
			ts.FirstDate = r.RegisteredAt
			s.TrainingOrder = append(s.TrainingOrder, r.TrainingName)
		}
		ts.Count++
		ts.Revenue = ts.Revenue.Add(r.Revenue)
		s.Trainings[r.TrainingName] = ts
	}

	if prevStart, prevEnd, ok := spec.PreviousRange(now); ok {
		previous := set.FilterByPeriod(prevStart, prevEnd)
		if companyFilter != "" {
			previous = previous.FilterByCompany(companyFilter, normalize.CompanyMatches)
		}
		s.Trends = trends(current, previous)
	} else {
		s.Trends = Trends{ByType: map[string]TypeTrend{}}
	}

	return s
}

func typeStats(set *domain.RegistrationSet) map[string]TypeStats {
	out := make(map[string]TypeStats)
	for _, r := range set.Registrations() {
		ts := out[r.Type]
		ts.Count++
		ts.Revenue = ts.Revenue.Add(r.Revenue)
		out[r.Type] = ts
	}
	return out
}

func companyStats(set *domain.RegistrationSet) map[string]CompanyStats {
	out := make(map[string]CompanyStats)
	seen := make(map[string]map[string]bool)
	for _, r := range set.Registrations() {
		cs := out[r.Company]
		cs.Count++
		cs.Revenue = cs.Revenue.Add(r.Revenue)
		if seen[r.Company] == nil {
			seen[r.Company] = make(map[string]bool)
		}
		if !seen[r.Company][r.TrainingName] {
			seen[r.Company][r.TrainingName] = true
			cs.Trainings = append(cs.Trainings, r.TrainingName)
		}
		out[r.Company] = cs
	}
	for company := range out {
		sort.Strings(out[company].Trainings)
	}
	return out
}

func trends(current, previous *domain.RegistrationSet) Trends {
	currentTotal := current.TotalRevenue()
	previousTotal := previous.TotalRevenue()

	t := Trends{
		PreviousRevenue: previousTotal,
		HasPrevious:     true,
		TotalChangePct:  changePct(currentTotal, previousTotal),
		ByType:          make(map[string]TypeTrend),
	}

	previousByType := previous.RevenueByType()
	for typeName, currentValue := range current.RevenueByType() {
		previousValue := previousByType[typeName]
		t.ByType[typeName] = TypeTrend{
			Current:   currentValue,
			Previous:  previousValue,
			ChangePct: changePct(currentValue, previousValue),
		}
	}
	return t
}

// changePct computes (current-previous)/previous*100, defined as 0 when the
// previous total is zero.
func changePct(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	pct, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
