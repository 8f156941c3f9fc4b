// Package period turns free-text Dutch queries into concrete calendar
// periods and provides the date math for period-over-period comparisons.
package period

import (
	"fmt"
	"time"
)

// Kind discriminates the period variants.
type Kind int

const (
	AllTime Kind = iota
	Year
	SpecificMonth
	Quarter
	CurrentMonth
	PreviousMonth
	CurrentYear
	PreviousYear
)

// Epoch is the lower bound used for all-time ranges. The dataset holds no
// registrations before it.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Spec describes a requested period as a tagged variant. Only the fields
// relevant to the Kind are set: Year for Year/SpecificMonth/Quarter, Month
// for SpecificMonth, Quarter for Quarter.
type Spec struct {
	Kind    Kind
	Year    int
	Month   time.Month
	Quarter int
}

// monthNames maps the twelve Dutch month names to their month numbers.
// Declared in calendar order so labels can index back into it.
var monthNames = []string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

// MonthNumber returns the month for a Dutch month name, if known.
func MonthNumber(name string) (time.Month, bool) {
	for i, m := range monthNames {
		if m == name {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// MonthName returns the Dutch name for a month.
func MonthName(m time.Month) string {
	return monthNames[int(m)-1]
}

// Range resolves the spec against "now" into a concrete [start, end] date
// range, inclusive on both ends. Relative kinds resolve to the calendar
// period containing (or preceding) now.
func (s Spec) Range(now time.Time) (start, end time.Time) {
	today := dateOnly(now)
	switch s.Kind {
	case Year:
		return yearRange(s.Year)
	case SpecificMonth:
		return monthRange(s.Year, s.Month)
	case Quarter:
		first := time.Month((s.Quarter-1)*3 + 1)
		start = time.Date(s.Year, first, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 3, -1)
		return start, end
	case CurrentMonth:
		return monthRange(today.Year(), today.Month())
	case PreviousMonth:
		prev := monthOf(today).AddDate(0, -1, 0)
		return monthRange(prev.Year(), prev.Month())
	case CurrentYear:
		return yearRange(today.Year())
	case PreviousYear:
		return yearRange(today.Year() - 1)
	default:
		return Epoch, today
	}
}

// PreviousRange shifts the resolved range back by exactly one period unit:
// the previous calendar month for month periods, the same months one year
// earlier for year and quarter periods. All-time has no preceding period.
func (s Spec) PreviousRange(now time.Time) (start, end time.Time, ok bool) {
	today := dateOnly(now)
	switch s.Kind {
	case SpecificMonth:
		prevYear, prevMonth := s.Year, s.Month-1
		if s.Month == time.January {
			prevYear, prevMonth = s.Year-1, time.December
		}
		start, end = monthRange(prevYear, prevMonth)
		return start, end, true
	case CurrentMonth:
		prev := monthOf(today).AddDate(0, -1, 0)
		start, end = monthRange(prev.Year(), prev.Month())
		return start, end, true
	case PreviousMonth:
		prev := monthOf(today).AddDate(0, -2, 0)
		start, end = monthRange(prev.Year(), prev.Month())
		return start, end, true
	case Year:
		start, end = yearRange(s.Year - 1)
		return start, end, true
	case CurrentYear:
		start, end = yearRange(today.Year() - 1)
		return start, end, true
	case PreviousYear:
		start, end = yearRange(today.Year() - 2)
		return start, end, true
	case Quarter:
		shifted := Spec{Kind: Quarter, Year: s.Year - 1, Quarter: s.Quarter}
		start, end = shifted.Range(now)
		return start, end, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Label returns the human-readable Dutch description of the period.
func (s Spec) Label(now time.Time) string {
	today := dateOnly(now)
	switch s.Kind {
	case Year:
		return fmt.Sprintf("%d", s.Year)
	case SpecificMonth:
		return fmt.Sprintf("%s %d", MonthName(s.Month), s.Year)
	case Quarter:
		return fmt.Sprintf("Q%d %d", s.Quarter, s.Year)
	case CurrentMonth:
		return fmt.Sprintf("1-%d-%d tot %s", int(today.Month()), today.Year(), today.Format("02-01-2006"))
	case PreviousMonth:
		prev := monthOf(today).AddDate(0, -1, 0)
		return fmt.Sprintf("%s %d", MonthName(prev.Month()), prev.Year())
	case CurrentYear:
		return fmt.Sprintf("%d", today.Year())
	case PreviousYear:
		return fmt.Sprintf("%d", today.Year()-1)
	default:
		return "Alle data"
	}
}

// explicit reports whether the spec was resolved from an explicit year,
// month+year or quarter+year mention. Only explicit periods are subject to
// future-date validation; relative periods are valid by construction.
func (s Spec) explicit() bool {
	switch s.Kind {
	case Year, SpecificMonth, Quarter:
		return true
	default:
		return false
	}
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func yearRange(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
