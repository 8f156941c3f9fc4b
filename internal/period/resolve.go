package period

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lss-analytics/training-api/internal/domain"
)

var (
	yearRe    = regexp.MustCompile(`\b20\d{2}\b`)
	quarterRe = regexp.MustCompile(`\bq([1-4])\b`)
)

// quarterPhrases maps Dutch ordinal-kwartaal phrases to quarter numbers.
var quarterPhrases = map[string]int{
	"eerste kwartaal": 1,
	"tweede kwartaal": 2,
	"derde kwartaal":  3,
	"vierde kwartaal": 4,
}

// Resolve parses a free-text query into a period spec. Matching order is a
// deliberate tie-break policy, first match wins:
//
//  1. quarter keyword (q1..q4 or Dutch ordinal-kwartaal phrase), optional year
//  2. bare year with no month name present
//  3. Dutch month name, optional year
//  4. relative phrase (vorige maand, deze maand, dit jaar, vorig jaar)
//  5. all-time fallback
//
// An explicitly requested period whose start lies strictly after now fails
// with a FuturePeriodError. Relative periods never do.
func Resolve(query string, now time.Time) (Spec, error) {
	q := strings.ToLower(query)

	var year int
	if m := yearRe.FindString(q); m != "" {
		year, _ = strconv.Atoi(m)
	}

	if spec, ok := resolveQuarter(q, year, now); ok {
		return validate(spec, now)
	}

	monthName, month := findMonth(q)

	if year != 0 && monthName == "" {
		return validate(Spec{Kind: Year, Year: year}, now)
	}

	if monthName != "" {
		y := year
		if y == 0 {
			y = now.Year()
		}
		return validate(Spec{Kind: SpecificMonth, Year: y, Month: month}, now)
	}

	switch {
	case strings.Contains(q, "vorige maand"):
		return Spec{Kind: PreviousMonth}, nil
	case strings.Contains(q, "deze maand"):
		return Spec{Kind: CurrentMonth}, nil
	case strings.Contains(q, "dit jaar"):
		return Spec{Kind: CurrentYear}, nil
	case strings.Contains(q, "vorig jaar"):
		return Spec{Kind: PreviousYear}, nil
	}

	return Spec{Kind: AllTime}, nil
}

func resolveQuarter(q string, year int, now time.Time) (Spec, bool) {
	quarter := 0
	if m := quarterRe.FindStringSubmatch(q); m != nil {
		quarter, _ = strconv.Atoi(m[1])
	} else {
		for phrase, n := range quarterPhrases {
			if strings.Contains(q, phrase) {
				quarter = n
				break
			}
		}
	}
	if quarter == 0 {
		return Spec{}, false
	}
	if year == 0 {
		year = now.Year()
	}
	return Spec{Kind: Quarter, Year: year, Quarter: quarter}, true
}

func findMonth(q string) (string, time.Month) {
	for i, name := range monthNames {
		if strings.Contains(q, name) {
			return name, time.Month(i + 1)
		}
	}
	return "", 0
}

func validate(spec Spec, now time.Time) (Spec, error) {
	if !spec.explicit() {
		return spec, nil
	}
	start, _ := spec.Range(now)
	if start.After(dateOnly(now)) {
		return Spec{}, &domain.FuturePeriodError{Period: spec.Label(now)}
	}
	return spec, nil
}
