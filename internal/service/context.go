package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lss-analytics/training-api/internal/aggregate"
	"github.com/lss-analytics/training-api/internal/export"
	"github.com/lss-analytics/training-api/internal/normalize"
)

// maxTrainingDetail caps the itemized per-training section of the context.
// Category rollups always go in full; per-record enumeration is what blows
// the token budget.
const maxTrainingDetail = 25

// buildContext renders the summary as the bounded Dutch context payload
// handed to the completion service.
func buildContext(s aggregate.Summary, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Huidige Datum: %s\n", now.Format(normalize.DateLayout))
	fmt.Fprintf(&b, "Getoonde periode: %s\n\n", s.Period)
	b.WriteString("Analyse van Inschrijvingen:\n\n")
	fmt.Fprintf(&b, "Totale Omzet: %s\n", export.FormatEuro(s.TotalRevenue))
	fmt.Fprintf(&b, "Aantal Inschrijvingen: %d\n", s.Count)

	if s.Trends.HasPrevious && s.Trends.TotalChangePct != 0 {
		fmt.Fprintf(&b, "Verschil met vorige periode: %.1f%%\n", s.Trends.TotalChangePct)
	}

	b.WriteString("\nOmzet per Type:\n")
	for _, typeName := range sortedKeys(s.ByType) {
		stats := s.ByType[typeName]
		fmt.Fprintf(&b, "\n%s:\n", typeName)
		fmt.Fprintf(&b, "- Totale Omzet: %s\n", export.FormatEuro(stats.Revenue))
		fmt.Fprintf(&b, "- Aantal Inschrijvingen: %d\n", stats.Count)
		if trend, ok := s.Trends.ByType[typeName]; ok && trend.Previous.IsPositive() {
			fmt.Fprintf(&b, "- Verschil met vorige periode: %.1f%%\n", trend.ChangePct)
		}
	}

	if s.CompanyFilter != "" && len(s.ByCompany) > 0 {
		b.WriteString("\nOmzet per Bedrijf:\n")
		for _, company := range sortedCompanyKeys(s.ByCompany) {
			stats := s.ByCompany[company]
			fmt.Fprintf(&b, "\n%s:\n", company)
			fmt.Fprintf(&b, "- Totale Omzet: %s\n", export.FormatEuro(stats.Revenue))
			fmt.Fprintf(&b, "- Aantal Inschrijvingen: %d\n", stats.Count)
			fmt.Fprintf(&b, "- Trainingen: %s\n", strings.Join(stats.Trainings, ", "))
		}
	}

	b.WriteString("\nTraining Details:\n")
	detail := s.TrainingOrder
	if len(detail) > maxTrainingDetail {
		detail = detail[:maxTrainingDetail]
	}
	for _, training := range detail {
		stats := s.Trainings[training]
		fmt.Fprintf(&b, "\n%s:\n", training)
		fmt.Fprintf(&b, "- Inschrijvingen: %d\n", stats.Count)
		fmt.Fprintf(&b, "- Inschrijfdatum: %s\n", stats.FirstDate.Format(normalize.DateLayout))
		fmt.Fprintf(&b, "- Waarde: %s\n", export.FormatEuro(stats.Revenue))
	}
	if omitted := len(s.TrainingOrder) - len(detail); omitted > 0 {
		fmt.Fprintf(&b, "\n(%d overige trainingen niet uitgesplitst; zie totalen per type)\n", omitted)
	}

	return b.String()
}

// systemPrompt wraps the context in the Dutch analyst instruction.
func systemPrompt(context string) string {
	return "Je bent een Nederlandse AI assistent die trainingsdata analyseert. " +
		"Je kunt de volgende soorten analyses uitvoeren:\n" +
		"1. Omzet per maand of jaar\n" +
		"2. Vergelijkingen tussen periodes (percentages)\n" +
		"3. Overzichten van verkochte trainingen per type\n" +
		"4. Trends en ontwikkelingen\n\n" +
		"De getoonde data bevat alle inschrijvingen. " +
		"Hier is de samenvatting van de gevraagde periode:\n\n" + context + "\n" +
		"Geef specifieke, data-gedreven antwoorden met waar mogelijk percentages en vergelijkingen. " +
		"Gebruik het € symbool voor geldbedragen en gebruik punten voor duizendtallen. " +
		"Als er om vergelijkingen wordt gevraagd, toon dan de verschillen in percentages. " +
		"Geef je antwoord in het Nederlands."
}

func sortedKeys(m map[string]aggregate.TypeStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCompanyKeys(m map[string]aggregate.CompanyStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
