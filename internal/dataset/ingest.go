// Package dataset turns raw spreadsheet rows into registration snapshots
// and owns the atomically swapped in-memory snapshot.
package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/lss-analytics/training-api/internal/domain"
	"github.com/lss-analytics/training-api/internal/normalize"
	"go.uber.org/zap"
)

// Column headers as they appear in the spreadsheet. Matching is
// case-insensitive after whitespace collapsing.
const (
	colRegisteredAt = "datum inschrijving"
	colTraining     = "training"
	colRevenue      = "omzet"
	colType         = "type"
	colCompany      = "bedrijf"
	colFirstName    = "voornaam"
	colLastName     = "achternaam"
	colEmail        = "email"
)

var requiredColumns = []string{colRegisteredAt, colTraining, colRevenue, colType, colCompany}

// columnIndex maps normalized header names to their positions.
type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.Join(strings.Fields(h), " "))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("verplichte kolommen ontbreken: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func (c columnIndex) cell(row []string, col string) (string, bool) {
	i, ok := c[col]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

// ParseRows converts a raw block of cells into a registration set. Loading
// is all-or-nothing: when any row fails a field parse the whole load aborts
// with an IngestionError itemizing every failed row, so partial loads can
// never skew aggregate totals.
func ParseRows(header []string, rows [][]string, now time.Time, logger *zap.Logger) (*domain.RegistrationSet, error) {
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	regs := make([]domain.Registration, 0, len(rows))
	var failures []*domain.RowError

	for i, row := range rows {
		reg, rowErr := parseRow(idx, row, today, logger)
		if rowErr != nil {
			rowErr.Row = i + 1
			failures = append(failures, rowErr)
			continue
		}
		regs = append(regs, reg)
	}

	if len(failures) > 0 {
		logger.Error("data load aborted",
			zap.Int("rows", len(rows)),
			zap.Int("failed_rows", len(failures)),
		)
		return nil, &domain.IngestionError{Rows: failures}
	}

	logger.Info("parsed registration rows",
		zap.Int("rows", len(regs)),
	)
	return domain.NewRegistrationSet(regs), nil
}

func parseRow(idx columnIndex, row []string, today time.Time, logger *zap.Logger) (domain.Registration, *domain.RowError) {
	rawDate, _ := idx.cell(row, colRegisteredAt)
	standardized, ok := normalize.StandardizeDate(rawDate)
	if !ok {
		// Soft signal first, per the normalizer contract; the row itself
		// still fails because the date is a required field.
		logger.Warn("could not standardize date", zap.String("value", rawDate))
	}
	registeredAt, err := normalize.ParseDate(standardized)
	if err != nil {
		return domain.Registration{}, &domain.RowError{Column: colRegisteredAt, Value: rawDate, Err: err}
	}
	if registeredAt.After(today) {
		return domain.Registration{}, &domain.RowError{
			Column: colRegisteredAt,
			Value:  rawDate,
			Err:    fmt.Errorf("inschrijfdatum ligt in de toekomst"),
		}
	}

	rawTraining, _ := idx.cell(row, colTraining)
	trainingName := normalize.CleanTrainingName(rawTraining)
	if trainingName == "" {
		return domain.Registration{}, &domain.RowError{
			Column: colTraining,
			Value:  rawTraining,
			Err:    fmt.Errorf("trainingsnaam ontbreekt"),
		}
	}

	rawRevenue, _ := idx.cell(row, colRevenue)
	revenue, err := normalize.ParseRevenue(rawRevenue)
	if err != nil {
		return domain.Registration{}, &domain.RowError{Column: colRevenue, Value: rawRevenue, Err: err}
	}

	trainingType, _ := idx.cell(row, colType)
	if trainingType == "" {
		return domain.Registration{}, &domain.RowError{
			Column: colType,
			Value:  "",
			Err:    fmt.Errorf("type ontbreekt"),
		}
	}

	rawCompany, _ := idx.cell(row, colCompany)
	company := normalize.CleanCompanyName(rawCompany)
	if company == "" {
		return domain.Registration{}, &domain.RowError{
			Column: colCompany,
			Value:  rawCompany,
			Err:    fmt.Errorf("bedrijfsnaam ontbreekt"),
		}
	}

	reg := domain.Registration{
		RegisteredAt: registeredAt,
		TrainingName: trainingName,
		Revenue:      revenue,
		Type:         trainingType,
		Company:      company,
	}

	if trainingDate, ok := normalize.ExtractTrainingDate(rawTraining); ok {
		reg.TrainingDate = &trainingDate
	}
	if v, ok := idx.cell(row, colFirstName); ok {
		reg.FirstName = v
	}
	if v, ok := idx.cell(row, colLastName); ok {
		reg.LastName = v
	}
	if v, ok := idx.cell(row, colEmail); ok {
		reg.Email = v
	}

	return reg, nil
}
