package dataset_test

import (
	"errors"
	"testing"
	"time"

	"github.com/lss-analytics/training-api/internal/dataset"
	"github.com/lss-analytics/training-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2024, time.August, 15, 12, 0, 0, 0, time.UTC)

var header = []string{"Datum Inschrijving", "Training", "Omzet", "Type", "Bedrijf"}

func TestParseRows_Valid(t *testing.T) {
	rows := [][]string{
		{"10-01-2024", "Green Belt Training 12/3/2024", "€ 1.250,00", "Green Belt", "ACME B.V."},
		{"5-2-2024", "Black Belt Training", "€ 2.500,00", "Black Belt", "Globex"},
	}

	set, err := dataset.ParseRows(header, rows, now, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	regs := set.Registrations()
	assert.Equal(t, "Green Belt Training", regs[0].TrainingName)
	assert.Equal(t, "ACME", regs[0].Company)
	assert.True(t, regs[0].Revenue.Equal(decimal.RequireFromString("1250")))
	require.NotNil(t, regs[0].TrainingDate)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), *regs[0].TrainingDate)

	assert.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), regs[1].RegisteredAt)
	assert.Nil(t, regs[1].TrainingDate)
}

func TestParseRows_OptionalRegistrantColumns(t *testing.T) {
	fullHeader := append(append([]string{}, header...), "Voornaam", "Achternaam", "Email")
	rows := [][]string{
		{"10-01-2024", "Green Belt Training", "€ 500,00", "Green Belt", "ACME", "Jan", "de Vries", "jan@acme.nl"},
	}

	set, err := dataset.ParseRows(fullHeader, rows, now, zap.NewNop())
	require.NoError(t, err)

	r := set.Registrations()[0]
	assert.Equal(t, "Jan", r.FirstName)
	assert.Equal(t, "de Vries", r.LastName)
	assert.Equal(t, "jan@acme.nl", r.Email)
}

func TestParseRows_MissingRequiredColumn(t *testing.T) {
	_, err := dataset.ParseRows([]string{"Datum Inschrijving", "Training", "Type", "Bedrijf"}, nil, now, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "omzet")
}

func TestParseRows_AllOrNothing(t *testing.T) {
	rows := [][]string{
		{"10-01-2024", "Green Belt Training", "€ 500,00", "Green Belt", "ACME"},
		{"11-01-2024", "Black Belt Training", "gratis", "Black Belt", "Globex"},
		{"niet een datum", "Yellow Belt Training", "€ 300,00", "Yellow Belt", "Initech"},
	}

	_, err := dataset.ParseRows(header, rows, now, zap.NewNop())
	var ingErr *domain.IngestionError
	require.ErrorAs(t, err, &ingErr)

	// Every failing row is itemized, valid rows are not kept
	require.Len(t, ingErr.Rows, 2)
	assert.Equal(t, 2, ingErr.Rows[0].Row)
	assert.Equal(t, "omzet", ingErr.Rows[0].Column)
	assert.Equal(t, 3, ingErr.Rows[1].Row)
	assert.Equal(t, "datum inschrijving", ingErr.Rows[1].Column)
}

func TestParseRows_FutureRegistrationDateFails(t *testing.T) {
	rows := [][]string{
		{"01-01-2099", "Green Belt Training", "€ 500,00", "Green Belt", "ACME"},
	}

	_, err := dataset.ParseRows(header, rows, now, zap.NewNop())
	var ingErr *domain.IngestionError
	require.ErrorAs(t, err, &ingErr)
	require.Len(t, ingErr.Rows, 1)
	assert.Contains(t, ingErr.Rows[0].Err.Error(), "toekomst")
}

func TestParseRows_EmptyRequiredFieldsFail(t *testing.T) {
	cases := []struct {
		name   string
		row    []string
		column string
	}{
		{"missing training", []string{"10-01-2024", "", "€ 500,00", "Green Belt", "ACME"}, "training"},
		{"missing type", []string{"10-01-2024", "Green Belt Training", "€ 500,00", "", "ACME"}, "type"},
		{"missing company", []string{"10-01-2024", "Green Belt Training", "€ 500,00", "Green Belt", ""}, "bedrijf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dataset.ParseRows(header, [][]string{tc.row}, now, zap.NewNop())
			var ingErr *domain.IngestionError
			require.ErrorAs(t, err, &ingErr)
			require.Len(t, ingErr.Rows, 1)
			assert.Equal(t, tc.column, ingErr.Rows[0].Column)
		})
	}
}

func TestStore_EmptyUntilFirstReplace(t *testing.T) {
	store := dataset.NewStore()

	_, err := store.Snapshot()
	assert.True(t, errors.Is(err, domain.ErrNoDataLoaded))

	_, ok := store.LoadedAt()
	assert.False(t, ok)
}

func TestStore_ReplaceSwapsSnapshot(t *testing.T) {
	store := dataset.NewStore()

	first := domain.NewRegistrationSet([]domain.Registration{{TrainingName: "A"}})
	store.Replace(first, now)

	set, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())

	loadedAt, ok := store.LoadedAt()
	require.True(t, ok)
	assert.Equal(t, now, loadedAt)

	second := domain.NewRegistrationSet([]domain.Registration{{TrainingName: "A"}, {TrainingName: "B"}})
	store.Replace(second, now.Add(time.Hour))

	set, err = store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}
