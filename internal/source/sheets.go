package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads registration rows from a Google Sheets spreadsheet
// using the read-only Sheets API. Credentials come from the configured JSON
// blob or file; refreshing the dataset is a full re-fetch of the range.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *zap.Logger
}

// SheetsConfig holds the settings needed to reach one spreadsheet.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
}

// NewSheetsSource builds a Sheets-backed source. Exactly one of
// CredentialsJSON or CredentialsFile must be set.
func NewSheetsSource(ctx context.Context, cfg *SheetsConfig, logger *zap.Logger) (*SheetsSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		return nil, fmt.Errorf("sheets: no credentials configured")
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsReadonlyScope))

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	logger.Info("Google Sheets source initialized",
		zap.String("spreadsheet_id", cfg.SpreadsheetID),
	)

	return &SheetsSource{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// Fetch reads the named range with formatted cell values and splits it into
// header and data rows.
func (s *SheetsSource) Fetch(ctx context.Context, rangeName string) ([]string, [][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeName).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, nil, fmt.Errorf("sheets: failed to read range %q: %w", rangeName, err)
	}

	if len(resp.Values) == 0 {
		return nil, nil, fmt.Errorf("sheets: no data found in range %q", rangeName)
	}

	header := toStrings(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, toStrings(raw))
	}

	s.logger.Info("fetched sheet data",
		zap.String("range", rangeName),
		zap.Int("rows", len(rows)),
	)

	return header, rows, nil
}

func toStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprintf("%v", c)
	}
	return out
}
