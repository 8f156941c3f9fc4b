package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lss-analytics/training-api/internal/aggregate"
	"github.com/lss-analytics/training-api/internal/completion"
	"github.com/lss-analytics/training-api/internal/dataset"
	"github.com/lss-analytics/training-api/internal/domain"
	"github.com/lss-analytics/training-api/internal/export"
	"github.com/lss-analytics/training-api/internal/history"
	"github.com/lss-analytics/training-api/internal/normalize"
	"github.com/lss-analytics/training-api/internal/period"
	"github.com/lss-analytics/training-api/internal/source"
	"go.uber.org/zap"
)

// AgentService answers natural-language questions about training
// registrations. It composes the period resolver and aggregation engine
// into a bounded context payload and delegates the final wording to the
// completion service.
type AgentService struct {
	store     *dataset.Store
	source    source.TabularSource
	rangeName string
	completer completion.Completer
	history   *history.History
	logger    *zap.Logger
	now       func() time.Time
}

// NewAgentService wires the orchestrator. The history window and snapshot
// store are owned here, independent of any single request.
func NewAgentService(
	store *dataset.Store,
	src source.TabularSource,
	rangeName string,
	completer completion.Completer,
	hist *history.History,
	logger *zap.Logger,
) *AgentService {
	return &AgentService{
		store:     store,
		source:    src,
		rangeName: rangeName,
		completer: completer,
		history:   hist,
		logger:    logger,
		now:       time.Now,
	}
}

// Refresh re-fetches the full range, re-parses it and atomically replaces
// the snapshot. On any row failure the previous snapshot stays in place and
// the itemized IngestionError is returned.
func (s *AgentService) Refresh(ctx context.Context) (int, error) {
	header, rows, err := s.source.Fetch(ctx, s.rangeName)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch registration data: %w", err)
	}

	loadedAt := s.now()
	set, err := dataset.ParseRows(header, rows, loadedAt, s.logger)
	if err != nil {
		return 0, err
	}

	s.store.Replace(set, loadedAt)
	s.logger.Info("registration snapshot replaced",
		zap.Int("registrations", set.Len()),
	)
	return set.Len(), nil
}

// AnswerQuery resolves the period and company filter from the query,
// summarizes the matching registrations and asks the completion service for
// a Dutch answer grounded in that summary. The exchange is appended to the
// rolling history on success.
func (s *AgentService) AnswerQuery(ctx context.Context, query string) (string, error) {
	set, err := s.store.Snapshot()
	if err != nil {
		return "", err
	}

	now := s.now()
	spec, err := period.Resolve(query, now)
	if err != nil {
		return "", err
	}

	company := s.DetectCompany(set, query)
	summary := aggregate.Summarize(set, spec, company, now)

	messages := make([]completion.Message, 0, s.history.Len()+2)
	messages = append(messages, completion.Message{
		Role:    completion.RoleSystem,
		Content: systemPrompt(buildContext(summary, now)),
	})
	messages = append(messages, s.history.Messages()...)
	messages = append(messages, completion.Message{
		Role:    completion.RoleUser,
		Content: query,
	})

	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	s.history.Append(query, answer)

	s.logger.Info("answered query",
		zap.String("period", summary.Period),
		zap.String("company_filter", company),
		zap.Int("registrations", summary.Count),
	)
	return answer, nil
}

// Export filters the snapshot by the period and company found in the query
// and renders the result as semicolon-delimited CSV. Returns the suggested
// attachment filename alongside the bytes.
func (s *AgentService) Export(ctx context.Context, query string) (string, []byte, error) {
	set, err := s.store.Snapshot()
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	spec, err := period.Resolve(query, now)
	if err != nil {
		return "", nil, err
	}

	start, end := spec.Range(now)
	filtered := set.FilterByPeriod(start, end)
	if company := s.DetectCompany(set, query); company != "" {
		filtered = filtered.FilterByCompany(company, normalize.CompanyMatches)
	}

	data, err := export.WriteCSV(filtered)
	if err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("training_export_%s.csv", now.Format("20060102_150405"))
	s.logger.Info("exported registrations",
		zap.String("period", spec.Label(now)),
		zap.Int("rows", filtered.Len()),
		zap.String("filename", filename),
	)
	return filename, data, nil
}

// DetectCompany scans the distinct company names in dataset load order and
// returns the first one matching the query text. First match by iteration
// order, not best match; downstream behavior depends on this tie-break, so
// it stays as-is.
func (s *AgentService) DetectCompany(set *domain.RegistrationSet, query string) string {
	for _, company := range set.Companies() {
		if normalize.CompanyMatches(company, query) {
			return company
		}
	}
	return ""
}
