package report

import (
	"github.com/rs/zerolog"
	"github.com/tastelens/backend/internal/domain"
)

// LogReporter writes results as structured log events. The server uses it in
// place of the console output.
type LogReporter struct {
	logger zerolog.Logger
}

// NewLogReporter creates a reporter that logs through logger
func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{logger: logger.With().Str("component", "reporter").Logger()}
}

func (l *LogReporter) ReportRecommendation(rec *domain.Recommendation) {
	if rec == nil {
		return
	}
	ids := make([]string, len(rec.Items))
	for i, item := range rec.Items {
		ids[i] = item.ID
	}
	l.logger.Info().
		Str("user_id", rec.UserID).
		Str("preference", rec.Profile.Preference).
		Str("bucket", rec.Bucket).
		Strs("restaurants", ids).
		Msg("Recommendation served")
}

func (l *LogReporter) ReportImputation(result *domain.ImputationResult) {
	if result == nil {
		return
	}
	l.logger.Info().
		Str("target", result.Request.Target).
		Int("replaced", result.Replaced).
		Int("unfilled", result.Unfilled).
		Int("missing_before", result.Before.Missing).
		Int("missing_after", result.After.Missing).
		Msg("Imputation applied")
}
