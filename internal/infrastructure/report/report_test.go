package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/tastelens/backend/internal/domain"
)

func TestConsoleReporter_ReportRecommendation(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.ReportRecommendation(&domain.Recommendation{
		UserID:  "1",
		Profile: domain.UserProfile{Name: "Ana Gómez", Preference: "Pescado", Stratum: "Medio"},
		Bucket:  "Fish",
		Items: []domain.RecommendedRestaurant{
			{ID: "r2", Name: "sushi-go", Address: "Calle 2", Score: domain.ScoreBreakdown{Total: 0.5}},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Ana Gómez")
	assert.Contains(t, out, "Average spend: N/A")
	assert.Contains(t, out, "Recommended restaurants (Fish)")
	assert.Contains(t, out, "1. sushi-go")
	assert.Contains(t, out, "score 0.500")
}

func TestConsoleReporter_ReportImputation(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.ReportImputation(&domain.ImputationResult{
		Request: domain.ImputationRequest{Target: "gasto", Condition: domain.ConditionZero, Statistic: domain.StatisticMean},
		Before: domain.FrequencyTable{Column: "gasto", Entries: []domain.FrequencyEntry{
			{Value: domain.Number(0), Count: 2}, {Value: domain.Number(4), Count: 1},
		}, Missing: 1},
		After: domain.FrequencyTable{Column: "gasto", Entries: []domain.FrequencyEntry{
			{Value: domain.Number(4), Count: 1}, {Value: domain.Number(5), Count: 3},
		}},
		Replaced: 2,
	})

	out := buf.String()
	before := strings.Index(out, "Before")
	after := strings.Index(out, "After")
	assert.True(t, before >= 0 && after > before, "before table precedes after table")
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "total 4")
	assert.Contains(t, out, "replaced 2 cells")
}

func TestConsoleReporter_IgnoresNil(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)
	r.ReportRecommendation(nil)
	r.ReportImputation(nil)
	assert.Zero(t, buf.Len())
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(zerolog.New(&buf))

	r.ReportRecommendation(&domain.Recommendation{
		UserID: "7",
		Items:  []domain.RecommendedRestaurant{{ID: "a"}, {ID: "b"}},
	})

	out := buf.String()
	assert.Contains(t, out, `"user_id":"7"`)
	assert.Contains(t, out, `"restaurants":["a","b"]`)
	assert.Contains(t, out, `"component":"reporter"`)
}
