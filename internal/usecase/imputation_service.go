package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tastelens/backend/internal/domain"
	"github.com/tastelens/backend/internal/logging"
	"gonum.org/v1/gonum/stat"
)

// ImputationService fills invalid cells of a numeric column with per-group statistics
type ImputationService struct {
	reporter domain.Reporter
}

// NewImputationService creates an imputer. reporter may be nil.
func NewImputationService(reporter domain.Reporter) *ImputationService {
	return &ImputationService{reporter: reporter}
}

// Impute replaces every target cell matching the request condition with the
// statistic of the valid cells in its (group1, group2) segment. The table is
// modified in place and returned in the result.
func (s *ImputationService) Impute(
	ctx context.Context,
	table *domain.Table,
	req domain.ImputationRequest,
) (*domain.ImputationResult, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: table is required", domain.ErrInvalidRequest)
	}

	aggregate, err := aggregatorFor(req.Statistic)
	if err != nil {
		return nil, err
	}
	switch req.Condition {
	case domain.ConditionNull, domain.ConditionNegative, domain.ConditionZero:
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedImputation, req.Condition)
	}

	target, err := table.Column(req.Target)
	if err != nil {
		return nil, err
	}
	if !target.Kind.Numeric() {
		return nil, fmt.Errorf("%w: target column %q is %s, want numeric", domain.ErrInvalidRequest, req.Target, target.Kind)
	}
	g1, err := table.Column(req.GroupBy[0])
	if err != nil {
		return nil, err
	}
	g2, err := table.Column(req.GroupBy[1])
	if err != nil {
		return nil, err
	}

	result := &domain.ImputationResult{
		Table:   table,
		Request: req,
		Before:  FrequencyTableOf(target),
	}

	keys := make([]string, target.Len())
	valid := make(map[string][]float64)
	for i, v := range target.Values {
		keys[i] = groupKey(g1.Values[i], g2.Values[i])
		if keys[i] == "" || req.Condition.Matches(v) {
			continue
		}
		if f, ok := v.Float(); ok {
			valid[keys[i]] = append(valid[keys[i]], f)
		}
	}

	fills := make(map[string]domain.Value, len(valid))
	for key, values := range valid {
		fills[key] = domain.Number(aggregate(values))
	}

	fractional := false
	for i, v := range target.Values {
		if !req.Condition.Matches(v) {
			continue
		}
		fill, ok := fills[keys[i]]
		if !ok {
			fill = domain.Null()
			result.Unfilled++
		}
		if f, ok := fill.Float(); ok && f != math.Trunc(f) {
			fractional = true
		}
		target.Values[i] = fill
		result.Replaced++
	}

	if req.Condition == domain.ConditionZero {
		target.CastInt()
	} else if fractional && target.Kind == domain.ColumnInt {
		target.Kind = domain.ColumnFloat
	}

	result.After = FrequencyTableOf(target)

	logging.Ctx(ctx).Info().
		Str("target", req.Target).
		Str("condition", req.Condition.String()).
		Str("statistic", req.Statistic.String()).
		Strs("group_by", req.GroupBy[:]).
		Int("groups", len(fills)).
		Int("replaced", result.Replaced).
		Int("unfilled", result.Unfilled).
		Msg("Imputation completed")

	if s.reporter != nil {
		s.reporter.ReportImputation(result)
	}

	return result, nil
}

// groupKey identifies a segment. Rows with a null key belong to no segment.
func groupKey(a, b domain.Value) string {
	if a.IsNull() || b.IsNull() {
		return ""
	}
	return fmt.Sprintf("%d:%s\x00%d:%s", a.Kind(), a.String(), b.Kind(), b.String())
}

func aggregatorFor(st domain.Statistic) (func([]float64) float64, error) {
	switch st {
	case domain.StatisticMean:
		return func(x []float64) float64 { return stat.Mean(x, nil) }, nil
	case domain.StatisticMedian:
		return median, nil
	case domain.StatisticMode:
		return mode, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedImputation, st)
}

// median averages the two middle values of an even-length sample
func median(x []float64) float64 {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mode returns the smallest of the most frequent values
func mode(x []float64) float64 {
	counts := make(map[float64]int, len(x))
	for _, v := range x {
		counts[v]++
	}
	best, bestCount := math.Inf(1), 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}

// FrequencyTableOf counts the distinct values of a column sorted by value.
// Null cells are counted as missing.
func FrequencyTableOf(col *domain.Column) domain.FrequencyTable {
	ft := domain.FrequencyTable{Column: col.Name}
	index := make(map[string]int)
	for _, v := range col.Values {
		if v.IsNull() {
			ft.Missing++
			continue
		}
		key := fmt.Sprintf("%d:%s", v.Kind(), v.String())
		if i, ok := index[key]; ok {
			ft.Entries[i].Count++
			continue
		}
		index[key] = len(ft.Entries)
		ft.Entries = append(ft.Entries, domain.FrequencyEntry{Value: v, Count: 1})
	}

	sort.SliceStable(ft.Entries, func(i, j int) bool {
		a, aok := ft.Entries[i].Value.Float()
		b, bok := ft.Entries[j].Value.Float()
		if aok && bok {
			return a < b
		}
		if aok != bok {
			return aok
		}
		return ft.Entries[i].Value.String() < ft.Entries[j].Value.String()
	})
	return ft
}
