package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tastelens/backend/internal/domain"
)

// AnalysisService runs the recommender, imputer and chart renderer against
// configured datasets
type AnalysisService struct {
	datasets    domain.DatasetRepository
	recommender *RecommendationService
	imputer     *ImputationService
	charts      domain.ChartRenderer
}

// NewAnalysisService creates an analysis service with dependencies
func NewAnalysisService(
	datasets domain.DatasetRepository,
	recommender *RecommendationService,
	imputer *ImputationService,
	charts domain.ChartRenderer,
) *AnalysisService {
	return &AnalysisService{
		datasets:    datasets,
		recommender: recommender,
		imputer:     imputer,
		charts:      charts,
	}
}

// Recommend loads the users and restaurants datasets and recommends for one user
func (s *AnalysisService) Recommend(ctx context.Context, req *domain.RecommendationRequest) (*domain.Recommendation, error) {
	if req == nil || strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}

	users, err := s.datasets.Users(ctx)
	if err != nil {
		return nil, err
	}
	restaurants, err := s.datasets.Restaurants(ctx)
	if err != nil {
		return nil, err
	}
	return s.recommender.Recommend(ctx, strings.TrimSpace(req.UserID), restaurants, users, req.TopN)
}

// Impute fills a copy of the named dataset. The cached dataset is left untouched.
func (s *AnalysisService) Impute(ctx context.Context, dataset string, req domain.ImputationRequest) (*domain.ImputationResult, error) {
	table, err := s.datasets.Table(ctx, dataset)
	if err != nil {
		return nil, err
	}
	return s.imputer.Impute(ctx, table.Clone(), req)
}

// Chart renders a chart of the named dataset to w
func (s *AnalysisService) Chart(ctx context.Context, w io.Writer, dataset string, spec domain.ChartSpec) error {
	kind, err := domain.ParseChartKind(string(spec.Kind))
	if err != nil {
		return err
	}
	spec.Kind = kind
	table, err := s.datasets.Table(ctx, dataset)
	if err != nil {
		return err
	}
	return s.charts.Render(ctx, w, table, spec)
}
