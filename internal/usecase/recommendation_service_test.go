package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastelens/backend/internal/domain"
)

type recordingReporter struct {
	recommendations []*domain.Recommendation
	imputations     []*domain.ImputationResult
}

func (r *recordingReporter) ReportRecommendation(rec *domain.Recommendation) {
	r.recommendations = append(r.recommendations, rec)
}

func (r *recordingReporter) ReportImputation(res *domain.ImputationResult) {
	r.imputations = append(r.imputations, res)
}

func spend(v float64) *float64 { return &v }

func testUsers() []domain.User {
	return []domain.User{
		{ID: "1", Preference: "Pescado", Stratum: "Medio", AverageSpend: spend(35000), FullName: "Ana Gómez"},
		{ID: "2", Preference: "Comida rápida", Stratum: "Alto", FullName: "Luis Pérez"},
		{ID: "3", Preference: "Vegano", Stratum: "Bajo", FullName: "Sara Ruiz"},
		{ID: "1", Preference: "Carnes", Stratum: "Bajo", FullName: "Duplicate Id"},
		{ID: "4", Preference: "", Stratum: "Medio", FullName: "Sin Preferencia"},
	}
}

func testRestaurants() *domain.RestaurantTable {
	return &domain.RestaurantTable{
		AliasColumns: []string{"alias_sushi", "alias_pizza", "alias_ramen"},
		Restaurants: []domain.Restaurant{
			{ID: "r1", Name: "pizza-place", Address: "Calle 1", PriceTier: "1", Rating: 4, ReviewCount: 200,
				Categories: map[string]bool{"alias_pizza": true}},
			{ID: "r2", Name: "sushi-go", Address: "Calle 2", PriceTier: "3", Rating: 3.5, ReviewCount: 50,
				Categories: map[string]bool{"alias_sushi": true}},
			{ID: "r3", Name: "", Address: "Calle 3", PriceTier: "2", Rating: 5, ReviewCount: 3000,
				Categories: map[string]bool{"alias_ramen": true, "alias_sushi": true}},
			{ID: "r4", Name: "burger-bar", Address: "Calle 4", PriceTier: "4", Rating: 2, ReviewCount: 10,
				Categories: map[string]bool{}},
		},
	}
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("returns not found for unknown user", func(t *testing.T) {
		svc := NewRecommendationService(nil, RecommenderConfig{})
		_, err := svc.Recommend(ctx, "99", testRestaurants(), testUsers(), 5)
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})

	t.Run("rejects missing restaurants table", func(t *testing.T) {
		svc := NewRecommendationService(nil, RecommenderConfig{})
		_, err := svc.Recommend(ctx, "1", nil, testUsers(), 5)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("filters by matched bucket and keeps table order", func(t *testing.T) {
		svc := NewRecommendationService(nil, RecommenderConfig{})
		rec, err := svc.Recommend(ctx, "1", testRestaurants(), testUsers(), 5)
		require.NoError(t, err)

		assert.Equal(t, "Fish", rec.Bucket)
		assert.Equal(t, []string{"alias_sushi", "alias_ramen"}, rec.FilterColumns)
		require.Len(t, rec.Items, 2)
		assert.Equal(t, "r2", rec.Items[0].ID)
		assert.Equal(t, "r3", rec.Items[1].ID)
		assert.Equal(t, "Unnamed", rec.Items[1].Name)
		assert.Equal(t, 0.9, rec.Items[0].Score.Food)
	})

	t.Run("uses first matching user row", func(t *testing.T) {
		svc := NewRecommendationService(nil, RecommenderConfig{})
		rec, err := svc.Recommend(ctx, "1", testRestaurants(), testUsers(), 5)
		require.NoError(t, err)
		assert.Equal(t, "Ana Gómez", rec.Profile.Name)
		require.NotNil(t, rec.Profile.AverageSpend)
		assert.Equal(t, 35000.0, *rec.Profile.AverageSpend)
	})

	t.Run("unmatched preference uses the whole table", func(t *testing.T) {
		svc := NewRecommendationService(nil, RecommenderConfig{})
		rec, err := svc.Recommend(ctx, "2", testRestaurants(), testUsers(), 10)
		require.NoError(t, err)

		assert.Empty(t, rec.Bucket)
		assert.Empty(t, rec.FilterColumns)
		assert.Len(t, rec.Items, 4)
		for _, item := range rec.Items {
			assert.Equal(t, 0.1, item.Score.Food)
		}
	})

	t.Run("bucket without matching columns uses the whole table", func(t *testing.T) {
		svc := NewRecommendationService(nil, RecommenderConfig{})
		rec, err := svc.Recommend(ctx, "3", testRestaurants(), testUsers(), 10)
		require.NoError(t, err)

		assert.Empty(t, rec.Bucket)
		assert.Len(t, rec.Items, 4)
	})

	t.Run("blank preference filters by the first bucket", func(t *testing.T) {
		restaurants := &domain.RestaurantTable{
			AliasColumns: []string{"alias_sushi", "alias_steak"},
			Restaurants: []domain.Restaurant{
				{ID: "s1", Name: "sushi-go", PriceTier: "2", Categories: map[string]bool{"alias_sushi": true}},
				{ID: "m1", Name: "steak-house", PriceTier: "2", Categories: map[string]bool{"alias_steak": true}},
			},
		}
		svc := NewRecommendationService(nil, RecommenderConfig{})
		rec, err := svc.Recommend(ctx, "4", restaurants, testUsers(), 5)
		require.NoError(t, err)

		assert.Equal(t, "Meats", rec.Bucket)
		assert.Equal(t, []string{"alias_steak"}, rec.FilterColumns)
		require.Len(t, rec.Items, 1)
		assert.Equal(t, "m1", rec.Items[0].ID)
		assert.Equal(t, 0.9, rec.Items[0].Score.Food)
	})

	t.Run("never returns more than topN", func(t *testing.T) {
		svc := NewRecommendationService(nil, RecommenderConfig{})
		for topN := 1; topN <= 6; topN++ {
			rec, err := svc.Recommend(ctx, "2", testRestaurants(), testUsers(), topN)
			require.NoError(t, err)
			assert.Len(t, rec.Items, min(topN, 4), fmt.Sprintf("topN=%d", topN))
		}
	})

	t.Run("non-positive topN falls back to default", func(t *testing.T) {
		svc := NewRecommendationService(nil, RecommenderConfig{DefaultTopN: 2})
		rec, err := svc.Recommend(ctx, "2", testRestaurants(), testUsers(), 0)
		require.NoError(t, err)
		assert.Len(t, rec.Items, 2)
	})

	t.Run("sorts by score when enabled", func(t *testing.T) {
		svc := NewRecommendationService(nil, RecommenderConfig{SortByScore: true})
		rec, err := svc.Recommend(ctx, "2", testRestaurants(), testUsers(), 4)
		require.NoError(t, err)

		for i := 1; i < len(rec.Items); i++ {
			assert.GreaterOrEqual(t, rec.Items[i-1].Score.Total, rec.Items[i].Score.Total)
		}
	})

	t.Run("reports the recommendation", func(t *testing.T) {
		reporter := &recordingReporter{}
		svc := NewRecommendationService(reporter, RecommenderConfig{})
		rec, err := svc.Recommend(ctx, "1", testRestaurants(), testUsers(), 5)
		require.NoError(t, err)

		require.Len(t, reporter.recommendations, 1)
		assert.Same(t, rec, reporter.recommendations[0])
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := NewRecommendationService(nil, RecommenderConfig{})
		_, err := svc.Recommend(ctx, "1", testRestaurants(), testUsers(), 5)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPriceAffinity(t *testing.T) {
	assert.Equal(t, 0.9, PriceAffinity("Medio", "2"))
	assert.Equal(t, 0.0, PriceAffinity("Bajo", "4"))
	assert.Equal(t, 0.9, PriceAffinity("Muy Alto", "4"))
	assert.Equal(t, 0.0, PriceAffinity("Medio", "5"))
	assert.Equal(t, 0.0, PriceAffinity("Desconocido", "1"))
}

func TestScoreRestaurant(t *testing.T) {
	r := domain.Restaurant{PriceTier: "2", Rating: 4, ReviewCount: 500}

	got := ScoreRestaurant(r, "Medio", true)

	assert.InDelta(t, 0.9, got.Price, 1e-12)
	assert.InDelta(t, 0.9, got.Food, 1e-12)
	// 0.7*0.8 + 0.3*0.5
	assert.InDelta(t, 0.71, got.Quality, 1e-12)
	// 0.5*0.9 + 0.3*0.9 + 0.2*0.71
	assert.InDelta(t, 0.862, got.Total, 1e-12)

	t.Run("popularity is capped", func(t *testing.T) {
		capped := ScoreRestaurant(domain.Restaurant{Rating: 5, ReviewCount: 5000}, "Alto", false)
		assert.InDelta(t, 1.0, capped.Quality, 1e-12)
		assert.InDelta(t, 0.1, capped.Food, 1e-12)
	})
}
