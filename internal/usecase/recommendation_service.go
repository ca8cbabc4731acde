package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tastelens/backend/internal/domain"
	"github.com/tastelens/backend/internal/logging"
)

// Score weights
const (
	weightPrice   = 0.5
	weightFood    = 0.3
	weightQuality = 0.2

	weightRating     = 0.7
	weightPopularity = 0.3

	foodScoreFiltered   = 0.9 // a category filter was applied
	foodScoreUnfiltered = 0.1

	maxRating         = 5.0
	popularityReviews = 1000.0

	defaultTopN           = 5
	defaultRestaurantName = "Unnamed"
)

// RecommenderConfig holds configuration for the recommendation service
type RecommenderConfig struct {
	DefaultTopN int
	AliasPrefix string
	// SortByScore orders results by descending total score. When false the
	// filtered restaurants keep their table order.
	SortByScore        bool
	EnableDebugLogging bool
}

// RecommendationService ranks restaurants for a user from their preference and stratum
type RecommendationService struct {
	matcher            *PreferenceMatcher
	reporter           domain.Reporter
	defaultTopN        int
	sortByScore        bool
	enableDebugLogging bool
}

// NewRecommendationService creates a recommender. reporter may be nil.
func NewRecommendationService(reporter domain.Reporter, config RecommenderConfig) *RecommendationService {
	topN := config.DefaultTopN
	if topN <= 0 {
		topN = defaultTopN
	}

	return &RecommendationService{
		matcher:            NewPreferenceMatcher(config.AliasPrefix, config.EnableDebugLogging),
		reporter:           reporter,
		defaultTopN:        topN,
		sortByScore:        config.SortByScore,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Recommend returns up to topN restaurants for the user. topN <= 0 uses the
// configured default. The profile and list are sent to the reporter.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	userID string,
	restaurants *domain.RestaurantTable,
	users []domain.User,
	topN int,
) (*domain.Recommendation, error) {
	if restaurants == nil {
		return nil, fmt.Errorf("%w: restaurants table is required", domain.ErrInvalidRequest)
	}
	if topN <= 0 {
		topN = s.defaultTopN
	}

	user, err := findUser(users, userID)
	if err != nil {
		return nil, err
	}

	bucket, method := s.matcher.MatchBucket(user.Preference)
	var filterCols []string
	if method != MatchNone {
		filterCols = s.matcher.ResolveColumns(bucket, restaurants.AliasColumns)
	}
	filtered := len(filterCols) > 0

	if s.enableDebugLogging {
		logging.Ctx(ctx).Debug().
			Str("user_id", userID).
			Str("bucket", bucket.Name).
			Str("match", string(method)).
			Strs("columns", filterCols).
			Msg("Resolved preference")
	}

	items := make([]domain.RecommendedRestaurant, 0, len(restaurants.Restaurants))
	for _, r := range restaurants.Restaurants {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if filtered && !inAnyCategory(r, filterCols) {
			continue
		}

		name := r.Name
		if name == "" {
			name = defaultRestaurantName
		}
		items = append(items, domain.RecommendedRestaurant{
			ID:      r.ID,
			Name:    name,
			Address: r.Address,
			Score:   ScoreRestaurant(r, user.Stratum, filtered),
		})
	}

	if s.sortByScore {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Score.Total > items[j].Score.Total
		})
	}

	if len(items) > topN {
		items = items[:topN]
	}

	rec := &domain.Recommendation{
		UserID: userID,
		Profile: domain.UserProfile{
			Name:         user.FullName,
			Preference:   user.Preference,
			Stratum:      user.Stratum,
			AverageSpend: user.AverageSpend,
		},
		FilterColumns: filterCols,
		Items:         items,
	}
	if filtered {
		rec.Bucket = bucket.Name
	}

	if s.reporter != nil {
		s.reporter.ReportRecommendation(rec)
	}

	return rec, nil
}

// ScoreRestaurant computes the weighted score of one restaurant for a stratum
func ScoreRestaurant(r domain.Restaurant, stratum string, filtered bool) domain.ScoreBreakdown {
	price := PriceAffinity(stratum, r.PriceTier)

	food := foodScoreUnfiltered
	if filtered {
		food = foodScoreFiltered
	}

	ratingNorm := r.Rating / maxRating
	popularityNorm := math.Min(r.ReviewCount/popularityReviews, 1.0)
	quality := weightRating*ratingNorm + weightPopularity*popularityNorm

	return domain.ScoreBreakdown{
		Price:   price,
		Food:    food,
		Quality: quality,
		Total:   weightPrice*price + weightFood*food + weightQuality*quality,
	}
}

// findUser returns the first user with the given id
func findUser(users []domain.User, id string) (*domain.User, error) {
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUserNotFound, id)
}

func inAnyCategory(r domain.Restaurant, cols []string) bool {
	for _, c := range cols {
		if r.Categories[c] {
			return true
		}
	}
	return false
}
