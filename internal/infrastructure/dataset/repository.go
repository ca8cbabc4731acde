package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/tastelens/backend/config"
	"github.com/tastelens/backend/internal/domain"
	"github.com/tastelens/backend/internal/logging"
)

// Dataset names the recommender reads
const (
	UsersDataset       = "users"
	RestaurantsDataset = "restaurants"
)

// tableCache is the part of the memory cache the repository needs
type tableCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) (interface{}, error)
}

// Repository loads configured datasets from disk and keeps them cached.
// Returned tables are shared; callers must Clone before modifying them.
type Repository struct {
	datasets map[string]config.DatasetConfig
	schema   config.SchemaConfig
	cache    tableCache
	ttl      time.Duration
}

// NewRepository creates a dataset repository
func NewRepository(datasets map[string]config.DatasetConfig, schema config.SchemaConfig, cache tableCache, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Repository{
		datasets: datasets,
		schema:   schema,
		cache:    cache,
		ttl:      ttl,
	}
}

// Names returns the configured dataset names
func (r *Repository) Names() []string {
	names := make([]string, 0, len(r.datasets))
	for name := range r.datasets {
		names = append(names, name)
	}
	return names
}

// Table returns the named dataset as a table
func (r *Repository) Table(ctx context.Context, name string) (*domain.Table, error) {
	ds, ok := r.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrDatasetNotFound, name)
	}

	v, err := r.cache.GetOrLoad(ctx, "table:"+name, r.ttl, func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		table, err := Load(ctx, ds.Path, ds.Sheet)
		if err != nil {
			return nil, err
		}
		logging.Ctx(ctx).Info().
			Str("dataset", name).
			Str("path", ds.Path).
			Int("rows", table.Len()).
			Dur("elapsed", time.Since(start)).
			Msg("Dataset loaded")
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Table), nil
}

// Users returns the users dataset as records
func (r *Repository) Users(ctx context.Context) ([]domain.User, error) {
	v, err := r.cache.GetOrLoad(ctx, "records:"+UsersDataset, r.ttl, func(ctx context.Context) (interface{}, error) {
		table, err := r.Table(ctx, UsersDataset)
		if err != nil {
			return nil, err
		}
		return MapUsers(table, r.schema)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.User), nil
}

// Restaurants returns the restaurants dataset as records
func (r *Repository) Restaurants(ctx context.Context) (*domain.RestaurantTable, error) {
	v, err := r.cache.GetOrLoad(ctx, "records:"+RestaurantsDataset, r.ttl, func(ctx context.Context) (interface{}, error) {
		table, err := r.Table(ctx, RestaurantsDataset)
		if err != nil {
			return nil, err
		}
		return MapRestaurants(table, r.schema)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.RestaurantTable), nil
}
