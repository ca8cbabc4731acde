package domain

import (
	"context"
	"io"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// TableLoader reads a tabular file into memory
type TableLoader interface {
	Load(ctx context.Context, path string) (*Table, error)
}

// DatasetRepository resolves configured datasets by name
type DatasetRepository interface {
	Table(ctx context.Context, name string) (*Table, error)
	Users(ctx context.Context) ([]User, error)
	Restaurants(ctx context.Context) (*RestaurantTable, error)
}

// ChartRenderer draws one chart of a table as an image
type ChartRenderer interface {
	Render(ctx context.Context, w io.Writer, table *Table, spec ChartSpec) error
}

// Reporter receives the presentational output of the recommender and imputer
type Reporter interface {
	ReportRecommendation(rec *Recommendation)
	ReportImputation(result *ImputationResult)
}
