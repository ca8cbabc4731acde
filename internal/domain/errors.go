package domain

import "errors"

var (
	// ErrUserNotFound is returned when the requested user id is absent from the users table
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidChartKind is returned when a chart kind has no renderer
	ErrInvalidChartKind = errors.New("unsupported chart kind")

	// ErrUnsupportedImputation is returned for an unknown statistic or condition
	ErrUnsupportedImputation = errors.New("unsupported imputation")

	// ErrColumnNotFound is returned when a referenced column does not exist
	ErrColumnNotFound = errors.New("column not found")

	// ErrMalformedValue is returned when a cell cannot be read as the expected type
	ErrMalformedValue = errors.New("malformed value")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrDatasetNotFound is returned when a named dataset is not configured
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
