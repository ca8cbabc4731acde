package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Datasets    map[string]DatasetConfig
	Schema      SchemaConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Recommender RecommenderConfig
	Chart       ChartConfig
	Logging     LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatasetConfig points at one tabular file. Sheet is used for xlsx files only.
type DatasetConfig struct {
	Path  string `mapstructure:"path"`
	Sheet string `mapstructure:"sheet"`
}

// SchemaConfig names the columns read from the users and restaurants datasets
type SchemaConfig struct {
	UserID           string `mapstructure:"user_id"`
	UserPreference   string `mapstructure:"user_preference"`
	UserStratum      string `mapstructure:"user_stratum"`
	UserAverageSpend string `mapstructure:"user_average_spend"`
	UserFullName     string `mapstructure:"user_full_name"`

	RestaurantID          string `mapstructure:"restaurant_id"`
	RestaurantName        string `mapstructure:"restaurant_name"`
	RestaurantAddress     string `mapstructure:"restaurant_address"`
	RestaurantPrice       string `mapstructure:"restaurant_price"`
	RestaurantRating      string `mapstructure:"restaurant_rating"`
	RestaurantReviewCount string `mapstructure:"restaurant_review_count"`
	AliasPrefix           string `mapstructure:"alias_prefix"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	PerIP float64 `mapstructure:"per_ip"` // requests per second
	Burst int     `mapstructure:"burst"`
}

// RecommenderConfig holds recommender behaviour switches
type RecommenderConfig struct {
	TopN               int  `mapstructure:"top_n"`
	SortByScore        bool `mapstructure:"sort_by_score"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// ChartConfig holds chart output defaults
type ChartConfig struct {
	OutputDir string  `mapstructure:"output_dir"`
	Width     float64 `mapstructure:"width"`  // inches
	Height    float64 `mapstructure:"height"` // inches
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tastelens/")

	v.SetEnvPrefix("TASTELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("datasets.users.path", "data/users.csv")
	v.SetDefault("datasets.restaurants.path", "data/restaurants.csv")

	v.SetDefault("schema.user_id", "id_persona")
	v.SetDefault("schema.user_preference", "preferencias_alimenticias")
	v.SetDefault("schema.user_stratum", "estrato_socioeconomico")
	v.SetDefault("schema.user_average_spend", "promedio_gasto_comida")
	v.SetDefault("schema.user_full_name", "nombre_completo")
	v.SetDefault("schema.restaurant_id", "id")
	v.SetDefault("schema.restaurant_name", "alias")
	v.SetDefault("schema.restaurant_address", "address")
	v.SetDefault("schema.restaurant_price", "price_num")
	v.SetDefault("schema.restaurant_rating", "rating")
	v.SetDefault("schema.restaurant_review_count", "review_count")
	v.SetDefault("schema.alias_prefix", "alias_")

	v.SetDefault("cache.ttl", "1h")

	v.SetDefault("ratelimit.per_ip", 10)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("recommender.top_n", 5)
	v.SetDefault("recommender.sort_by_score", false)
	v.SetDefault("recommender.enable_debug_logging", false)

	v.SetDefault("chart.output_dir", "charts")
	v.SetDefault("chart.width", 10)
	v.SetDefault("chart.height", 6)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	for _, name := range []string{"users", "restaurants"} {
		ds, ok := config.Datasets[name]
		if !ok || ds.Path == "" {
			return fmt.Errorf("dataset %q path is required (set TASTELENS_DATASETS_%s_PATH)", name, strings.ToUpper(name))
		}
	}

	if config.Schema.AliasPrefix == "" {
		return fmt.Errorf("schema alias prefix must not be empty")
	}

	if config.Recommender.TopN <= 0 {
		return fmt.Errorf("recommender top_n must be positive, got: %d", config.Recommender.TopN)
	}

	if config.RateLimit.PerIP <= 0 || config.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit per_ip and burst must be positive")
	}

	if config.Chart.Width <= 0 || config.Chart.Height <= 0 {
		return fmt.Errorf("chart width and height must be positive")
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	return nil
}

// DefaultSchema returns the default column names, used by tests and tools that run without a config file
func DefaultSchema() SchemaConfig {
	return SchemaConfig{
		UserID:                "id_persona",
		UserPreference:        "preferencias_alimenticias",
		UserStratum:           "estrato_socioeconomico",
		UserAverageSpend:      "promedio_gasto_comida",
		UserFullName:          "nombre_completo",
		RestaurantID:          "id",
		RestaurantName:        "alias",
		RestaurantAddress:     "address",
		RestaurantPrice:       "price_num",
		RestaurantRating:      "rating",
		RestaurantReviewCount: "review_count",
		AliasPrefix:           "alias_",
	}
}
