package domain

// User is a row of the users table
type User struct {
	ID           string   `json:"id"`
	Preference   string   `json:"preference"`
	Stratum      string   `json:"stratum"`
	AverageSpend *float64 `json:"averageSpend,omitempty"`
	FullName     string   `json:"fullName"`
}

// Restaurant is a row of the restaurants table
type Restaurant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	PriceTier   string  `json:"priceTier"`
	Rating      float64 `json:"rating"`
	ReviewCount float64 `json:"reviewCount"`
	// Categories holds the alias column flags keyed by full column name
	Categories map[string]bool `json:"categories,omitempty"`
}

// RestaurantTable is the restaurants dataset with its alias column names in table order
type RestaurantTable struct {
	AliasColumns []string
	Restaurants  []Restaurant
}

// UserProfile is the summary reported alongside recommendations
type UserProfile struct {
	Name         string   `json:"name"`
	Preference   string   `json:"preference"`
	Stratum      string   `json:"stratum"`
	AverageSpend *float64 `json:"averageSpend,omitempty"`
}

// ScoreBreakdown holds the weighted terms of a restaurant score
type ScoreBreakdown struct {
	Price   float64 `json:"price"`
	Food    float64 `json:"food"`
	Quality float64 `json:"quality"`
	Total   float64 `json:"total"`
}

// RecommendedRestaurant is one entry of a recommendation list
type RecommendedRestaurant struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Address string         `json:"address"`
	Score   ScoreBreakdown `json:"score"`
}

// Recommendation is the result of a recommender call
type Recommendation struct {
	UserID        string                  `json:"userId"`
	Profile       UserProfile             `json:"profile"`
	Bucket        string                  `json:"bucket,omitempty"`
	FilterColumns []string                `json:"filterColumns,omitempty"`
	Items         []RecommendedRestaurant `json:"items"`
}

// RecommendationRequest asks for the top restaurants of one user
type RecommendationRequest struct {
	UserID string `json:"userId" binding:"required"`
	TopN   int    `json:"topN,omitempty"`
}
