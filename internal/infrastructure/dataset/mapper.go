package dataset

import (
	"fmt"
	"strings"

	"github.com/tastelens/backend/config"
	"github.com/tastelens/backend/internal/domain"
)

// MapUsers converts the users table to user records. The id, preference and
// stratum columns are required; full name and average spend are optional.
func MapUsers(table *domain.Table, schema config.SchemaConfig) ([]domain.User, error) {
	ids, err := table.Column(schema.UserID)
	if err != nil {
		return nil, err
	}
	prefs, err := table.Column(schema.UserPreference)
	if err != nil {
		return nil, err
	}
	strata, err := table.Column(schema.UserStratum)
	if err != nil {
		return nil, err
	}
	names := optionalColumn(table, schema.UserFullName)
	spends := optionalColumn(table, schema.UserAverageSpend)

	users := make([]domain.User, table.Len())
	for i := range users {
		users[i] = domain.User{
			ID:         ids.Values[i].String(),
			Preference: prefs.Values[i].String(),
			Stratum:    strata.Values[i].String(),
		}
		if names != nil {
			users[i].FullName = names.Values[i].String()
		}
		if spends != nil {
			spend, ok, err := optionalFloat(spends, i)
			if err != nil {
				return nil, err
			}
			if ok {
				users[i].AverageSpend = &spend
			}
		}
	}
	return users, nil
}

// MapRestaurants converts the restaurants table to restaurant records. Every
// column starting with the alias prefix becomes a category flag.
func MapRestaurants(table *domain.Table, schema config.SchemaConfig) (*domain.RestaurantTable, error) {
	ids, err := table.Column(schema.RestaurantID)
	if err != nil {
		return nil, err
	}
	prices, err := table.Column(schema.RestaurantPrice)
	if err != nil {
		return nil, err
	}
	ratings, err := table.Column(schema.RestaurantRating)
	if err != nil {
		return nil, err
	}
	reviews, err := table.Column(schema.RestaurantReviewCount)
	if err != nil {
		return nil, err
	}
	names := optionalColumn(table, schema.RestaurantName)
	addresses := optionalColumn(table, schema.RestaurantAddress)

	var aliasCols []*domain.Column
	out := &domain.RestaurantTable{}
	for _, c := range table.Columns() {
		if strings.HasPrefix(c.Name, schema.AliasPrefix) {
			aliasCols = append(aliasCols, c)
			out.AliasColumns = append(out.AliasColumns, c.Name)
		}
	}

	out.Restaurants = make([]domain.Restaurant, table.Len())
	for i := range out.Restaurants {
		rating, _, err := optionalFloat(ratings, i)
		if err != nil {
			return nil, err
		}
		reviewCount, _, err := optionalFloat(reviews, i)
		if err != nil {
			return nil, err
		}

		r := domain.Restaurant{
			ID:          ids.Values[i].String(),
			PriceTier:   prices.Values[i].String(),
			Rating:      rating,
			ReviewCount: reviewCount,
			Categories:  make(map[string]bool, len(aliasCols)),
		}
		if names != nil {
			r.Name = names.Values[i].String()
		}
		if addresses != nil {
			r.Address = addresses.Values[i].String()
		}
		for _, c := range aliasCols {
			if c.Values[i].Truthy() {
				r.Categories[c.Name] = true
			}
		}
		out.Restaurants[i] = r
	}
	return out, nil
}

func optionalColumn(table *domain.Table, name string) *domain.Column {
	if name == "" {
		return nil
	}
	col, err := table.Column(name)
	if err != nil {
		return nil
	}
	return col
}

// optionalFloat reads a numeric cell. Null reads as (0, false); text is malformed.
func optionalFloat(col *domain.Column, row int) (float64, bool, error) {
	v := col.Values[row]
	if v.IsNull() {
		return 0, false, nil
	}
	f, ok := v.Float()
	if !ok {
		return 0, false, fmt.Errorf("%w: column %q row %d: %q is not a number", domain.ErrMalformedValue, col.Name, row, v.String())
	}
	return f, true, nil
}
