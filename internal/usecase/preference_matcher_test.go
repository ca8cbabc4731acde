package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and trims", "  Carnes ", "carnes"},
		{"strips diacritics", "México", "mexico"},
		{"removes inner spaces", "Muy Alto", "muyalto"},
		{"folds combining marks", "Vegetaríano", "vegetariano"},
		{"drops non-ascii symbols", "café ☕", "cafe"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"México", "  Comida Rápida ", "mexico", "ÑANDÚ", "beer_and_wine"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize(%q)", in)
	}
	assert.Equal(t, Normalize("mexico"), Normalize("México"))
}

func TestMatchBucket(t *testing.T) {
	m := NewPreferenceMatcher("alias_", false)

	tests := []struct {
		name       string
		preference string
		bucket     string
		method     MatchMethod
	}{
		{"spanish bucket name", "Carnes", "Meats", MatchExact},
		{"english bucket name", "Seafood", "Seafood", MatchExact},
		{"accented synonym", "Vegetariána", "Vegetarian", MatchExact},
		{"vegan is not vegetarian", "Vegano", "Vegan", MatchExact},
		{"free text containing a key", "me gustan las carnes rojas", "Meats", MatchSubstring},
		{"prefix of a key", "pesca", "Fish", MatchSubstring},
		{"no match", "Comida rápida", "", MatchNone},
		{"blank preference takes the first bucket", "   ", "Meats", MatchSubstring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, method := m.MatchBucket(tt.preference)
			assert.Equal(t, tt.method, method)
			assert.Equal(t, tt.bucket, b.Name)
		})
	}
}

func TestResolveColumns(t *testing.T) {
	m := NewPreferenceMatcher("alias_", false)
	fish, _ := bucketByName("Fish")

	cols := m.ResolveColumns(fish, []string{"alias_pizza", "alias_Ramen", "alias_sushi", "alias_poké"})

	assert.Equal(t, []string{"alias_sushi", "alias_Ramen", "alias_poké"}, cols)
}

func TestResolveColumnsNoOverlap(t *testing.T) {
	m := NewPreferenceMatcher("", false)
	vegan, _ := bucketByName("Vegan")

	assert.Empty(t, m.ResolveColumns(vegan, []string{"alias_pizza", "alias_sushi"}))
}

func TestBucketsOrder(t *testing.T) {
	names := make([]string, 0, 6)
	for _, b := range Buckets() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Meats", "Seafood", "Vegetarian", "Other", "Fish", "Vegan"}, names)
}
