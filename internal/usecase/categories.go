package usecase

// Bucket is a coarse cuisine category grouping fine-grained cuisine tags.
// Keys are the bucket names matched against free-text preferences.
type Bucket struct {
	Name string
	Keys []string
	Tags []string
}

// buckets are checked in order; the first match wins
var buckets = []Bucket{
	{
		Name: "Meats",
		Keys: []string{"Meats", "Carnes"},
		Tags: []string{
			"chicken_wings", "cajun", "steak", "bbq", "burgers", "chickenshop", "argentine", "southern",
			"newamerican", "spanish", "kebab", "latin", "delis", "comfortfood", "caribbean", "polish",
			"venezuelan", "sandwiches", "tapas", "tradamerican", "australian", "halal", "mexican", "korean",
			"chinese", "filipino", "tacos", "sardinian", "modern_european", "french", "italian", "pizza",
			"hotpot", "turkish", "german", "british", "gastropubs", "pastashops", "tapasmallplates", "diners",
		},
	},
	{
		Name: "Seafood",
		Keys: []string{"Seafood", "Mariscos"},
		Tags: []string{"seafood", "fishnchips"},
	},
	{
		Name: "Vegetarian",
		Keys: []string{"Vegetarian", "Vegetariano"},
		Tags: []string{
			"vietnamese", "noodles", "mideastern", "cambodian", "asianfusion", "thai", "lebanese", "indpak",
			"soup", "salad", "himalayan", "mediterranean", "vegetarian", "falafel", "malaysian", "singaporean",
			"african",
		},
	},
	{
		Name: "Other",
		Keys: []string{"Other", "Otro"},
		Tags: []string{
			"speakeasies", "gourmet", "restaurants", "whiskeybars", "desserts", "icecream", "bakeries", "beerbar",
			"cafes", "intlgrocery", "cocktailbars", "coffee", "wine_bars", "lounges", "beer_and_wine", "pubs",
			"venues", "tikibars", "breweries", "brewpubs", "supperclubs", "karaoke", "bars", "food_court",
			"brasseries",
		},
	},
	{
		Name: "Fish",
		Keys: []string{"Fish", "Pescado"},
		Tags: []string{"sushi", "peruvian", "dimsum", "japanese", "izakaya", "ramen", "poke", "hainan", "japacurry"},
	},
	{
		Name: "Vegan",
		Keys: []string{"Vegan", "Vegano"},
		Tags: []string{"taiwanese", "somali", "piadina"},
	},
}

// preferenceBuckets maps normalized preference values to bucket names.
// Values not listed here fall back to substring matching against bucket keys.
var preferenceBuckets = map[string]string{
	"meats":        "Meats",
	"meat":         "Meats",
	"carnes":       "Meats",
	"carne":        "Meats",
	"carnivoro":    "Meats",
	"seafood":      "Seafood",
	"mariscos":     "Seafood",
	"marisco":      "Seafood",
	"vegetarian":   "Vegetarian",
	"vegetariano":  "Vegetarian",
	"vegetariana":  "Vegetarian",
	"other":        "Other",
	"otro":         "Other",
	"otros":        "Other",
	"otra":         "Other",
	"fish":         "Fish",
	"pescado":      "Fish",
	"pescados":     "Fish",
	"pescetariano": "Fish",
	"vegan":        "Vegan",
	"vegano":       "Vegan",
	"vegana":       "Vegan",
}

// Buckets returns the category mapping in match order
func Buckets() []Bucket {
	out := make([]Bucket, len(buckets))
	copy(out, buckets)
	return out
}

func bucketByName(name string) (Bucket, bool) {
	for _, b := range buckets {
		if b.Name == name {
			return b, true
		}
	}
	return Bucket{}, false
}

// compatibility maps stratum -> price tier -> affinity in [0,1]
var compatibility = map[string]map[string]float64{
	"Bajo":     {"1": 0.9, "2": 0.3, "3": 0.1, "4": 0.0},
	"Medio":    {"1": 0.7, "2": 0.9, "3": 0.4, "4": 0.1},
	"Alto":     {"1": 0.5, "2": 0.8, "3": 0.9, "4": 0.7},
	"Muy Alto": {"1": 0.3, "2": 0.6, "3": 0.8, "4": 0.9},
}

// PriceAffinity looks up the compatibility matrix. Unknown pairs score 0.
func PriceAffinity(stratum, priceTier string) float64 {
	return compatibility[stratum][priceTier]
}
