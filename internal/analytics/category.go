package analytics

import (
	"strings"

	"github.com/hearthward/grocer/internal/match"
	"github.com/hearthward/grocer/internal/model"
)

// categoryKeywords maps a spending category to the name fragments that
// identify it. First category whose keyword appears wins, in this order.
var categoryOrder = []string{
	"Produce",
	"Dairy",
	"Meat & Seafood",
	"Bakery",
	"Frozen",
	"Beverages",
	"Snacks",
	"Pantry",
	"Household",
	"Personal Care",
}

var categoryKeywords = map[string][]string{
	"Produce": {
		"apple", "banana", "orange", "grape", "berry", "berries", "melon",
		"lettuce", "spinach", "kale", "carrot", "onion", "potato", "tomato",
		"pepper", "broccoli", "cucumber", "avocado", "lemon", "lime", "garlic",
		"celery", "mushroom", "squash", "zucchini", "fruit", "vegetable",
	},
	"Dairy": {
		"milk", "cheese", "yogurt", "butter", "cream", "egg", "eggs",
	},
	"Meat & Seafood": {
		"chicken", "beef", "pork", "turkey", "ham", "bacon", "sausage",
		"salmon", "tuna", "shrimp", "fish", "steak", "ground",
	},
	"Bakery": {
		"bread", "bagel", "muffin", "croissant", "roll", "rolls", "bun",
		"tortilla", "cake", "donut",
	},
	"Frozen": {
		"frozen", "ice cream", "pizza", "popsicle",
	},
	"Beverages": {
		"juice", "soda", "coffee", "tea", "water", "wine", "beer", "drink",
		"cola", "lemonade",
	},
	"Snacks": {
		"chip", "chips", "cracker", "pretzel", "popcorn", "cookie", "candy",
		"chocolate", "granola", "nuts",
	},
	"Pantry": {
		"rice", "pasta", "flour", "sugar", "salt", "oil", "vinegar", "sauce",
		"soup", "beans", "cereal", "oats", "spice", "honey", "peanut butter",
		"jam", "canned",
	},
	"Household": {
		"paper towel", "toilet paper", "detergent", "soap", "cleaner",
		"sponge", "trash bag", "foil", "wrap", "battery", "batteries",
	},
	"Personal Care": {
		"shampoo", "conditioner", "toothpaste", "toothbrush", "deodorant",
		"lotion", "razor", "floss",
	},
}

// GuessCategory assigns a spending category from the item name.
// Unrecognized names fall into the Other bucket.
func GuessCategory(name string) string {
	normalized := match.Normalize(name)
	if normalized == "" {
		return model.CategoryOther
	}

	for _, category := range categoryOrder {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(normalized, keyword) {
				return category
			}
		}
	}
	return model.CategoryOther
}
