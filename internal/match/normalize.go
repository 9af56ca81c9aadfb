// Package match resolves receipt line items against the open shopping list
// and provides the item-name normalization the rest of the system keys on.
package match

import (
	"regexp"
	"strings"
)

var (
	nonAlnum     = regexp.MustCompile(`[^a-z0-9% ]+`)
	measureToken = regexp.MustCompile(`^\d+(?:\.\d+)?(?:oz|lb|lbs|g|kg|ml|l|ct)$`)
	numericToken = regexp.MustCompile(`^\d+(?:\.\d+)?%?$`)
)

var leadingDescriptors = map[string]bool{
	"organic": true,
	"fresh":   true,
	"whole":   true,
	"large":   true,
	"small":   true,
}

var trailingFiller = map[string]bool{
	"pack":   true,
	"packs":  true,
	"count":  true,
	"ct":     true,
	"pkg":    true,
	"pk":     true,
	"bag":    true,
	"bottle": true,
	"can":    true,
}

// Normalize lower-cases a name, strips punctuation, and collapses whitespace.
// This is the matching key: two names refer to the same item when their
// normalized forms are equal or one contains the other.
func Normalize(name string) string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(name), " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// Canonical builds the identity key used for price and frequency history.
// On top of Normalize it drops leading descriptor words and trailing
// pack-size noise so "Organic Bananas 3ct" and "bananas" share history.
func Canonical(name string) string {
	tokens := strings.Fields(Normalize(name))

	for len(tokens) > 0 && leadingDescriptors[tokens[0]] {
		tokens = tokens[1:]
	}

	for len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		if trailingFiller[last] || measureToken.MatchString(last) || numericToken.MatchString(last) {
			tokens = tokens[:len(tokens)-1]
			continue
		}
		break
	}

	if len(tokens) == 0 {
		return strings.ToLower(strings.TrimSpace(name))
	}
	return strings.Join(tokens, " ")
}

// DisplayName renders a canonical key as a readable title-cased name.
func DisplayName(name string) string {
	canonical := Canonical(name)
	if canonical == "" {
		return strings.TrimSpace(name)
	}

	words := strings.Fields(canonical)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
