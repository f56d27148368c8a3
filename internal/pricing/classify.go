package pricing

import (
	"strings"

	"github.com/eventfold/bids-go/internal/domain"
)

// Category is a derived service bucket, not a stored field. Classification
// is a keyword heuristic over free-text vendor descriptions; it is lossy by
// design and must never be treated as the vendor's original intent.
type Category string

// CategoryOther is the fallback bucket for descriptions that match nothing.
const CategoryOther Category = "Other Services"

// Categories is the canonical classification list. Classify iterates this
// slice, not the input, so ties always resolve to the earliest declared
// category.
var Categories = []Category{
	"Catering",
	"Decoration",
	"Entertainment",
	"Photography",
	"Videography",
	"Logistics",
	"Planning",
	"Venue",
	"Makeup & Beauty",
	"Transportation",
}

// Classify assigns a line-item description to a category by case-insensitive
// substring match. No match falls back to CategoryOther.
func Classify(description string) Category {
	lower := strings.ToLower(description)

	for _, cat := range Categories {
		if strings.Contains(lower, strings.ToLower(string(cat))) {
			return cat
		}
	}

	return CategoryOther
}

// CategoryGroup is one classified partition of a normalized line-item list.
type CategoryGroup struct {
	Category Category          `json:"category"`
	Items    []domain.LineItem `json:"items"`
}

// Group partitions items by Classify(description). Groups appear in
// first-seen order and items keep their insertion order within a group; a
// plain map would make both orderings unstable.
func Group(items []domain.LineItem) []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[Category]int)

	for _, item := range items {
		cat := Classify(item.Description)

		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, CategoryGroup{Category: cat})
		}

		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}
