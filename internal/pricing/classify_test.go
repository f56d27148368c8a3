package pricing

import (
	"testing"

	"github.com/eventfold/bids-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        Category
	}{
		{
			name:        "catering keyword",
			description: "Premium catering package for 200 guests",
			want:        "Catering",
		},
		{
			name:        "case insensitive",
			description: "FULL-DAY PHOTOGRAPHY COVERAGE",
			want:        "Photography",
		},
		{
			name:        "no keyword falls back",
			description: "Miscellaneous setup fee",
			want:        CategoryOther,
		},
		{
			name:        "empty description falls back",
			description: "",
			want:        CategoryOther,
		},
		{
			name:        "multi-word category",
			description: "Bridal makeup & beauty session",
			want:        "Makeup & Beauty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.description))
		})
	}
}

// A description matching several categories must resolve by canonical list
// order, not the order keywords appear in the text.
func TestClassify_TieResolvesByCanonicalOrder(t *testing.T) {
	got := Classify("Venue decoration with floral arches")

	// "Decoration" precedes "Venue" in the canonical list even though
	// "venue" appears first in the text.
	assert.Equal(t, Category("Decoration"), got)
}

func TestGroup(t *testing.T) {
	items := []domain.LineItem{
		{ID: "1", Description: "Wedding catering", LineTotal: 100},
		{ID: "2", Description: "Stage decoration", LineTotal: 200},
		{ID: "3", Description: "Dessert catering counter", LineTotal: 300},
		{ID: "4", Description: "Misc charges", LineTotal: 50},
	}

	groups := Group(items)
	require.Len(t, groups, 3)

	// First-seen order across groups.
	assert.Equal(t, Category("Catering"), groups[0].Category)
	assert.Equal(t, Category("Decoration"), groups[1].Category)
	assert.Equal(t, CategoryOther, groups[2].Category)

	// Insertion order within a group.
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, "1", groups[0].Items[0].ID)
	assert.Equal(t, "3", groups[0].Items[1].ID)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil))
}
