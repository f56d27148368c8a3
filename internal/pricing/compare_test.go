package pricing

import (
	"testing"

	"github.com/eventfold/bids-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildComparison(t *testing.T) {
	bids := []domain.Bid{
		{
			BidID:      "a",
			VendorName: "Aurora Events",
			Status:     domain.BidShortlisted,
			ItemizedPricing: []domain.LineItem{
				{Description: "Premium catering package", LineTotal: 300000},
				{Description: "Floral decoration", LineTotal: 150000},
				{Description: "Catering staff", LineTotal: 50000},
			},
			Subtotal:   500000,
			GrandTotal: 500000,
		},
		{
			BidID:      "b",
			VendorName: "Basil & Co",
			Status:     domain.BidPending,
			Pricing: domain.LegacyPricing{
				{Category: "catering", Amount: 250000},
				{Category: "photography", Amount: 200000},
			},
			Total: 450000,
		},
	}

	cmp := BuildComparison(bids, 3, LowestBid(bids))

	// TOTAL row.
	require.Len(t, cmp.Columns, 2)
	assert.Equal(t, 500000.0, cmp.Columns[0].Total)
	assert.False(t, cmp.Columns[0].IsLowest)
	assert.InDelta(t, 11.1, cmp.Columns[0].PercentAboveLowest, 0.05)
	assert.Equal(t, 450000.0, cmp.Columns[1].Total)
	assert.True(t, cmp.Columns[1].IsLowest)
	assert.Equal(t, 0.0, cmp.Columns[1].PercentAboveLowest)

	// Category rows: union across bids, sorted by name.
	require.Len(t, cmp.Rows, 3)
	assert.Equal(t, Category("Catering"), cmp.Rows[0].Category)
	assert.Equal(t, Category("Decoration"), cmp.Rows[1].Category)
	assert.Equal(t, Category("Photography"), cmp.Rows[2].Category)

	// Bid A prices catering twice; cells sum per category.
	assert.Equal(t, ComparisonCell{Present: true, Total: 350000}, cmp.Rows[0].Cells[0])
	assert.Equal(t, ComparisonCell{Present: true, Total: 250000}, cmp.Rows[0].Cells[1])

	// Absence is a distinct state from zero: bid B has no decoration.
	assert.Equal(t, ComparisonCell{Present: true, Total: 150000}, cmp.Rows[1].Cells[0])
	assert.Equal(t, ComparisonCell{}, cmp.Rows[1].Cells[1])
}

func TestBuildComparison_ZeroPricedCategoryIsPresent(t *testing.T) {
	bids := []domain.Bid{
		{
			BidID: "a",
			ItemizedPricing: []domain.LineItem{
				{Description: "Venue booking", LineTotal: 0}, // complimentary, still priced
			},
		},
		{
			BidID: "b",
			ItemizedPricing: []domain.LineItem{
				{Description: "Catering", LineTotal: 100},
			},
		},
	}

	cmp := BuildComparison(bids, 3, LowestBid(bids))
	require.Len(t, cmp.Rows, 2)

	var venueRow ComparisonRow
	for _, row := range cmp.Rows {
		if row.Category == "Venue" {
			venueRow = row
		}
	}

	assert.True(t, venueRow.Cells[0].Present)
	assert.Equal(t, 0.0, venueRow.Cells[0].Total)
	assert.False(t, venueRow.Cells[1].Present)
}

func TestBuildComparison_LimitsWithoutResorting(t *testing.T) {
	bids := []domain.Bid{
		bidWithTotal("c", 700),
		bidWithTotal("a", 300),
		bidWithTotal("b", 500),
		bidWithTotal("d", 900), // beyond the display limit
	}

	cmp := BuildComparison(bids, 3, LowestBid(bids))

	require.Len(t, cmp.Columns, 3)
	// Caller order is preserved.
	assert.Equal(t, "c", cmp.Columns[0].BidID)
	assert.Equal(t, "a", cmp.Columns[1].BidID)
	assert.Equal(t, "b", cmp.Columns[2].BidID)
	assert.True(t, cmp.Columns[1].IsLowest)
}

func TestBuildComparison_AnchorsToEventWideLowest(t *testing.T) {
	// The event's cheapest bid (300000) is not among the displayed bids —
	// filtered out or cut by the limit. Position figures must still be
	// computed against it, like the badges on the bid list.
	displayed := []domain.Bid{
		bidWithTotal("a", 500000),
		bidWithTotal("b", 700000),
	}

	cmp := BuildComparison(displayed, 3, 300000)

	require.Len(t, cmp.Columns, 2)
	assert.False(t, cmp.Columns[0].IsLowest)
	assert.InDelta(t, 66.7, cmp.Columns[0].PercentAboveLowest, 0.05)
	assert.False(t, cmp.Columns[1].IsLowest)
	assert.InDelta(t, 133.3, cmp.Columns[1].PercentAboveLowest, 0.05)
}

func TestBuildComparison_UnclassifiedDegradesToOtherServices(t *testing.T) {
	bids := []domain.Bid{
		{BidID: "a", ItemizedPricing: []domain.LineItem{
			{Description: "Generator diesel surcharge", LineTotal: 9000},
		}},
		{BidID: "b", ItemizedPricing: []domain.LineItem{
			{Description: "Misc handling", LineTotal: 4000},
		}},
	}

	cmp := BuildComparison(bids, 3, LowestBid(bids))
	require.Len(t, cmp.Rows, 1)
	assert.Equal(t, CategoryOther, cmp.Rows[0].Category)
	assert.True(t, cmp.Rows[0].Cells[0].Present)
	assert.True(t, cmp.Rows[0].Cells[1].Present)
}
