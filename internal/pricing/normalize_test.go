package pricing

import (
	"testing"

	"github.com/eventfold/bids-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ItemizedPassesThrough(t *testing.T) {
	items := []domain.LineItem{
		{ID: "li_1", Description: "Catering for 200", Quantity: 200, Unit: "plate", UnitPrice: 500, LineTotal: 100000},
		{ID: "li_2", Description: "Stage decoration", Quantity: 1, Unit: "set", UnitPrice: 40000, LineTotal: 40000},
	}
	bid := domain.Bid{BidID: "b1", ItemizedPricing: items}

	got := Normalize(bid)

	assert.Equal(t, items, got)
}

func TestNormalize_Idempotent(t *testing.T) {
	legacy := domain.Bid{
		BidID: "b1",
		Pricing: domain.LegacyPricing{
			{Category: "catering", Amount: 150000, Notes: "Buffet for 200 guests"},
			{Category: "decoration", Amount: 50000},
		},
		Total: 200000,
	}

	first := Normalize(legacy)

	// Wrap the output as an itemized bid and normalize again.
	rewrapped := domain.Bid{BidID: "b1", ItemizedPricing: first}
	second := Normalize(rewrapped)

	assert.Equal(t, first, second)
}

func TestNormalize_LegacySynthesis(t *testing.T) {
	bid := domain.Bid{
		Pricing: domain.LegacyPricing{
			{Category: "catering", Amount: 150000, Notes: "Buffet for 200 guests"},
			{Category: "venue", Amount: 250000},
		},
	}

	got := Normalize(bid)
	require.Len(t, got, 2)

	assert.Equal(t, "catering_1", got[0].ID)
	assert.Equal(t, "Buffet for 200 guests", got[0].Description)
	assert.Equal(t, 1.0, got[0].Quantity)
	assert.Equal(t, "service", got[0].Unit)
	assert.Equal(t, 150000.0, got[0].UnitPrice)
	assert.Equal(t, 150000.0, got[0].LineTotal)
	assert.Equal(t, "Buffet for 200 guests", got[0].Notes)

	// No notes: description falls back to the category key.
	assert.Equal(t, "venue_1", got[1].ID)
	assert.Equal(t, "venue", got[1].Description)
	assert.Empty(t, got[1].Notes)
}

func TestNormalize_PreservesEntryOrder(t *testing.T) {
	bid := domain.Bid{
		Pricing: domain.LegacyPricing{
			{Category: "venue", Amount: 1},
			{Category: "catering", Amount: 2},
			{Category: "az_custom", Amount: 3},
		},
	}

	got := Normalize(bid)
	require.Len(t, got, 3)
	assert.Equal(t, "venue_1", got[0].ID)
	assert.Equal(t, "catering_1", got[1].ID)
	assert.Equal(t, "az_custom_1", got[2].ID)
}

func TestNormalize_NeitherShapeIsEmptyNotError(t *testing.T) {
	got := Normalize(domain.Bid{BidID: "bare"})
	assert.Empty(t, got)
}
