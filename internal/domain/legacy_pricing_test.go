package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyPricing_UnmarshalPreservesOrder(t *testing.T) {
	raw := `{
		"catering": {"amount": 150000, "notes": "Buffet for 200"},
		"decoration": {"amount": 50000},
		"photography": {"amount": 30000, "notes": "Full day coverage"}
	}`

	var p LegacyPricing
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	require.Len(t, p, 3)

	assert.Equal(t, "catering", p[0].Category)
	assert.Equal(t, 150000.0, p[0].Amount)
	assert.Equal(t, "Buffet for 200", p[0].Notes)
	assert.Equal(t, "decoration", p[1].Category)
	assert.Equal(t, "", p[1].Notes)
	assert.Equal(t, "photography", p[2].Category)
}

func TestLegacyPricing_RoundTrip(t *testing.T) {
	in := LegacyPricing{
		{Category: "venue", Amount: 200000, Notes: "Banquet hall"},
		{Category: "catering", Amount: 150000},
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out LegacyPricing
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestLegacyPricing_Null(t *testing.T) {
	var p LegacyPricing
	require.NoError(t, json.Unmarshal([]byte("null"), &p))
	assert.Nil(t, p)
}

func TestLegacyPricing_RejectsNonObject(t *testing.T) {
	var p LegacyPricing
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &p))
}

func TestBidStatus_Terminal(t *testing.T) {
	assert.False(t, BidPending.Terminal())
	assert.False(t, BidShortlisted.Terminal())
	assert.True(t, BidSelected.Terminal())
	assert.True(t, BidRejected.Terminal())
}

func TestEvent_FindBid(t *testing.T) {
	e := Event{Bids: []Bid{{BidID: "a"}, {BidID: "b"}}}
	assert.Equal(t, 1, e.FindBid("b"))
	assert.Equal(t, -1, e.FindBid("missing"))
}
