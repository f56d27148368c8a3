package lifecycle

import (
	"fmt"
	"testing"
	"time"

	"github.com/eventfold/bids-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func eventWithBids(n int) domain.Event {
	e := domain.Event{EventID: "ev1", Status: domain.EventOpen}
	for i := 0; i < n; i++ {
		e.Bids = append(e.Bids, domain.Bid{
			BidID:      fmt.Sprintf("bid%d", i+1),
			VendorName: fmt.Sprintf("Vendor %d", i+1),
			Status:     domain.BidPending,
			GrandTotal: float64(100000 * (i + 1)),
		})
	}
	return e
}

func TestShortlist(t *testing.T) {
	e := eventWithBids(2)

	got, err := Shortlist(e, "bid1", DefaultShortlistLimit, now)
	require.NoError(t, err)

	assert.Equal(t, domain.BidShortlisted, got.Bids[0].Status)
	require.NotNil(t, got.Bids[0].ShortlistedAt)
	assert.Equal(t, now, *got.Bids[0].ShortlistedAt)

	// The input event is untouched.
	assert.Equal(t, domain.BidPending, e.Bids[0].Status)
	assert.Nil(t, e.Bids[0].ShortlistedAt)
}

func TestShortlist_CapFailsClosed(t *testing.T) {
	e := eventWithBids(7)
	for i := 0; i < 5; i++ {
		var err error
		e, err = Shortlist(e, e.Bids[i].BidID, DefaultShortlistLimit, now)
		require.NoError(t, err)
	}
	require.Equal(t, 5, ShortlistedCount(e))

	got, err := Shortlist(e, "bid6", DefaultShortlistLimit, now)
	assert.ErrorIs(t, err, ErrShortlistFull)

	// Guard failure returns the event byte-for-byte unchanged.
	assert.Equal(t, e, got)
	assert.Equal(t, domain.BidPending, got.Bids[5].Status)
}

func TestShortlist_Guards(t *testing.T) {
	e := eventWithBids(2)

	_, err := Shortlist(e, "missing", 5, now)
	assert.ErrorIs(t, err, ErrBidNotFound)

	e.Bids[0].Status = domain.BidShortlisted
	_, err = Shortlist(e, "bid1", 5, now)
	assert.ErrorIs(t, err, ErrAlreadyShortlisted)

	e.Bids[1].Status = domain.BidRejected
	_, err = Shortlist(e, "bid2", 5, now)
	assert.ErrorIs(t, err, ErrBidFinalized)
}

func TestUnshortlist(t *testing.T) {
	e := eventWithBids(1)
	e, err := Shortlist(e, "bid1", 5, now)
	require.NoError(t, err)

	e.Bids[0].Intelligence = &domain.CompetitiveIntelligence{Position: 1}

	got, err := Unshortlist(e, "bid1")
	require.NoError(t, err)
	assert.Equal(t, domain.BidPending, got.Bids[0].Status)
	assert.Nil(t, got.Bids[0].ShortlistedAt)
	assert.Nil(t, got.Bids[0].Intelligence)

	_, err = Unshortlist(got, "bid1")
	assert.ErrorIs(t, err, ErrNotShortlisted)
}

func TestReject(t *testing.T) {
	e := eventWithBids(2)

	got, err := Reject(e, "bid1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.BidRejected, got.Bids[0].Status)
	require.NotNil(t, got.Bids[0].RejectedAt)

	// Rejection is terminal.
	_, err = Reject(got, "bid1", now)
	assert.ErrorIs(t, err, ErrBidFinalized)
	_, err = Shortlist(got, "bid1", 5, now)
	assert.ErrorIs(t, err, ErrBidFinalized)
}

func TestSelectWinner_Exclusivity(t *testing.T) {
	e := eventWithBids(4)
	e, err := Shortlist(e, "bid2", 5, now)
	require.NoError(t, err)
	e, err = Shortlist(e, "bid3", 5, now)
	require.NoError(t, err)

	got, err := SelectWinner(e, "bid2", now)
	require.NoError(t, err)

	var selected, rejected int
	for _, b := range got.Bids {
		switch b.Status {
		case domain.BidSelected:
			selected++
		case domain.BidRejected:
			rejected++
		}
	}
	assert.Equal(t, 1, selected)
	assert.Equal(t, 3, rejected)
	assert.Equal(t, domain.EventWinnerSelected, got.Status)

	require.NotNil(t, got.Bids[1].SelectedAt)
	require.NotNil(t, got.Bids[2].RejectedAt)

	w := Winner(got)
	require.NotNil(t, w)
	assert.Equal(t, "bid2", w.BidID)
	assert.True(t, HasWinner(got))

	// A second selection with a different target is refused; still exactly
	// one selected bid.
	again, err := SelectWinner(got, "bid3", now)
	assert.ErrorIs(t, err, ErrWinnerAlreadySelected)
	assert.Equal(t, got, again)
}

func TestSelectWinner_PreservesEarlierRejections(t *testing.T) {
	earlier := now.Add(-48 * time.Hour)

	e := eventWithBids(3)
	e, err := Reject(e, "bid3", earlier)
	require.NoError(t, err)
	e = mustShortlist(t, e, "bid1")

	got, err := SelectWinner(e, "bid1", now)
	require.NoError(t, err)

	// The previously rejected bid keeps its original timestamp; only the
	// still-live bid gets rejected now.
	require.NotNil(t, got.Bids[2].RejectedAt)
	assert.Equal(t, earlier, *got.Bids[2].RejectedAt)
	require.NotNil(t, got.Bids[1].RejectedAt)
	assert.Equal(t, now, *got.Bids[1].RejectedAt)
}

func TestSelectWinner_RequiresShortlist(t *testing.T) {
	e := eventWithBids(2)

	_, err := SelectWinner(e, "bid1", now)
	assert.ErrorIs(t, err, ErrNotShortlisted)

	_, err = SelectWinner(e, "missing", now)
	assert.ErrorIs(t, err, ErrBidNotFound)
}

// The end-to-end scenario from the bid review flow: itemized A at 500000,
// legacy B at 450000, then a full shortlist and one refused extra.
func TestShortlistScenario(t *testing.T) {
	e := domain.Event{EventID: "ev1", Status: domain.EventOpen}
	e.Bids = append(e.Bids, domain.Bid{
		BidID:      "A",
		Status:     domain.BidPending,
		GrandTotal: 500000,
		ItemizedPricing: []domain.LineItem{
			{Description: "Premium catering", LineTotal: 250000},
			{Description: "Catering bar counter", LineTotal: 100000},
			{Description: "Stage decoration", LineTotal: 150000},
		},
	})
	e.Bids = append(e.Bids, domain.Bid{
		BidID:  "B",
		Status: domain.BidPending,
		Pricing: domain.LegacyPricing{
			{Category: "catering", Amount: 300000},
			{Category: "decoration", Amount: 150000},
		},
		Total: 450000,
	})
	for i := 0; i < 4; i++ {
		e.Bids = append(e.Bids, domain.Bid{
			BidID:      fmt.Sprintf("extra%d", i+1),
			Status:     domain.BidPending,
			GrandTotal: 600000,
		})
	}

	order := []string{"A", "B", "extra1", "extra2", "extra3"}
	for _, id := range order {
		var err error
		e, err = Shortlist(e, id, DefaultShortlistLimit, now)
		require.NoError(t, err)
	}

	got, err := Shortlist(e, "extra4", DefaultShortlistLimit, now)
	assert.ErrorIs(t, err, ErrShortlistFull)
	assert.Equal(t, e, got)
	assert.Equal(t, 5, ShortlistedCount(got))
	assert.Equal(t, domain.BidPending, got.Bids[got.FindBid("extra4")].Status)
}

func TestAutoShortlist(t *testing.T) {
	e := eventWithBids(7) // totals 100000..700000, all pending

	got, err := AutoShortlist(e, DefaultShortlistLimit, now)
	require.NoError(t, err)

	assert.Equal(t, 5, ShortlistedCount(got))
	assert.Equal(t, domain.BidRejected, got.Bids[5].Status)
	assert.Equal(t, domain.BidRejected, got.Bids[6].Status)

	first := got.Bids[0].Intelligence
	require.NotNil(t, first)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 0.0, first.PremiumPercentage)
	assert.Equal(t, 100000.0, first.LowestBidAmount)
	assert.Equal(t, 5, first.TotalShortlisted)
	assert.Contains(t, first.Message, "ranked #1")

	third := got.Bids[2].Intelligence
	require.NotNil(t, third)
	assert.Equal(t, 3, third.Position)
	assert.Equal(t, 200.0, third.PremiumPercentage)
	assert.Contains(t, third.Message, "ranked #3")
}

func TestAutoShortlist_CountsManualShortlist(t *testing.T) {
	e := eventWithBids(4)
	e = mustShortlist(t, e, "bid4")

	got, err := AutoShortlist(e, DefaultShortlistLimit, now)
	require.NoError(t, err)
	require.Equal(t, 4, ShortlistedCount(got))

	// The vendor message covers the whole shortlist, hand-picked bids
	// included.
	intel := got.Bids[0].Intelligence
	require.NotNil(t, intel)
	assert.Equal(t, 4, intel.TotalShortlisted)
}

func TestAutoShortlist_Guards(t *testing.T) {
	e := eventWithBids(2)

	won, err := SelectWinner(mustShortlist(t, e, "bid1"), "bid1", now)
	require.NoError(t, err)
	_, err = AutoShortlist(won, 5, now)
	assert.ErrorIs(t, err, ErrWinnerAlreadySelected)

	empty := domain.Event{EventID: "ev2"}
	_, err = AutoShortlist(empty, 5, now)
	assert.ErrorIs(t, err, ErrNoPendingBids)
}

func mustShortlist(t *testing.T, e domain.Event, bidID string) domain.Event {
	t.Helper()
	out, err := Shortlist(e, bidID, DefaultShortlistLimit, now)
	require.NoError(t, err)
	return out
}
