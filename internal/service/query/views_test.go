package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventfold/bids-go/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
}

func sampleEvent() *domain.Event {
	return &domain.Event{
		EventID:  "evt-1",
		Brief:    domain.EventBrief{EventType: "wedding", GuestCount: 200},
		Status:   domain.EventOpen,
		PostedAt: day(1),
		Bids: []domain.Bid{
			{
				BidID:       "a",
				VendorName:  "Aurora Events",
				Status:      domain.BidShortlisted,
				GrandTotal:  500000,
				SubmittedAt: day(2),
			},
			{
				BidID:       "b",
				VendorName:  "Basil & Co",
				Status:      domain.BidPending,
				Total:       450000,
				SubmittedAt: day(4),
			},
			{
				BidID:       "c",
				VendorName:  "Cyan Decor",
				Status:      domain.BidRejected,
				Total:       700000,
				SubmittedAt: day(3),
			},
		},
	}
}

func TestBuildEventView(t *testing.T) {
	view := buildEventView(sampleEvent())

	assert.Equal(t, "evt-1", view.EventID)
	assert.Equal(t, domain.EventOpen, view.Status)
	assert.Equal(t, BidCounts{Total: 3, Pending: 1, Shortlisted: 1, Rejected: 1}, view.Counts)

	// Summaries arrive price-ascending with position computed against
	// the lowest bid on the event.
	require.Len(t, view.Bids, 3)
	assert.Equal(t, "b", view.Bids[0].BidID)
	assert.True(t, view.Bids[0].IsLowest)
	assert.Equal(t, 0.0, view.Bids[0].PercentAboveLowest)

	assert.Equal(t, "a", view.Bids[1].BidID)
	assert.False(t, view.Bids[1].IsLowest)
	assert.InDelta(t, 11.1, view.Bids[1].PercentAboveLowest, 0.05)

	assert.Equal(t, "c", view.Bids[2].BidID)
	assert.InDelta(t, 55.6, view.Bids[2].PercentAboveLowest, 0.05)
}

func TestFilterSummaries(t *testing.T) {
	summaries := summarizeAll(sampleEvent().Bids)

	all := filterSummaries(summaries, FilterAll)
	assert.Len(t, all, 3)

	blank := filterSummaries(summaries, "")
	assert.Len(t, blank, 3)

	pending := filterSummaries(summaries, FilterPending)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].BidID)

	selected := filterSummaries(summaries, FilterSelected)
	assert.Empty(t, selected)
}

func TestSortSummaries(t *testing.T) {
	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{"price ascending is the default", "", []string{"b", "a", "c"}},
		{"price descending", SortPriceDesc, []string{"c", "a", "b"}},
		{"newest first", SortDateDesc, []string{"b", "c", "a"}},
		{"oldest first", SortDateAsc, []string{"a", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaries := summarizeAll(sampleEvent().Bids)
			sortSummaries(summaries, tt.order)

			got := make([]string, 0, len(summaries))
			for _, s := range summaries {
				got = append(got, s.BidID)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterSummariesAlwaysCopies(t *testing.T) {
	// The input may be the cached list shared between concurrent requests;
	// sorting one request's result must never reorder another's.
	summaries := summarizeAll(sampleEvent().Bids)
	cached := make([]BidSummary, len(summaries))
	copy(cached, summaries)

	got := filterSummaries(cached, FilterAll)
	sortSummaries(got, SortPriceDesc)

	for i := range cached {
		assert.Equal(t, summaries[i].BidID, cached[i].BidID)
	}
}

func TestFilterBidsCopies(t *testing.T) {
	event := sampleEvent()

	bids := filterBids(event.Bids, FilterAll)
	require.Len(t, bids, 3)

	bids[0].Status = domain.BidSelected
	assert.Equal(t, domain.BidShortlisted, event.Bids[0].Status)
}
