package pricing

import (
	"github.com/eventfold/bids-go/internal/domain"
)

// CategoryTotal sums the stored line totals of a group. It deliberately does
// not recompute quantity×unitPrice; LineTotal is authoritative (see
// CheckTotals for the drift flagging pass).
func CategoryTotal(items []domain.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.LineTotal
	}
	return sum
}

// BidTotal returns the comparable total of a bid regardless of pricing
// shape: the itemized grand total when present, otherwise the legacy flat
// total.
func BidTotal(bid domain.Bid) float64 {
	if bid.GrandTotal != 0 {
		return bid.GrandTotal
	}
	return bid.Total
}

// LowestBid returns the minimum BidTotal across bids, or 0 for an empty
// slice — an event with no bids is not an error.
func LowestBid(bids []domain.Bid) float64 {
	if len(bids) == 0 {
		return 0
	}

	lowest := BidTotal(bids[0])
	for _, b := range bids[1:] {
		if t := BidTotal(b); t < lowest {
			lowest = t
		}
	}

	return lowest
}

// PercentAboveLowest returns how far a bid sits above the lowest total, in
// percent. A non-positive lowest yields 0 rather than dividing by zero.
func PercentAboveLowest(bid domain.Bid, lowest float64) float64 {
	if lowest <= 0 {
		return 0
	}
	return (BidTotal(bid) - lowest) / lowest * 100
}

// IsLowest reports whether the bid's total equals the lowest. Both values
// derive from BidTotal, so exact equality is intended and ties all flag as
// lowest.
func IsLowest(bid domain.Bid, lowest float64) bool {
	return BidTotal(bid) == lowest
}
