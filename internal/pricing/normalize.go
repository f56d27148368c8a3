// Package pricing is the read-side of the bid evaluation engine: it collapses
// the two historical bid pricing shapes into one canonical line-item list and
// derives category groupings, totals and cross-bid comparison data from it.
// Everything in this package is a pure function over already-loaded bids.
package pricing

import (
	"fmt"

	"github.com/eventfold/bids-go/internal/domain"
)

// Normalize converts a bid's pricing into the canonical line-item list.
//
// Itemized bids pass through unchanged, which makes normalization
// idempotent. Legacy bids synthesize one line item per pricing entry, in
// entry order. A bid with neither shape normalizes to an empty list rather
// than an error.
func Normalize(bid domain.Bid) []domain.LineItem {
	if len(bid.ItemizedPricing) > 0 {
		return bid.ItemizedPricing
	}

	items := make([]domain.LineItem, 0, len(bid.Pricing))
	for _, entry := range bid.Pricing {
		desc := entry.Notes
		if desc == "" {
			desc = entry.Category
		}

		items = append(items, domain.LineItem{
			ID:          fmt.Sprintf("%s_1", entry.Category),
			Description: desc,
			Quantity:    1,
			Unit:        "service",
			UnitPrice:   entry.Amount,
			LineTotal:   entry.Amount,
			Notes:       entry.Notes,
		})
	}

	return items
}
