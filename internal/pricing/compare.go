package pricing

import (
	"sort"

	"github.com/eventfold/bids-go/internal/domain"
)

// ComparisonColumn is one bid's header cell plus its TOTAL-row figures.
type ComparisonColumn struct {
	BidID              string           `json:"bidId"`
	VendorName         string           `json:"vendorName"`
	Status             domain.BidStatus `json:"status"`
	Total              float64          `json:"total"`
	IsLowest           bool             `json:"isLowest"`
	PercentAboveLowest float64          `json:"percentAboveLowest"`
}

// ComparisonCell is one bid's subtotal for one category row. Present
// distinguishes "no line items in this category" from "priced at zero";
// renderers show a placeholder for absent cells, not 0.
type ComparisonCell struct {
	Present bool    `json:"present"`
	Total   float64 `json:"total"`
}

// ComparisonRow is one category row across the displayed bids.
type ComparisonRow struct {
	Category Category         `json:"category"`
	Cells    []ComparisonCell `json:"cells"`
}

// Comparison is the side-by-side table: a TOTAL row (the columns) followed
// by one row per category present in any displayed bid.
type Comparison struct {
	Columns []ComparisonColumn `json:"columns"`
	Rows    []ComparisonRow    `json:"rows"`
}

// BuildComparison assembles the table from the first limit bids in the order
// the caller supplied — sorting and the ≥2-bids precondition are the
// caller's responsibility. lowest is the event-wide lowest total, so the
// price-position figures stay consistent with the list view even when the
// cheapest bid is filtered out or falls beyond the display limit. Category
// rows cover the union of categories across the displayed bids, sorted by
// name.
func BuildComparison(bids []domain.Bid, limit int, lowest float64) Comparison {
	if limit > 0 && len(bids) > limit {
		bids = bids[:limit]
	}

	cmp := Comparison{Columns: make([]ComparisonColumn, 0, len(bids))}
	for _, bid := range bids {
		cmp.Columns = append(cmp.Columns, ComparisonColumn{
			BidID:              bid.BidID,
			VendorName:         bid.VendorName,
			Status:             bid.Status,
			Total:              BidTotal(bid),
			IsLowest:           IsLowest(bid, lowest),
			PercentAboveLowest: PercentAboveLowest(bid, lowest),
		})
	}

	perBid := make([]map[Category]float64, len(bids))
	union := make(map[Category]bool)
	for i, bid := range bids {
		perBid[i] = make(map[Category]float64)
		for _, g := range Group(Normalize(bid)) {
			perBid[i][g.Category] = CategoryTotal(g.Items)
			union[g.Category] = true
		}
	}

	cats := make([]Category, 0, len(union))
	for c := range union {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	for _, cat := range cats {
		row := ComparisonRow{Category: cat, Cells: make([]ComparisonCell, len(bids))}
		for i := range bids {
			if total, ok := perBid[i][cat]; ok {
				row.Cells[i] = ComparisonCell{Present: true, Total: total}
			}
		}
		cmp.Rows = append(cmp.Rows, row)
	}

	return cmp
}
