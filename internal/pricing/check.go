package pricing

import (
	"fmt"
	"math"

	"github.com/eventfold/bids-go/internal/domain"
)

// GSTRate is the tax rate itemized bids are quoted with.
const GSTRate = 0.18

// Rupee-level tolerance; stored totals are whole-currency amounts.
const driftTolerance = 1.0

// Discrepancy flags one stored total that disagrees with what its
// constituents imply. The aggregator keeps trusting the stored value; this
// pass only reports, it never fixes.
type Discrepancy struct {
	Field    string  `json:"field"`
	Stored   float64 `json:"stored"`
	Computed float64 `json:"computed"`
	Detail   string  `json:"detail"`
}

// CheckTotals audits an itemized bid's stored totals: each LineTotal against
// quantity×unitPrice, Subtotal against the line-total sum, and GrandTotal
// against Subtotal+GST at GSTRate. Legacy bids have nothing to cross-check
// and always pass.
func CheckTotals(bid domain.Bid) []Discrepancy {
	if len(bid.ItemizedPricing) == 0 {
		return nil
	}

	var out []Discrepancy

	var lineSum float64
	for _, item := range bid.ItemizedPricing {
		lineSum += item.LineTotal

		computed := item.Quantity * item.UnitPrice
		if math.Abs(item.LineTotal-computed) > driftTolerance {
			out = append(out, Discrepancy{
				Field:    fmt.Sprintf("itemizedPricing.%s.lineTotal", item.ID),
				Stored:   item.LineTotal,
				Computed: computed,
				Detail:   "lineTotal differs from quantity × unitPrice",
			})
		}
	}

	if bid.Subtotal != 0 && math.Abs(bid.Subtotal-lineSum) > driftTolerance {
		out = append(out, Discrepancy{
			Field:    "subtotal",
			Stored:   bid.Subtotal,
			Computed: lineSum,
			Detail:   "subtotal differs from sum of line totals",
		})
	}

	if bid.GrandTotal != 0 {
		computed := bid.Subtotal + bid.Subtotal*GSTRate
		if bid.GST != 0 {
			computed = bid.Subtotal + bid.GST
		}
		if math.Abs(bid.GrandTotal-computed) > driftTolerance {
			out = append(out, Discrepancy{
				Field:    "grandTotal",
				Stored:   bid.GrandTotal,
				Computed: computed,
				Detail:   "grandTotal differs from subtotal plus GST",
			})
		}
	}

	return out
}
