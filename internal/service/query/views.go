package query

import (
	"time"

	"github.com/eventfold/bids-go/internal/domain"
	"github.com/eventfold/bids-go/internal/pricing"
)

// BidSummary is the list-row projection of a bid: identity, status and
// the pre-computed price position against the other bids on the event.
type BidSummary struct {
	BidID              string                          `json:"bidId"`
	VendorName         string                          `json:"vendorName"`
	Status             domain.BidStatus                `json:"status"`
	Total              float64                         `json:"total"`
	IsLowest           bool                            `json:"isLowest"`
	PercentAboveLowest float64                         `json:"percentAboveLowest"`
	SubmittedAt        time.Time                       `json:"submittedAt"`
	Intelligence       *domain.CompetitiveIntelligence `json:"competitiveIntelligence,omitempty"`
}

// BidCounts breaks the event's bids down by lifecycle status.
type BidCounts struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Shortlisted int `json:"shortlisted"`
	Selected    int `json:"selected"`
	Rejected    int `json:"rejected"`
}

// EventView is the event page payload: the brief plus every bid summary.
type EventView struct {
	EventID  string             `json:"eventId"`
	Brief    domain.EventBrief  `json:"brief"`
	Status   domain.EventStatus `json:"status"`
	PostedAt time.Time          `json:"postedAt"`
	Counts   BidCounts          `json:"counts"`
	Bids     []BidSummary       `json:"bids"`
}

// BidDetail is the drill-down payload for a single bid: its normalized
// line items grouped by category, the stored totals, and any drift the
// totals check found.
type BidDetail struct {
	BidSummary

	VendorEmail    string  `json:"vendorEmail,omitempty"`
	CoverLetter    string  `json:"coverLetter,omitempty"`
	Timeline       string  `json:"timeline,omitempty"`
	AdvancePayment float64 `json:"advancePayment,omitempty"`

	Subtotal   float64 `json:"subtotal,omitempty"`
	GST        float64 `json:"gst,omitempty"`
	GrandTotal float64 `json:"grandTotal,omitempty"`

	Groups        []pricing.CategoryGroup `json:"groups"`
	Discrepancies []pricing.Discrepancy   `json:"discrepancies,omitempty"`
}
