package domain

import (
	"time"
)

type BidStatus string

const (
	BidPending     BidStatus = "pending"
	BidShortlisted BidStatus = "shortlisted"
	BidSelected    BidStatus = "selected"
	BidRejected    BidStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions in the
// normal client flow.
func (s BidStatus) Terminal() bool {
	return s == BidSelected || s == BidRejected
}

type EventStatus string

const (
	EventOpen           EventStatus = "open"
	EventWinnerSelected EventStatus = "winner_selected"
	EventCompleted      EventStatus = "completed"
)

// LineItem is one priced unit of work inside a bid. LineTotal is stored
// independently of Quantity×UnitPrice and is treated as authoritative.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
	Notes       string  `json:"notes,omitempty"`
}

// CompetitiveIntelligence is attached to a bid when automatic shortlisting
// ranks it against the other shortlisted bids.
type CompetitiveIntelligence struct {
	Position          int     `json:"position"`
	PremiumPercentage float64 `json:"premiumPercentage"`
	LowestBidAmount   float64 `json:"lowestBidAmount"`
	TotalShortlisted  int     `json:"totalShortlisted"`
	Message           string  `json:"message"`
}

// Bid is one vendor's offer against one event. Pricing arrives in exactly one
// of two historical shapes: the legacy per-category map (Pricing plus a flat
// Total) or the itemized form (ItemizedPricing with Subtotal/GST/GrandTotal).
// Downstream code never branches on the shape; pricing.Normalize collapses
// both into a []LineItem.
type Bid struct {
	BidID       string `json:"bidId"`
	VendorID    string `json:"vendorId"`
	VendorName  string `json:"vendorName"`
	VendorEmail string `json:"vendorEmail"`

	// Legacy shape.
	Pricing LegacyPricing `json:"pricing,omitempty"`
	Total   float64       `json:"total,omitempty"`

	// Itemized shape.
	ItemizedPricing []LineItem `json:"itemizedPricing,omitempty"`
	Subtotal        float64    `json:"subtotal,omitempty"`
	GST             float64    `json:"gst,omitempty"`
	GrandTotal      float64    `json:"grandTotal,omitempty"`

	CoverLetter    string  `json:"coverLetter,omitempty"`
	Timeline       string  `json:"timeline,omitempty"`
	AdvancePayment float64 `json:"advancePayment,omitempty"`

	Status        BidStatus  `json:"status"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	ShortlistedAt *time.Time `json:"shortlistedAt,omitempty"`
	SelectedAt    *time.Time `json:"selectedAt,omitempty"`
	RejectedAt    *time.Time `json:"rejectedAt,omitempty"`

	Intelligence *CompetitiveIntelligence `json:"competitiveIntelligence,omitempty"`
}

// EventBrief is the client's intake summary. It is produced by the intake
// flow and only read here.
type EventBrief struct {
	EventType   string `json:"eventType"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	GuestCount  int    `json:"guestCount"`
	VenueStatus string `json:"venueStatus"`
}

// Event is the aggregate root and the unit of persistence. Bids are never
// deleted; every mutation derives a new Bids slice and writes the whole
// Event back.
type Event struct {
	EventID  string      `json:"eventId"`
	Brief    EventBrief  `json:"brief"`
	Status   EventStatus `json:"status"`
	PostedAt time.Time   `json:"postedAt"`
	Bids     []Bid       `json:"bids"`
}

// FindBid returns the index of the bid with the given ID, or -1.
func (e *Event) FindBid(bidID string) int {
	for i := range e.Bids {
		if e.Bids[i].BidID == bidID {
			return i
		}
	}
	return -1
}
