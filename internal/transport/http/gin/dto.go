package httpgin

type RejectBidRequest struct {
	// Confirm must be true; rejecting is a two-step action in the UI.
	Confirm bool `json:"confirm" binding:"required"`
}

type SelectWinnerRequest struct {
	BidID   string `json:"bid_id" binding:"required"`
	Confirm bool   `json:"confirm" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type BidStatusResponse struct {
	EventID string `json:"event_id"`
	BidID   string `json:"bid_id"`
	Status  string `json:"status"`
}

type SelectWinnerResponse struct {
	EventID     string `json:"event_id"`
	WinnerBidID string `json:"winner_bid_id"`
	EventStatus string `json:"event_status"`
}

type AutoShortlistResponse struct {
	EventID     string `json:"event_id"`
	Shortlisted int    `json:"shortlisted"`
	Rejected    int    `json:"rejected"`
}
