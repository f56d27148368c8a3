package query

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")
	ErrBidNotFound   = errors.New("bid not found")
	ErrNotEnoughBids = errors.New("at least two bids are required for comparison")
)
