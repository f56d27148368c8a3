package lifecycle

import "errors"

var (
	ErrBidNotFound           = errors.New("bid not found on event")
	ErrShortlistFull         = errors.New("maximum 5 vendors can be shortlisted")
	ErrAlreadyShortlisted    = errors.New("bid is already shortlisted")
	ErrNotShortlisted        = errors.New("bid is not shortlisted")
	ErrBidFinalized          = errors.New("bid is already selected or rejected")
	ErrWinnerAlreadySelected = errors.New("a winner has already been selected for this event")
	ErrNoPendingBids         = errors.New("no pending bids to shortlist")
)
