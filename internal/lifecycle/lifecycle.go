// Package lifecycle implements the bid status state machine as pure
// transformations over a whole Event. Callers load an Event, apply one
// transition, and persist the returned value; on any guard failure the input
// is returned unchanged alongside a sentinel error, so a refused transition
// can never leak a partial write.
package lifecycle

import (
	"sort"
	"time"

	"github.com/eventfold/bids-go/internal/domain"
	"github.com/eventfold/bids-go/internal/pricing"
)

// DefaultShortlistLimit caps how many bids a client can keep under active
// consideration at once.
const DefaultShortlistLimit = 5

// ShortlistedCount returns how many bids are currently shortlisted.
func ShortlistedCount(e domain.Event) int {
	n := 0
	for i := range e.Bids {
		if e.Bids[i].Status == domain.BidShortlisted {
			n++
		}
	}
	return n
}

// HasWinner reports whether any bid has been selected.
func HasWinner(e domain.Event) bool {
	return Winner(e) != nil
}

// Winner returns the selected bid, if any.
func Winner(e domain.Event) *domain.Bid {
	for i := range e.Bids {
		if e.Bids[i].Status == domain.BidSelected {
			return &e.Bids[i]
		}
	}
	return nil
}

// Shortlist moves a pending bid to shortlisted, stamping ShortlistedAt.
// The cap guard fails closed: nothing is mutated and the Event comes back
// as-is with ErrShortlistFull.
func Shortlist(e domain.Event, bidID string, limit int, now time.Time) (domain.Event, error) {
	if limit <= 0 {
		limit = DefaultShortlistLimit
	}

	i := e.FindBid(bidID)
	if i < 0 {
		return e, ErrBidNotFound
	}

	bid := e.Bids[i]
	if bid.Status == domain.BidShortlisted {
		return e, ErrAlreadyShortlisted
	}
	if bid.Status.Terminal() {
		return e, ErrBidFinalized
	}

	if ShortlistedCount(e) >= limit {
		return e, ErrShortlistFull
	}

	return withBid(e, i, func(b *domain.Bid) {
		b.Status = domain.BidShortlisted
		b.ShortlistedAt = &now
	}), nil
}

// Unshortlist returns a shortlisted bid to pending, clearing ShortlistedAt
// and any attached ranking intelligence.
func Unshortlist(e domain.Event, bidID string) (domain.Event, error) {
	i := e.FindBid(bidID)
	if i < 0 {
		return e, ErrBidNotFound
	}
	if e.Bids[i].Status != domain.BidShortlisted {
		return e, ErrNotShortlisted
	}

	return withBid(e, i, func(b *domain.Bid) {
		b.Status = domain.BidPending
		b.ShortlistedAt = nil
		// Ranking intelligence described the shortlist this bid just left.
		b.Intelligence = nil
	}), nil
}

// Reject moves any non-terminal bid to rejected. The two-step user
// confirmation happens at the transport layer; by the time Reject runs the
// action is confirmed.
func Reject(e domain.Event, bidID string, now time.Time) (domain.Event, error) {
	i := e.FindBid(bidID)
	if i < 0 {
		return e, ErrBidNotFound
	}
	if e.Bids[i].Status.Terminal() {
		return e, ErrBidFinalized
	}

	return withBid(e, i, func(b *domain.Bid) {
		b.Status = domain.BidRejected
		b.RejectedAt = &now
	}), nil
}

// SelectWinner marks one shortlisted bid selected and, in the same value,
// force-rejects every other non-terminal bid and flips the event to
// winner_selected: winner-take-all in a single write. Bids that were already
// rejected are left as they are.
func SelectWinner(e domain.Event, bidID string, now time.Time) (domain.Event, error) {
	i := e.FindBid(bidID)
	if i < 0 {
		return e, ErrBidNotFound
	}
	if HasWinner(e) {
		return e, ErrWinnerAlreadySelected
	}
	if e.Bids[i].Status != domain.BidShortlisted {
		return e, ErrNotShortlisted
	}

	out := e
	out.Bids = make([]domain.Bid, len(e.Bids))
	copy(out.Bids, e.Bids)

	for j := range out.Bids {
		if j == i {
			out.Bids[j].Status = domain.BidSelected
			out.Bids[j].SelectedAt = &now
			continue
		}
		// Bids already rejected keep their original timestamps.
		if out.Bids[j].Status.Terminal() {
			continue
		}
		out.Bids[j].Status = domain.BidRejected
		out.Bids[j].RejectedAt = &now
	}

	out.Status = domain.EventWinnerSelected
	return out, nil
}

// AutoShortlist shortlists the limit lowest-priced pending bids, rejects the
// rest, and attaches competitive intelligence (rank, premium over the lowest)
// to each shortlisted bid. Bids already shortlisted, selected or rejected are
// left alone.
func AutoShortlist(e domain.Event, limit int, now time.Time) (domain.Event, error) {
	if limit <= 0 {
		limit = DefaultShortlistLimit
	}
	if HasWinner(e) {
		return e, ErrWinnerAlreadySelected
	}

	var pendingIdx []int
	for i := range e.Bids {
		if e.Bids[i].Status == domain.BidPending {
			pendingIdx = append(pendingIdx, i)
		}
	}
	if len(pendingIdx) == 0 {
		return e, ErrNoPendingBids
	}

	sort.SliceStable(pendingIdx, func(a, b int) bool {
		return pricing.BidTotal(e.Bids[pendingIdx[a]]) < pricing.BidTotal(e.Bids[pendingIdx[b]])
	})

	room := limit - ShortlistedCount(e)
	if room <= 0 {
		return e, ErrShortlistFull
	}
	if room > len(pendingIdx) {
		room = len(pendingIdx)
	}

	// The vendor message describes the whole shortlist, including bids the
	// client shortlisted by hand before this run.
	totalShortlisted := ShortlistedCount(e) + room

	out := e
	out.Bids = make([]domain.Bid, len(e.Bids))
	copy(out.Bids, e.Bids)

	lowest := pricing.BidTotal(out.Bids[pendingIdx[0]])
	for rank, i := range pendingIdx[:room] {
		premium := pricing.PercentAboveLowest(out.Bids[i], lowest)
		premium = float64(int(premium*10+0.5)) / 10 // 1-decimal rounding, as shown to vendors

		out.Bids[i].Status = domain.BidShortlisted
		out.Bids[i].ShortlistedAt = &now
		out.Bids[i].Intelligence = &domain.CompetitiveIntelligence{
			Position:          rank + 1,
			PremiumPercentage: premium,
			LowestBidAmount:   lowest,
			TotalShortlisted:  totalShortlisted,
			Message:           intelligenceMessage(rank+1, premium),
		}
	}

	for _, i := range pendingIdx[room:] {
		out.Bids[i].Status = domain.BidRejected
		out.Bids[i].RejectedAt = &now
	}

	return out, nil
}

func withBid(e domain.Event, i int, mutate func(*domain.Bid)) domain.Event {
	out := e
	out.Bids = make([]domain.Bid, len(e.Bids))
	copy(out.Bids, e.Bids)
	mutate(&out.Bids[i])
	return out
}
