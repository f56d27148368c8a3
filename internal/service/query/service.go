package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/eventfold/bids-go/internal/domain"
	"github.com/eventfold/bids-go/internal/pricing"
	"github.com/eventfold/bids-go/internal/repository"
	postgresrepo "github.com/eventfold/bids-go/internal/repository/postgres"
	redisrepo "github.com/eventfold/bids-go/internal/repository/redis"
)

// StatusFilter narrows a bid list to one lifecycle status. The zero
// value ("" or "all") keeps every bid.
type StatusFilter string

const (
	FilterAll         StatusFilter = "all"
	FilterPending     StatusFilter = "pending"
	FilterShortlisted StatusFilter = "shortlisted"
	FilterSelected    StatusFilter = "selected"
	FilterRejected    StatusFilter = "rejected"
)

// SortOrder controls bid list ordering. Price ascending is the default
// everywhere, including the comparison view.
type SortOrder string

const (
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortDateDesc  SortOrder = "date_desc"
	SortDateAsc   SortOrder = "date_asc"
)

type Config struct {
	EventViewTTL    time.Duration
	BidsTTL         time.Duration
	ComparisonTTL   time.Duration
	ComparisonLimit int
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.EventViewTTL <= 0 {
		cfg.EventViewTTL = 60 * time.Second
	}

	if cfg.BidsTTL <= 0 {
		cfg.BidsTTL = 30 * time.Second
	}

	if cfg.ComparisonTTL <= 0 {
		cfg.ComparisonTTL = 30 * time.Second
	}

	if cfg.ComparisonLimit <= 0 {
		cfg.ComparisonLimit = 3
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// GetEvent retrieves the event page view, utilizing a caching layer to
// improve performance.
//
// Returns:
//   - *EventView: the event with its bid summaries and status counts.
//   - error: query.ErrEventNotFound if the event is not found.
func (s *Service) GetEvent(ctx context.Context, eventID string) (*EventView, error) {
	const op = "service.query.GetEvent"

	key := redisrepo.KeyEventSummary(eventID)

	view, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.EventViewTTL,
		func(ctx context.Context) (EventView, error) {
			event, err := s.findEvent(ctx, eventID)
			if err != nil {
				return EventView{}, err
			}

			return buildEventView(event), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &view, nil
}

// ListBids retrieves the event's bid summaries filtered by status and
// sorted by the given order. The unfiltered price-ascending list is
// cached; filter and sort are applied per request.
//
// Returns:
//   - []BidSummary: the matching summaries.
//   - error: query.ErrEventNotFound if the event is not found.
func (s *Service) ListBids(
	ctx context.Context,
	eventID string,
	filter StatusFilter,
	order SortOrder,
) ([]BidSummary, error) {
	const op = "service.query.ListBids"

	summaries, err := s.cachedSummaries(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summaries = filterSummaries(summaries, filter)
	sortSummaries(summaries, order)

	return summaries, nil
}

// GetBid retrieves the drill-down view of one bid: its line items
// normalized and grouped by category, plus any totals drift.
//
// Returns:
//   - *BidDetail: the bid detail.
//   - error: query.ErrEventNotFound if the event is not found.
//   - error: query.ErrBidNotFound if the bid is not on the event.
func (s *Service) GetBid(ctx context.Context, eventID, bidID string) (*BidDetail, error) {
	const op = "service.query.GetBid"

	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	i := event.FindBid(bidID)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrBidNotFound)
	}

	bid := event.Bids[i]
	lowest := pricing.LowestBid(event.Bids)

	detail := &BidDetail{
		BidSummary:     summarize(bid, lowest),
		VendorEmail:    bid.VendorEmail,
		CoverLetter:    bid.CoverLetter,
		Timeline:       bid.Timeline,
		AdvancePayment: bid.AdvancePayment,
		Subtotal:       bid.Subtotal,
		GST:            bid.GST,
		GrandTotal:     bid.GrandTotal,
		Groups:         pricing.Group(pricing.Normalize(bid)),
		Discrepancies:  pricing.CheckTotals(bid),
	}

	return detail, nil
}

// Comparison retrieves the side-by-side table for the event's bids,
// filtered by status and ordered price-ascending. At most limit bids
// are displayed; limit is clamped to the configured maximum.
//
// Returns:
//   - *pricing.Comparison: the comparison table.
//   - error: query.ErrEventNotFound if the event is not found.
//   - error: query.ErrNotEnoughBids if fewer than two bids match.
func (s *Service) Comparison(
	ctx context.Context,
	eventID string,
	filter StatusFilter,
	limit int,
) (*pricing.Comparison, error) {
	const op = "service.query.Comparison"

	if limit <= 0 || limit > s.cfg.ComparisonLimit {
		limit = s.cfg.ComparisonLimit
	}

	// Only the default view is worth caching; filtered variants
	// recompute from the stored event.
	if (filter == "" || filter == FilterAll) && limit == s.cfg.ComparisonLimit {
		key := redisrepo.KeyEventComparison(eventID)

		cmp, err := redisrepo.GetOrSetJSON(
			ctx,
			s.cache,
			key,
			s.cfg.ComparisonTTL,
			func(ctx context.Context) (pricing.Comparison, error) {
				return s.buildComparison(ctx, eventID, filter, limit)
			},
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return &cmp, nil
	}

	cmp, err := s.buildComparison(ctx, eventID, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cmp, nil
}

func (s *Service) buildComparison(
	ctx context.Context,
	eventID string,
	filter StatusFilter,
	limit int,
) (pricing.Comparison, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return pricing.Comparison{}, err
	}

	bids := filterBids(event.Bids, filter)
	if len(bids) < 2 {
		return pricing.Comparison{}, ErrNotEnoughBids
	}

	sort.SliceStable(bids, func(i, j int) bool {
		return pricing.BidTotal(bids[i]) < pricing.BidTotal(bids[j])
	})

	// Position figures are anchored to the event-wide lowest, matching
	// the badges on the bid list.
	lowest := pricing.LowestBid(event.Bids)

	return pricing.BuildComparison(bids, limit, lowest), nil
}

func (s *Service) cachedSummaries(ctx context.Context, eventID string) ([]BidSummary, error) {
	key := redisrepo.KeyEventBids(eventID)

	return redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.BidsTTL,
		func(ctx context.Context) ([]BidSummary, error) {
			event, err := s.findEvent(ctx, eventID)
			if err != nil {
				return nil, err
			}

			summaries := summarizeAll(event.Bids)
			sortSummaries(summaries, SortPriceAsc)

			return summaries, nil
		},
	)
}

func (s *Service) findEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.store.Events().Find(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, err
	}

	return event, nil
}

func buildEventView(event *domain.Event) EventView {
	view := EventView{
		EventID:  event.EventID,
		Brief:    event.Brief,
		Status:   event.Status,
		PostedAt: event.PostedAt,
		Bids:     summarizeAll(event.Bids),
	}

	sortSummaries(view.Bids, SortPriceAsc)

	view.Counts.Total = len(event.Bids)
	for _, b := range event.Bids {
		switch b.Status {
		case domain.BidPending:
			view.Counts.Pending++
		case domain.BidShortlisted:
			view.Counts.Shortlisted++
		case domain.BidSelected:
			view.Counts.Selected++
		case domain.BidRejected:
			view.Counts.Rejected++
		}
	}

	return view
}

func summarizeAll(bids []domain.Bid) []BidSummary {
	lowest := pricing.LowestBid(bids)

	summaries := make([]BidSummary, 0, len(bids))
	for _, b := range bids {
		summaries = append(summaries, summarize(b, lowest))
	}

	return summaries
}

func summarize(bid domain.Bid, lowest float64) BidSummary {
	return BidSummary{
		BidID:              bid.BidID,
		VendorName:         bid.VendorName,
		Status:             bid.Status,
		Total:              pricing.BidTotal(bid),
		IsLowest:           pricing.IsLowest(bid, lowest),
		PercentAboveLowest: pricing.PercentAboveLowest(bid, lowest),
		SubmittedAt:        bid.SubmittedAt,
		Intelligence:       bid.Intelligence,
	}
}

func filterBids(bids []domain.Bid, filter StatusFilter) []domain.Bid {
	if filter == "" || filter == FilterAll {
		out := make([]domain.Bid, len(bids))
		copy(out, bids)
		return out
	}

	out := make([]domain.Bid, 0, len(bids))
	for _, b := range bids {
		if string(b.Status) == string(filter) {
			out = append(out, b)
		}
	}

	return out
}

// filterSummaries always returns a fresh slice, even for the pass-through
// filters: the input may be the cached value shared between concurrent
// requests, and callers sort their result in place.
func filterSummaries(summaries []BidSummary, filter StatusFilter) []BidSummary {
	if filter == "" || filter == FilterAll {
		out := make([]BidSummary, len(summaries))
		copy(out, summaries)
		return out
	}

	out := make([]BidSummary, 0, len(summaries))
	for _, s := range summaries {
		if string(s.Status) == string(filter) {
			out = append(out, s)
		}
	}

	return out
}

func sortSummaries(summaries []BidSummary, order SortOrder) {
	switch order {
	case SortPriceDesc:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].Total > summaries[j].Total
		})
	case SortDateDesc:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].SubmittedAt.After(summaries[j].SubmittedAt)
		})
	case SortDateAsc:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].SubmittedAt.Before(summaries[j].SubmittedAt)
		})
	default:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].Total < summaries[j].Total
		})
	}
}
