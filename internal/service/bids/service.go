package bids

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventfold/bids-go/internal/domain"
	"github.com/eventfold/bids-go/internal/lifecycle"
	"github.com/eventfold/bids-go/internal/repository"
	postgresrepo "github.com/eventfold/bids-go/internal/repository/postgres"
	redisrepo "github.com/eventfold/bids-go/internal/repository/redis"
	"github.com/eventfold/bids-go/internal/uow"
)

type Config struct {
	ShortlistLimit int
}

// Service applies bid lifecycle transitions to stored events. Every
// mutation loads the event inside a transaction, runs the pure
// transition, and writes the whole record back, so concurrent clients
// always see a consistent shortlist.
type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisrepo.BidsPubSub
	uow    *uow.UoW
	cfg    Config
	now    func() time.Time
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.BidsPubSub,
	cfg Config,
) *Service {
	if cfg.ShortlistLimit <= 0 {
		cfg.ShortlistLimit = lifecycle.DefaultShortlistLimit
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Shortlist marks the given bid as shortlisted.
//
// Returns:
//   - error: bids.ErrEventNotFound if the event does not exist.
//   - error: lifecycle.ErrBidNotFound, lifecycle.ErrShortlistFull,
//     lifecycle.ErrAlreadyShortlisted or lifecycle.ErrBidFinalized if
//     the transition is not allowed.
func (s *Service) Shortlist(ctx context.Context, eventID, bidID string) (*domain.Event, error) {
	const op = "service.bids.Shortlist"

	return s.transition(ctx, op, eventID, func(e domain.Event) (domain.Event, error) {
		return lifecycle.Shortlist(e, bidID, s.cfg.ShortlistLimit, s.now())
	})
}

// Unshortlist returns a shortlisted bid to pending.
func (s *Service) Unshortlist(ctx context.Context, eventID, bidID string) (*domain.Event, error) {
	const op = "service.bids.Unshortlist"

	return s.transition(ctx, op, eventID, func(e domain.Event) (domain.Event, error) {
		return lifecycle.Unshortlist(e, bidID)
	})
}

// Reject marks the given bid as rejected.
func (s *Service) Reject(ctx context.Context, eventID, bidID string) (*domain.Event, error) {
	const op = "service.bids.Reject"

	return s.transition(ctx, op, eventID, func(e domain.Event) (domain.Event, error) {
		return lifecycle.Reject(e, bidID, s.now())
	})
}

// SelectWinner selects the given shortlisted bid as the event's winner,
// rejects every other non-terminal bid and closes the event.
//
// Returns:
//   - error: bids.ErrEventNotFound if the event does not exist.
//   - error: lifecycle.ErrNotShortlisted if the bid is not shortlisted.
//   - error: lifecycle.ErrWinnerAlreadySelected if a winner exists.
func (s *Service) SelectWinner(ctx context.Context, eventID, bidID string) (*domain.Event, error) {
	const op = "service.bids.SelectWinner"

	return s.transition(ctx, op, eventID, func(e domain.Event) (domain.Event, error) {
		return lifecycle.SelectWinner(e, bidID, s.now())
	})
}

// AutoShortlist fills the remaining shortlist slots with the
// lowest-priced pending bids and rejects the rest, attaching ranking
// intelligence to each shortlisted bid.
func (s *Service) AutoShortlist(ctx context.Context, eventID string) (*domain.Event, error) {
	const op = "service.bids.AutoShortlist"

	return s.transition(ctx, op, eventID, func(e domain.Event) (domain.Event, error) {
		return lifecycle.AutoShortlist(e, s.cfg.ShortlistLimit, s.now())
	})
}

func (s *Service) transition(
	ctx context.Context,
	op string,
	eventID string,
	apply func(domain.Event) (domain.Event, error),
) (*domain.Event, error) {
	var result *domain.Event

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		event, err := s.store.Events().With(tx).Find(ctx, eventID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrEventNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		next, err := apply(*event)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Events().With(tx).Save(ctx, &next); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		result = &next

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateEvent(ctx, eventID)
			_ = s.pubsub.PublishBidsChanged(ctx, eventID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
