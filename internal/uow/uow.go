package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/eventfold/bids-go/internal/repository/postgres"
)

// AfterCommit runs once the surrounding transaction has committed.
// Cache invalidation and pub/sub notifications go here so they never
// fire for a rolled-back transition.
type AfterCommit func(ctx context.Context)

// UoW represents a unit of work over the event store.
type UoW struct {
	store *postgres.Store
}

func NewUoW(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside a transaction. After a successful commit,
// it executes all registered after-commit hooks in order.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts runs fn inside a transaction with the given options. After a
// successful commit, it executes all registered after-commit hooks in order.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgres.DB) error {
		return fn(ctx, tx, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
