package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventfold/bids-go/internal/domain"
	"github.com/eventfold/bids-go/internal/repository"
)

// EventRepo persists Events as whole jsonb records: find and save only, no
// field-level updates. Lifecycle transitions therefore always rewrite the
// full bids array, which keeps each user action atomic.
type EventRepo struct {
	pool *pgxpool.Pool
	db   DB
}

// With returns a copy of the repo bound to the given transaction handle.
func (r *EventRepo) With(db DB) *EventRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *EventRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// EnsureSchema creates the events table if it is missing. The whole-record
// model needs exactly one table, so there is no migration tooling.
func (r *EventRepo) EnsureSchema(ctx context.Context) error {
	const op = "postgres.EventRepo.EnsureSchema"

	_, err := r.handle().Exec(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			id         TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Find loads one whole Event.
//
// Returns:
//   - repository.ErrNotFound if the row is missing, or if the stored payload
//     no longer parses — a malformed record is logged and then treated as
//     absent so callers never see a half-parsed Event.
func (r *EventRepo) Find(ctx context.Context, eventID string) (*domain.Event, error) {
	const op = "postgres.EventRepo.Find"

	var payload []byte
	err := r.handle().
		QueryRow(ctx, `SELECT payload FROM events WHERE id = $1`, eventID).
		Scan(&payload)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	var event domain.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		slog.Error("malformed event payload",
			"event_id", eventID,
			"error", err,
		)
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return &event, nil
}

// Save overwrites the whole Event record. Last write wins; there is no
// concurrency token (single acting client per event).
func (r *EventRepo) Save(ctx context.Context, event *domain.Event) error {
	const op = "postgres.EventRepo.Save"

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	_, err = r.handle().Exec(ctx, `
		INSERT INTO events (id, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET payload = $2, updated_at = $3`,
		event.EventID, payload, time.Now().UTC())
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}
