package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrBadStatus rejects any response value outside yes/no/maybe. Pending is
// not settable by players; it only appears when a convocation is (re)opened.
var ErrBadStatus = errors.New("status must be yes, no or maybe")

// ConvocationStore persists convocation state. The pgx implementation below
// is the real one; tests use an in-memory fake.
type ConvocationStore interface {
	// Reset opens (or reopens) the convocation for a match: one convocation
	// row per match, all previous responses discarded, one fresh pending row
	// per roster player.
	Reset(ctx context.Context, matchID uuid.UUID, capacity int) (Convocation, error)

	// Upsert records a player's response, inserting or overwriting the single
	// row for that (convocation, player) pair.
	Upsert(ctx context.Context, convocationID, userID uuid.UUID, status string) (ConvocationResponse, error)
}

type Engine struct {
	store ConvocationStore
}

func NewEngine(store ConvocationStore) *Engine {
	return &Engine{store: store}
}

func (e *Engine) OpenConvocation(ctx context.Context, matchID uuid.UUID, capacity int) (Convocation, error) {
	return e.store.Reset(ctx, matchID, capacity)
}

func (e *Engine) RecordResponse(ctx context.Context, convocationID, playerID uuid.UUID, status string) (ConvocationResponse, error) {
	switch status {
	case StatusYes, StatusNo, StatusMaybe:
	default:
		return ConvocationResponse{}, ErrBadStatus
	}
	return e.store.Upsert(ctx, convocationID, playerID, status)
}

/* ===================== PGX STORE ===================== */

type PgConvocationStore struct {
	db *pgxpool.Pool
}

func NewPgConvocationStore(db *pgxpool.Pool) *PgConvocationStore {
	return &PgConvocationStore{db: db}
}

func (s *PgConvocationStore) Reset(ctx context.Context, matchID uuid.UUID, capacity int) (Convocation, error) {
	var cv Convocation

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return cv, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO convocations (match_id, status, capacity, reset_at)
		VALUES ($1, 'open', $2, now())
		ON CONFLICT (match_id) DO UPDATE
			SET status = 'open', capacity = EXCLUDED.capacity, reset_at = now()
		RETURNING id, match_id, status, capacity, reset_at`,
		matchID, capacity,
	).Scan(&cv.ID, &cv.MatchID, &cv.Status, &cv.Capacity, &cv.ResetAt)
	if err != nil {
		return cv, fmt.Errorf("upsert convocation: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM convocation_responses WHERE convocation_id=$1", cv.ID,
	); err != nil {
		return cv, fmt.Errorf("clear responses: %w", err)
	}

	// Every profile is on the roster, admins included.
	if _, err := tx.Exec(ctx, `
		INSERT INTO convocation_responses (convocation_id, user_id, status)
		SELECT $1, id, 'pending' FROM profiles`,
		cv.ID,
	); err != nil {
		return cv, fmt.Errorf("seed pending responses: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return cv, fmt.Errorf("commit: %w", err)
	}
	return cv, nil
}

func (s *PgConvocationStore) Upsert(ctx context.Context, convocationID, userID uuid.UUID, status string) (ConvocationResponse, error) {
	var r ConvocationResponse
	err := s.db.QueryRow(ctx, `
		INSERT INTO convocation_responses (convocation_id, user_id, status, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (convocation_id, user_id) DO UPDATE
			SET status = EXCLUDED.status, updated_at = now()
		RETURNING id, convocation_id, user_id, status, updated_at`,
		convocationID, userID, status,
	).Scan(&r.ID, &r.ConvocationID, &r.UserID, &r.Status, &r.UpdatedAt)
	if err != nil {
		return r, fmt.Errorf("upsert response: %w", err)
	}
	return r, nil
}
