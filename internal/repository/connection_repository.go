package repository

import (
	"context"
	"time"

	"github.com/campuslink24/campuslink-backend/internal/domain"
)

// DuplicatePairError is returned by Create when a non-deleted row for the
// canonical pair already exists. Callers treat it as a signal to re-fetch,
// not as a failure.
type DuplicatePairError struct {
	User1ID int
	User2ID int
}

func (e *DuplicatePairError) Error() string {
	return "active connection already exists for pair"
}

type ConnectionRepository interface {
	// Create inserts a new row for the canonical pair. A uniqueness
	// violation surfaces as *DuplicatePairError.
	Create(ctx context.Context, conn *domain.Connection) error
	GetByID(ctx context.Context, id int) (*domain.Connection, error)
	// GetActiveByUsers accepts the pair in either order and excludes
	// soft-deleted and expired rows.
	GetActiveByUsers(ctx context.Context, userA, userB int, now time.Time) (*domain.Connection, error)
	// UpdateLocked runs apply on the row under a row-level lock and persists
	// the mutated statuses, expiry and soft-delete flag.
	UpdateLocked(ctx context.Context, id int, apply func(*domain.Connection) error) (*domain.Connection, error)
	// SweepExpired soft-deletes all past-expiry non-mutual rows and returns
	// the number affected.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
	ListPendingFor(ctx context.Context, userID int, now time.Time) ([]*domain.Connection, error)
	ListMutualFor(ctx context.Context, userID int) ([]*domain.Connection, error)
}
