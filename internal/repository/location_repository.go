package repository

import (
	"context"

	"github.com/campuslink24/campuslink-backend/internal/domain"
)

type LocationRepository interface {
	// Create appends a new ping; pings are never updated in place.
	Create(ctx context.Context, ping *domain.LocationPing) error
	GetLatestByUser(ctx context.Context, userID int) (*domain.LocationPing, error)
	// LatestActive returns the most recent active ping per user, excluding
	// the given user.
	LatestActive(ctx context.Context, excludeUserID int) ([]domain.LocationPing, error)
}
