package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type locationRepository struct {
	db *sqlx.DB
}

func NewLocationRepository(db *sqlx.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, ping *domain.LocationPing) error {
	query := `
		INSERT INTO user_locations (user_id, latitude, longitude, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, last_updated
	`
	return r.db.QueryRowContext(ctx, query,
		ping.UserID, ping.Latitude, ping.Longitude, ping.IsActive,
	).Scan(&ping.ID, &ping.LastUpdated)
}

func (r *locationRepository) GetLatestByUser(ctx context.Context, userID int) (*domain.LocationPing, error) {
	var ping domain.LocationPing
	query := `
		SELECT * FROM user_locations
		WHERE user_id = $1
		ORDER BY last_updated DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &ping, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ping, nil
}

func (r *locationRepository) LatestActive(ctx context.Context, excludeUserID int) ([]domain.LocationPing, error) {
	var pings []domain.LocationPing
	// DISTINCT ON picks the newest ping per user; the activity filter applies
	// to that newest ping, not to any older active one.
	query := `
		SELECT * FROM (
			SELECT DISTINCT ON (user_id) *
			FROM user_locations
			WHERE user_id != $1
			ORDER BY user_id, last_updated DESC
		) latest
		WHERE latest.is_active
	`
	err := r.db.SelectContext(ctx, &pings, query, excludeUserID)
	return pings, err
}
