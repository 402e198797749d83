package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type connectionRepository struct {
	db *sqlx.DB
}

func NewConnectionRepository(db *sqlx.DB) repository.ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	// Ensure user1_id < user2_id for the partial unique index
	user1ID, user2ID := domain.CanonicalPair(conn.User1ID, conn.User2ID)

	query := `
		INSERT INTO connections (user1_id, user2_id, user1_status, user2_status, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user1ID, user2ID, conn.User1Status, conn.User2Status, conn.ExpiresAt,
	).Scan(&conn.ID, &conn.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return &repository.DuplicatePairError{User1ID: user1ID, User2ID: user2ID}
		}
		return err
	}

	conn.User1ID = user1ID
	conn.User2ID = user2ID
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id int) (*domain.Connection, error) {
	var conn domain.Connection
	query := `SELECT * FROM connections WHERE id = $1 AND deleted_at IS NULL`
	err := r.db.GetContext(ctx, &conn, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) GetActiveByUsers(ctx context.Context, userA, userB int, now time.Time) (*domain.Connection, error) {
	user1ID, user2ID := domain.CanonicalPair(userA, userB)

	var conn domain.Connection
	query := `
		SELECT * FROM connections
		WHERE user1_id = $1 AND user2_id = $2
		  AND deleted_at IS NULL
		  AND (expires_at IS NULL OR expires_at > $3)
	`
	err := r.db.GetContext(ctx, &conn, query, user1ID, user2ID, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) UpdateLocked(ctx context.Context, id int, apply func(*domain.Connection) error) (*domain.Connection, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var conn domain.Connection
	query := `SELECT * FROM connections WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	if err := tx.GetContext(ctx, &conn, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, err
	}

	if err := apply(&conn); err != nil {
		return nil, err
	}

	update := `
		UPDATE connections
		SET user1_status = $1, user2_status = $2, expires_at = $3, deleted_at = $4
		WHERE id = $5
	`
	if _, err := tx.ExecContext(ctx, update,
		conn.User1Status, conn.User2Status, conn.ExpiresAt, conn.DeletedAt, conn.ID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE connections
		SET deleted_at = $1
		WHERE deleted_at IS NULL
		  AND expires_at IS NOT NULL
		  AND expires_at < $1
		  AND NOT (user1_status = 'ACCEPTED' AND user2_status = 'ACCEPTED')
	`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *connectionRepository) ListPendingFor(ctx context.Context, userID int, now time.Time) ([]*domain.Connection, error) {
	var conns []*domain.Connection
	query := `
		SELECT * FROM connections
		WHERE deleted_at IS NULL
		  AND (expires_at IS NULL OR expires_at > $2)
		  AND ((user1_id = $1 AND user1_status = 'PENDING')
		    OR (user2_id = $1 AND user2_status = 'PENDING'))
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &conns, query, userID, now)
	return conns, err
}

func (r *connectionRepository) ListMutualFor(ctx context.Context, userID int) ([]*domain.Connection, error) {
	var conns []*domain.Connection
	query := `
		SELECT * FROM connections
		WHERE deleted_at IS NULL
		  AND (user1_id = $1 OR user2_id = $1)
		  AND user1_status = 'ACCEPTED' AND user2_status = 'ACCEPTED'
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &conns, query, userID)
	return conns, err
}
