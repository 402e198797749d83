package repository

import (
	"context"
	"time"
)

// Session is a refresh session stored out-of-band from the access token.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionRepository interface {
	Store(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
