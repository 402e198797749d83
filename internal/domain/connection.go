package domain

import "time"

type ConnectionStatus string

const (
	StatusPending  ConnectionStatus = "PENDING"
	StatusAccepted ConnectionStatus = "ACCEPTED"
	StatusDeclined ConnectionStatus = "DECLINED"
	StatusExpired  ConnectionStatus = "EXPIRED"
)

// Connection is a time-boxed mutual-consent request between two users.
// Rows are stored canonically with User1ID < User2ID; at most one
// non-deleted row exists per unordered pair.
type Connection struct {
	ID          int              `json:"id" db:"id"`
	User1ID     int              `json:"user1_id" db:"user1_id"`
	User2ID     int              `json:"user2_id" db:"user2_id"`
	User1Status ConnectionStatus `json:"user1_status" db:"user1_status"`
	User2Status ConnectionStatus `json:"user2_status" db:"user2_status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	ExpiresAt   *time.Time       `json:"expires_at" db:"expires_at"`
	DeletedAt   *time.Time       `json:"-" db:"deleted_at"`
}

func (c *Connection) HasUser(userID int) bool {
	return c.User1ID == userID || c.User2ID == userID
}

func (c *Connection) OtherUserID(userID int) (int, bool) {
	if c.User1ID == userID {
		return c.User2ID, true
	}
	if c.User2ID == userID {
		return c.User1ID, true
	}
	return 0, false
}

// StatusOf returns the given user's side of the connection.
func (c *Connection) StatusOf(userID int) (ConnectionStatus, bool) {
	if c.User1ID == userID {
		return c.User1Status, true
	}
	if c.User2ID == userID {
		return c.User2Status, true
	}
	return "", false
}

func (c *Connection) IsMutual() bool {
	return c.User1Status == StatusAccepted && c.User2Status == StatusAccepted
}

// IsExpired reports whether the connection has logically expired, even if a
// sweep has not soft-deleted it yet.
func (c *Connection) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// CanonicalPair orders two user IDs so the lower one comes first.
func CanonicalPair(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
