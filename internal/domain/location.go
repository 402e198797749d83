package domain

import "time"

// LocationPing is an append-only location report. "Current location" is the
// most recent ping by LastUpdated.
type LocationPing struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
	// IsActive records whether the reporting client was foregrounded.
	IsActive bool `json:"is_active" db:"is_active"`
}
