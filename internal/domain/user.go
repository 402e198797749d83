package domain

import "time"

type User struct {
	ID            int       `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	PreferredName *string   `json:"preferred_name" db:"preferred_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) DisplayName() string {
	if u.PreferredName != nil && *u.PreferredName != "" {
		return *u.PreferredName
	}
	return u.FirstName
}
