package models

import "time"

// User is a marketing team member signed in through Google.
type User struct {
	ID          int64     `db:"id" json:"id"`
	GoogleID    string    `db:"google_id" json:"google_id"`
	Email       string    `db:"email" json:"email"`
	Name        string    `db:"name" json:"name"`
	Picture     string    `db:"picture" json:"picture"`
	LastLoginAt time.Time `db:"last_login_at" json:"last_login_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
