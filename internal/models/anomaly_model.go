package models

import "time"

// StatusAnomaly records a post whose saved status did not persist: an
// automation on the store side changed it after the write.
type StatusAnomaly struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	PostID         string    `db:"post_id" json:"post_id"`
	ExpectedStatus string    `db:"expected_status" json:"expected_status"`
	ObservedStatus string    `db:"observed_status" json:"observed_status"`
	DetectedAt     time.Time `db:"detected_at" json:"detected_at"`
}

// StatusCheck is the deferred verification scheduled after a status save.
type StatusCheck struct {
	UserID   int64  `json:"user_id"`
	PostID   string `json:"post_id"`
	Expected string `json:"expected"`
}
