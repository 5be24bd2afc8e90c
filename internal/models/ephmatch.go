package models

import "time"

// EphmatchProfile records whether a user takes part in matching.
type EphmatchProfile struct {
	UserID      string    `db:"user_id" json:"userID"`
	Description string    `db:"description" json:"description"`
	Deleted     bool      `db:"deleted" json:"deleted"`
	CreatedTime time.Time `db:"created_at" json:"createdTime"`
	UpdatedTime time.Time `db:"updated_at" json:"updatedTime"`
}
