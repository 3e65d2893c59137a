package models

import "time"

// Challenge is a timed task. The "current" challenge is the one with the
// greatest start date that is not in the future.
type Challenge struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
