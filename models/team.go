package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"-" db:"code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
