package models

import "time"

// Submission is one uploaded media file tied to exactly one team and one
// challenge. FileName addresses the backing blob; record and blob are created
// and deleted together.
type Submission struct {
	ID          int       `json:"id" db:"id"`
	FileName    string    `json:"file_name" db:"file_name"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
	TeamID      int       `json:"team_id" db:"team_id"`
	ChallengeID int       `json:"challenge_id" db:"challenge_id"`

	Team      *Team      `json:"team,omitempty" db:"-"`
	Challenge *Challenge `json:"challenge,omitempty" db:"-"`
}
