package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	// Authentication and authorization
	ErrForbidden = errors.New("forbidden")

	// Not found
	ErrTeamNotFound      = errors.New("team not found")
	ErrChallengeNotFound = errors.New("challenge not found")

	// Validation and business rules
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrTeamNameInvalid        = errors.New("team name must not contain underscores")
	ErrTeamCodeRequired       = errors.New("team code is required")
	ErrChallengeTitleRequired = errors.New("challenge title is required")
	ErrUnsupportedMediaType   = errors.New("only image and video files are allowed")

	// Conflicts
	ErrTeamNameConflict = errors.New("team name is already in use")

	// Server state
	ErrNoActiveChallenge = errors.New("no challenge is currently active")
	ErrNoSubmissions     = errors.New("challenge has no submissions")
)
