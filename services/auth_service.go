package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mindware/taskmaster/models"
	"github.com/mindware/taskmaster/repositories"
)

// AuthService issues and validates team bearer tokens.
//
// A composite token is "<teamName>_<random>". The random part is a UUID
// appended to the team's stored token set; tokens never expire and are never
// revoked, the set only grows. Team names therefore must not contain '_'
// (enforced by TeamService at creation), or splitting would be ambiguous.
type AuthService interface {
	// Authenticate checks the team's shared code and, on success, mints and
	// persists a new token, returning the composite token string.
	Authenticate(ctx context.Context, teamName, code string) (string, error)

	// ValidateToken resolves a composite token back to its team. Any
	// malformed, unknown or unissued token fails with ErrForbidden.
	ValidateToken(ctx context.Context, token string) (*models.Team, error)
}

type authService struct {
	teamRepo repositories.TeamRepository
}

func NewAuthService(teamRepo repositories.TeamRepository) AuthService {
	return &authService{teamRepo: teamRepo}
}

func (s *authService) Authenticate(ctx context.Context, teamName, code string) (string, error) {
	team, err := s.teamRepo.GetByName(ctx, teamName)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return "", ErrForbidden
		}
		return "", fmt.Errorf("failed to look up team %q: %w", teamName, err)
	}

	if team.Code != code {
		return "", ErrForbidden
	}

	token := uuid.NewString()
	if err := s.teamRepo.AppendToken(ctx, team.ID, token); err != nil {
		return "", fmt.Errorf("failed to persist token for team %d: %w", team.ID, err)
	}

	return team.Name + "_" + token, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*models.Team, error) {
	teamName, code, found := strings.Cut(token, "_")
	if !found {
		return nil, ErrForbidden
	}

	team, err := s.teamRepo.GetByName(ctx, teamName)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to look up team %q: %w", teamName, err)
	}

	ok, err := s.teamRepo.HasToken(ctx, team.ID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check token for team %d: %w", team.ID, err)
	}
	if !ok {
		return nil, ErrForbidden
	}

	return team, nil
}
