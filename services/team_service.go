package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mindware/taskmaster/models"
	"github.com/mindware/taskmaster/repositories"
)

type CreateTeamInput struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
}

func NewTeamService(teamRepo repositories.TeamRepository) TeamService {
	return &teamService{teamRepo: teamRepo}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	// The composite token format splits on '_', so names may not contain it.
	if strings.Contains(name, "_") {
		return nil, ErrTeamNameInvalid
	}
	if input.Code == "" {
		return nil, ErrTeamCodeRequired
	}

	team := &models.Team{
		Name: name,
		Code: input.Code,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}
