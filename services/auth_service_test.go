package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mindware/taskmaster/models"
)

func TestAuthenticateIssuesValidToken(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	require.NoError(t, teamRepo.Create(context.Background(), &models.Team{Name: "alpha", Code: "1234"}))

	svc := NewAuthService(teamRepo)

	token, err := svc.Authenticate(context.Background(), "alpha", "1234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "alpha_"), "token %q should start with the team name", token)

	team, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alpha", team.Name)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	require.NoError(t, teamRepo.Create(context.Background(), &models.Team{Name: "alpha", Code: "1234"}))

	svc := NewAuthService(teamRepo)

	tests := []struct {
		name     string
		teamName string
		code     string
	}{
		{"wrong code", "alpha", "9999"},
		{"unknown team", "bravo", "1234"},
		{"empty code", "alpha", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tt.teamName, tt.code)
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestAuthenticateTokensAccumulate(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	require.NoError(t, teamRepo.Create(context.Background(), &models.Team{Name: "alpha", Code: "1234"}))

	svc := NewAuthService(teamRepo)

	first, err := svc.Authenticate(context.Background(), "alpha", "1234")
	require.NoError(t, err)
	second, err := svc.Authenticate(context.Background(), "alpha", "1234")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Earlier tokens stay valid: the set only grows.
	_, err = svc.ValidateToken(context.Background(), first)
	assert.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), second)
	assert.NoError(t, err)
}

func TestValidateTokenRejectsMalformedTokens(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	require.NoError(t, teamRepo.Create(context.Background(), &models.Team{Name: "alpha", Code: "1234"}))

	svc := NewAuthService(teamRepo)

	issued, err := svc.Authenticate(context.Background(), "alpha", "1234")
	require.NoError(t, err)
	randomPart := strings.TrimPrefix(issued, "alpha_")

	tests := []struct {
		name  string
		token string
	}{
		{"no separator", "alphaabc123"},
		{"empty", ""},
		{"unknown team", "bravo_" + randomPart},
		{"unissued code", "alpha_not-a-real-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}
