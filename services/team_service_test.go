package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeamValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateTeamInput
		wantErr error
	}{
		{"valid", CreateTeamInput{Name: "alpha", Code: "1234"}, nil},
		{"empty name", CreateTeamInput{Name: "", Code: "1234"}, ErrTeamNameRequired},
		{"whitespace name", CreateTeamInput{Name: "   ", Code: "1234"}, ErrTeamNameRequired},
		{"underscore in name", CreateTeamInput{Name: "team_a", Code: "1234"}, ErrTeamNameInvalid},
		{"empty code", CreateTeamInput{Name: "alpha", Code: ""}, ErrTeamCodeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTeamService(newFakeTeamRepo())
			team, err := svc.CreateTeam(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, team)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Name, team.Name)
			assert.NotZero(t, team.ID)
		})
	}
}

func TestCreateTeamRejectsDuplicateName(t *testing.T) {
	svc := NewTeamService(newFakeTeamRepo())

	_, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "alpha", Code: "1234"})
	require.NoError(t, err)

	_, err = svc.CreateTeam(context.Background(), CreateTeamInput{Name: "alpha", Code: "5678"})
	assert.ErrorIs(t, err, ErrTeamNameConflict)
}

func TestListTeams(t *testing.T) {
	svc := NewTeamService(newFakeTeamRepo())

	_, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "bravo", Code: "2"})
	require.NoError(t, err)
	_, err = svc.CreateTeam(context.Background(), CreateTeamInput{Name: "alpha", Code: "1"})
	require.NoError(t, err)

	teams, err := svc.ListTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "alpha", teams[0].Name)
	assert.Equal(t, "bravo", teams[1].Name)
}
