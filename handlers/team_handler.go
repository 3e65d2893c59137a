package handlers

import (
	"net/http"

	"github.com/mindware/taskmaster/services"
)

type TeamHandler struct {
	teamService services.TeamService
	authService services.AuthService
}

func NewTeamHandler(ts services.TeamService, as services.AuthService) *TeamHandler {
	return &TeamHandler{
		teamService: ts,
		authService: as,
	}
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type authenticateRequest struct {
	TeamName string `json:"team_name"`
	Code     string `json:"code"`
}

func (h *TeamHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var input authenticateRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	token, err := h.authService.Authenticate(r.Context(), input.TeamName, input.Code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
