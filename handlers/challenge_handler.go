package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mindware/taskmaster/services"
)

type ChallengeHandler struct {
	challengeService services.ChallengeService
}

func NewChallengeHandler(cs services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs}
}

func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateChallengeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	challenge, err := h.challengeService.CreateChallenge(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenge": challenge}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListStarted is the public listing: only challenges whose start date has
// passed, newest first.
func (h *ChallengeHandler) ListStarted(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challengeService.ListStarted(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenges": challenges}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChallengeHandler) Current(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.challengeService.CurrentChallenge(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenge": challenge}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChallengeHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challengeService.ListAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenges": challenges}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChallengeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	challengeID, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.challengeService.DeleteChallenge(r.Context(), challengeID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return 0, errors.New("missing " + param + " in URL path")
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("invalid " + param + " format")
	}
	if id <= 0 {
		return 0, errors.New("invalid " + param + " value")
	}

	return id, nil
}
