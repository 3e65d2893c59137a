package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mindware/taskmaster/services"
)

type SubmissionHandler struct {
	submissionService services.SubmissionService
	archiveService    services.ArchiveService
}

func NewSubmissionHandler(ss services.SubmissionService, as services.ArchiveService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: ss,
		archiveService:    as,
	}
}

// Submit accepts a multipart upload with a "token" field and a "file" part
// and runs it through the admission workflow.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	_, err = h.submissionService.Submit(r.Context(), token, file, contentType, header.Filename)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DownloadArchive streams a zip of all surviving submission files for a
// challenge. A challenge without submissions yields 204.
func (h *SubmissionHandler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	challengeID, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	archive, err := h.archiveService.BuildChallengeArchive(r.Context(), challengeID)
	if err != nil {
		if errors.Is(err, services.ErrNoSubmissions) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	defer archive.Content.Close()

	w.Header().Set("Content-Disposition", "attachment; filename="+archive.FileName)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(archive.Size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, archive.Content); err != nil {
		// Headers are out already; nothing left to do but log.
		slog.Error("failed to stream archive",
			slog.String("archive", archive.FileName),
			slog.Any("error", err))
	}
}

func (h *SubmissionHandler) CountTeamSubmissions(w http.ResponseWriter, r *http.Request) {
	challengeID, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	count, err := h.submissionService.CountTeamSubmissions(r.Context(), challengeID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, count, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SubmissionHandler) DeleteTeamSubmissions(w http.ResponseWriter, r *http.Request) {
	challengeID, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.submissionService.DeleteTeamSubmissions(r.Context(), challengeID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
