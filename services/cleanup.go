package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mindware/taskmaster/models"
	"github.com/mindware/taskmaster/repositories"
	"github.com/mindware/taskmaster/storage"
)

// deleteSubmissions removes each submission's blob and then its record.
// Cleanup is best-effort: a missing blob is fine, a failing one is logged and
// skipped so the rest of the batch still goes away. The names of blobs that
// could not be removed are returned so the caller can report them once.
func deleteSubmissions(
	ctx context.Context,
	blobs storage.BlobStore,
	submissionRepo repositories.SubmissionRepository,
	logger *slog.Logger,
	submissions []models.Submission,
) []string {
	var failed []string

	for _, submission := range submissions {
		err := blobs.Delete(ctx, submission.FileName)
		if err != nil && !errors.Is(err, storage.ErrNotExist) {
			logger.Warn("failed to delete submission file",
				slog.String("file_name", submission.FileName),
				slog.Any("error", err))
			failed = append(failed, submission.FileName)
		}

		err = submissionRepo.Delete(ctx, submission.ID)
		if err != nil && !errors.Is(err, repositories.ErrSubmissionNotFound) {
			logger.Error("failed to delete submission record",
				slog.Int("submission_id", submission.ID),
				slog.Any("error", err))
		}
	}

	return failed
}
