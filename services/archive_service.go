package services

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mindware/taskmaster/models"
	"github.com/mindware/taskmaster/repositories"
	"github.com/mindware/taskmaster/storage"
)

// Archive is a completed submissions archive ready to be streamed out.
// Content must be closed by the caller; closing also removes the temp file
// backing it.
type Archive struct {
	FileName string
	Size     int64
	Content  io.ReadCloser
}

type ArchiveService interface {
	// BuildChallengeArchive zips every submission of the challenge whose
	// backing file still exists. Missing files are skipped, never an error.
	// Fails with ErrChallengeNotFound for an unknown id and ErrNoSubmissions
	// when the challenge has no submission records at all.
	BuildChallengeArchive(ctx context.Context, challengeID int) (*Archive, error)
}

type archiveService struct {
	challengeRepo  repositories.ChallengeRepository
	submissionRepo repositories.SubmissionRepository
	blobs          storage.BlobStore
	logger         *slog.Logger
}

func NewArchiveService(
	challengeRepo repositories.ChallengeRepository,
	submissionRepo repositories.SubmissionRepository,
	blobs storage.BlobStore,
	logger *slog.Logger,
) ArchiveService {
	return &archiveService{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		blobs:          blobs,
		logger:         logger,
	}
}

func (s *archiveService) BuildChallengeArchive(ctx context.Context, challengeID int) (*Archive, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to look up challenge %d: %w", challengeID, err)
	}

	submissions, err := s.submissionRepo.ListByChallenge(ctx, challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for challenge %d: %w", challenge.ID, err)
	}
	if len(submissions) == 0 {
		return nil, ErrNoSubmissions
	}

	tmp, err := os.CreateTemp("", fmt.Sprintf("submissions_%d_*.zip", challenge.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}

	if err := s.writeEntries(ctx, tmp, submissions); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}

	size, err := tmp.Seek(0, io.SeekEnd)
	if err == nil {
		_, err = tmp.Seek(0, io.SeekStart)
	}
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return &Archive{
		FileName: fmt.Sprintf("submissions_challenge_%d.zip", challenge.ID),
		Size:     size,
		Content:  &tempFileReader{file: tmp},
	}, nil
}

func (s *archiveService) writeEntries(ctx context.Context, w io.Writer, submissions []models.Submission) error {
	zw := zip.NewWriter(w)

	for _, submission := range submissions {
		blob, err := s.blobs.Open(ctx, submission.FileName)
		if err != nil {
			if errors.Is(err, storage.ErrNotExist) {
				// Deleted underneath us; the archive just has fewer entries.
				continue
			}
			s.logger.Warn("failed to open submission file for archiving",
				slog.String("file_name", submission.FileName),
				slog.Any("error", err))
			continue
		}

		entry, err := zw.Create(submission.FileName)
		if err != nil {
			blob.Close()
			return fmt.Errorf("failed to create archive entry %q: %w", submission.FileName, err)
		}
		if _, err := io.Copy(entry, blob); err != nil {
			blob.Close()
			return fmt.Errorf("failed to write archive entry %q: %w", submission.FileName, err)
		}
		blob.Close()
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// tempFileReader removes the underlying temp file on Close.
type tempFileReader struct {
	file *os.File
}

func (r *tempFileReader) Read(p []byte) (int, error) {
	return r.file.Read(p)
}

func (r *tempFileReader) Close() error {
	err := r.file.Close()
	if removeErr := os.Remove(r.file.Name()); removeErr != nil && err == nil {
		err = removeErr
	}
	return err
}
