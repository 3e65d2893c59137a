package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mindware/taskmaster/models"
	"github.com/mindware/taskmaster/repositories"
	"github.com/mindware/taskmaster/storage"
	"golang.org/x/sync/errgroup"
)

const sweepConcurrency = 8

type SubmissionCount struct {
	TeamID      int   `json:"team_id"`
	ChallengeID int   `json:"challenge_id"`
	Count       int64 `json:"count"`
}

type SubmissionService interface {
	// Submit runs the admission workflow: validate the token, resolve the
	// current challenge, check the declared media type, store the file and
	// persist the record. The blob is written before the record; a failed
	// write creates no record.
	Submit(ctx context.Context, token string, file io.Reader, contentType, originalName string) (*models.Submission, error)

	// DeleteTeamSubmissions removes all submissions (files and records) a
	// team made for a challenge. Team and challenge records survive.
	DeleteTeamSubmissions(ctx context.Context, challengeID, teamID int) error

	CountTeamSubmissions(ctx context.Context, challengeID, teamID int) (*SubmissionCount, error)

	// SweepOrphans deletes blobs that no submission record references.
	// Admission writes the file before the record, so a crash in between
	// can leave such blobs behind.
	SweepOrphans(ctx context.Context) error
}

type submissionService struct {
	auth           AuthService
	challengeRepo  repositories.ChallengeRepository
	teamRepo       repositories.TeamRepository
	submissionRepo repositories.SubmissionRepository
	blobs          storage.BlobStore
	logger         *slog.Logger
}

func NewSubmissionService(
	auth AuthService,
	challengeRepo repositories.ChallengeRepository,
	teamRepo repositories.TeamRepository,
	submissionRepo repositories.SubmissionRepository,
	blobs storage.BlobStore,
	logger *slog.Logger,
) SubmissionService {
	return &submissionService{
		auth:           auth,
		challengeRepo:  challengeRepo,
		teamRepo:       teamRepo,
		submissionRepo: submissionRepo,
		blobs:          blobs,
		logger:         logger,
	}
}

func (s *submissionService) Submit(ctx context.Context, token string, file io.Reader, contentType, originalName string) (*models.Submission, error) {
	team, err := s.auth.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	challenge, err := s.challengeRepo.CurrentAsOf(ctx, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, ErrNoActiveChallenge
		}
		return nil, fmt.Errorf("failed to resolve current challenge: %w", err)
	}

	// Trusts the declared type; file contents are not sniffed.
	if !isAllowedMediaType(contentType) {
		return nil, ErrUnsupportedMediaType
	}

	fileName := fmt.Sprintf("%s_%d_%s%s", team.Name, challenge.ID, uuid.NewString(), filepath.Ext(originalName))

	if err := s.blobs.Save(ctx, fileName, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to store submission file: %w", err)
	}

	submission := &models.Submission{
		FileName:    fileName,
		UploadedAt:  time.Now().UTC(),
		TeamID:      team.ID,
		ChallengeID: challenge.ID,
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		// Unwind the blob so the store does not accumulate orphans.
		if delErr := s.blobs.Delete(ctx, fileName); delErr != nil && !errors.Is(delErr, storage.ErrNotExist) {
			s.logger.Warn("failed to remove file after record insert failure",
				slog.String("file_name", fileName),
				slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to persist submission: %w", err)
	}

	return submission, nil
}

func (s *submissionService) DeleteTeamSubmissions(ctx context.Context, challengeID, teamID int) error {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to look up team %d: %w", teamID, err)
	}
	if _, err := s.challengeRepo.GetByID(ctx, challengeID); err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("failed to look up challenge %d: %w", challengeID, err)
	}

	submissions, err := s.submissionRepo.ListByTeamAndChallenge(ctx, teamID, challengeID)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	failed := deleteSubmissions(ctx, s.blobs, s.submissionRepo, s.logger, submissions)
	if len(failed) > 0 {
		s.logger.Warn("submissions deleted with files left behind",
			slog.Int("challenge_id", challengeID),
			slog.Int("team_id", teamID),
			slog.Any("files", failed))
	}

	return nil
}

func (s *submissionService) CountTeamSubmissions(ctx context.Context, challengeID, teamID int) (*SubmissionCount, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to look up team %d: %w", teamID, err)
	}
	if _, err := s.challengeRepo.GetByID(ctx, challengeID); err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to look up challenge %d: %w", challengeID, err)
	}

	count, err := s.submissionRepo.CountByTeamAndChallenge(ctx, teamID, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	return &SubmissionCount{
		TeamID:      teamID,
		ChallengeID: challengeID,
		Count:       count,
	}, nil
}

func (s *submissionService) SweepOrphans(ctx context.Context) error {
	referenced, err := s.submissionRepo.ListFileNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list submission file names: %w", err)
	}
	stored, err := s.blobs.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored blobs: %w", err)
	}

	known := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		known[name] = struct{}{}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	var removed int
	for _, name := range stored {
		if _, ok := known[name]; ok {
			continue
		}
		removed++
		name := name
		g.Go(func() error {
			err := s.blobs.Delete(gCtx, name)
			if err != nil && !errors.Is(err, storage.ErrNotExist) {
				// Sweeping is best-effort; log and move on.
				s.logger.Warn("failed to delete orphaned blob",
					slog.String("file_name", name),
					slog.Any("error", err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if removed > 0 {
		s.logger.Info("orphaned blobs swept", slog.Int("count", removed))
	}
	return nil
}

func isAllowedMediaType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}
