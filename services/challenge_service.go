package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mindware/taskmaster/models"
	"github.com/mindware/taskmaster/repositories"
	"github.com/mindware/taskmaster/storage"
)

type CreateChallengeInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
}

type ChallengeService interface {
	CreateChallenge(ctx context.Context, input CreateChallengeInput) (*models.Challenge, error)

	// CurrentChallenge returns the latest challenge whose start date has
	// passed, or ErrNoActiveChallenge.
	CurrentChallenge(ctx context.Context) (*models.Challenge, error)

	// ListStarted returns all challenges that have started, newest first.
	// Future challenges are never visible through this listing.
	ListStarted(ctx context.Context) ([]models.Challenge, error)

	// ListAll returns every challenge regardless of start date (admin view).
	ListAll(ctx context.Context) ([]models.Challenge, error)

	// DeleteChallenge removes the challenge, its submission records and
	// their backing files. File deletion is best-effort.
	DeleteChallenge(ctx context.Context, id int) error
}

type challengeService struct {
	challengeRepo  repositories.ChallengeRepository
	submissionRepo repositories.SubmissionRepository
	blobs          storage.BlobStore
	logger         *slog.Logger
}

func NewChallengeService(
	challengeRepo repositories.ChallengeRepository,
	submissionRepo repositories.SubmissionRepository,
	blobs storage.BlobStore,
	logger *slog.Logger,
) ChallengeService {
	return &challengeService{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		blobs:          blobs,
		logger:         logger,
	}
}

func (s *challengeService) CreateChallenge(ctx context.Context, input CreateChallengeInput) (*models.Challenge, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrChallengeTitleRequired
	}

	challenge := &models.Challenge{
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
	}

	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	return challenge, nil
}

func (s *challengeService) CurrentChallenge(ctx context.Context) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.CurrentAsOf(ctx, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, ErrNoActiveChallenge
		}
		return nil, fmt.Errorf("failed to resolve current challenge: %w", err)
	}
	return challenge, nil
}

func (s *challengeService) ListStarted(ctx context.Context) ([]models.Challenge, error) {
	challenges, err := s.challengeRepo.ListStartedBefore(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list started challenges: %w", err)
	}
	return challenges, nil
}

func (s *challengeService) ListAll(ctx context.Context) ([]models.Challenge, error) {
	challenges, err := s.challengeRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}

func (s *challengeService) DeleteChallenge(ctx context.Context, id int) error {
	challenge, err := s.challengeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("failed to look up challenge %d: %w", id, err)
	}

	submissions, err := s.submissionRepo.ListByChallenge(ctx, challenge.ID)
	if err != nil {
		return fmt.Errorf("failed to list submissions for challenge %d: %w", challenge.ID, err)
	}

	failed := deleteSubmissions(ctx, s.blobs, s.submissionRepo, s.logger, submissions)
	if len(failed) > 0 {
		s.logger.Warn("challenge deleted with files left behind",
			slog.Int("challenge_id", challenge.ID),
			slog.Any("files", failed))
	}

	if err := s.challengeRepo.Delete(ctx, challenge.ID); err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("failed to delete challenge %d: %w", challenge.ID, err)
	}

	return nil
}
