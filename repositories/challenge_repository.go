package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mindware/taskmaster/models"
)

var ErrChallengeNotFound = errors.New("challenge not found")

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id int) (*models.Challenge, error)

	// CurrentAsOf returns the challenge with the greatest start date that is
	// not after now, or ErrChallengeNotFound if no challenge has started yet.
	CurrentAsOf(ctx context.Context, now time.Time) (*models.Challenge, error)
	ListStartedBefore(ctx context.Context, now time.Time) ([]models.Challenge, error)
	ListAll(ctx context.Context) ([]models.Challenge, error)
	Delete(ctx context.Context, id int) error
}

type postgresChallengeRepository struct {
	db *sql.DB
}

func NewPostgresChallengeRepository(db *sql.DB) ChallengeRepository {
	return &postgresChallengeRepository{db: db}
}

func (r *postgresChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	query := `
		INSERT INTO challenges (title, description, start_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		challenge.Title,
		challenge.Description,
		challenge.StartDate,
	).Scan(&challenge.ID, &challenge.CreatedAt)
}

func (r *postgresChallengeRepository) GetByID(ctx context.Context, id int) (*models.Challenge, error) {
	query := `
		SELECT id, title, description, start_date, created_at
		FROM challenges
		WHERE id = $1`
	return r.scanChallenge(ctx, query, id)
}

func (r *postgresChallengeRepository) CurrentAsOf(ctx context.Context, now time.Time) (*models.Challenge, error) {
	query := `
		SELECT id, title, description, start_date, created_at
		FROM challenges
		WHERE start_date <= $1
		ORDER BY start_date DESC
		LIMIT 1`
	return r.scanChallenge(ctx, query, now)
}

func (r *postgresChallengeRepository) ListStartedBefore(ctx context.Context, now time.Time) ([]models.Challenge, error) {
	query := `
		SELECT id, title, description, start_date, created_at
		FROM challenges
		WHERE start_date <= $1
		ORDER BY start_date DESC`
	return r.listChallenges(ctx, query, now)
}

func (r *postgresChallengeRepository) ListAll(ctx context.Context) ([]models.Challenge, error) {
	query := `
		SELECT id, title, description, start_date, created_at
		FROM challenges
		ORDER BY start_date DESC`
	return r.listChallenges(ctx, query)
}

func (r *postgresChallengeRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM challenges WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrChallengeNotFound)
}

func (r *postgresChallengeRepository) scanChallenge(ctx context.Context, query string, args ...interface{}) (*models.Challenge, error) {
	challenge := &models.Challenge{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&challenge.ID,
		&challenge.Title,
		&challenge.Description,
		&challenge.StartDate,
		&challenge.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return challenge, nil
}

func (r *postgresChallengeRepository) listChallenges(ctx context.Context, query string, args ...interface{}) ([]models.Challenge, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := make([]models.Challenge, 0)
	for rows.Next() {
		var challenge models.Challenge
		scanErr := rows.Scan(
			&challenge.ID,
			&challenge.Title,
			&challenge.Description,
			&challenge.StartDate,
			&challenge.CreatedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		challenges = append(challenges, challenge)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return challenges, nil
}
