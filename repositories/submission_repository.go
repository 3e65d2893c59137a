package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mindware/taskmaster/models"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	ListByChallenge(ctx context.Context, challengeID int) ([]models.Submission, error)
	ListByTeamAndChallenge(ctx context.Context, teamID, challengeID int) ([]models.Submission, error)
	CountByTeamAndChallenge(ctx context.Context, teamID, challengeID int) (int64, error)
	Delete(ctx context.Context, id int) error

	// ListFileNames returns the file names of every stored submission,
	// used to detect orphaned blobs.
	ListFileNames(ctx context.Context) ([]string, error)
}

type postgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &postgresSubmissionRepository{db: db}
}

func (r *postgresSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (file_name, uploaded_at, team_id, challenge_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		submission.FileName,
		submission.UploadedAt,
		submission.TeamID,
		submission.ChallengeID,
	).Scan(&submission.ID)
}

func (r *postgresSubmissionRepository) ListByChallenge(ctx context.Context, challengeID int) ([]models.Submission, error) {
	query := `
		SELECT id, file_name, uploaded_at, team_id, challenge_id
		FROM submissions
		WHERE challenge_id = $1
		ORDER BY uploaded_at ASC`
	return r.listSubmissions(ctx, query, challengeID)
}

func (r *postgresSubmissionRepository) ListByTeamAndChallenge(ctx context.Context, teamID, challengeID int) ([]models.Submission, error) {
	query := `
		SELECT id, file_name, uploaded_at, team_id, challenge_id
		FROM submissions
		WHERE team_id = $1 AND challenge_id = $2
		ORDER BY uploaded_at ASC`
	return r.listSubmissions(ctx, query, teamID, challengeID)
}

func (r *postgresSubmissionRepository) CountByTeamAndChallenge(ctx context.Context, teamID, challengeID int) (int64, error) {
	query := `SELECT COUNT(*) FROM submissions WHERE team_id = $1 AND challenge_id = $2`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, teamID, challengeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresSubmissionRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM submissions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSubmissionNotFound)
}

func (r *postgresSubmissionRepository) ListFileNames(ctx context.Context) ([]string, error) {
	query := `SELECT file_name FROM submissions`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return names, nil
}

func (r *postgresSubmissionRepository) listSubmissions(ctx context.Context, query string, args ...interface{}) ([]models.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := make([]models.Submission, 0)
	for rows.Next() {
		var submission models.Submission
		scanErr := rows.Scan(
			&submission.ID,
			&submission.FileName,
			&submission.UploadedAt,
			&submission.TeamID,
			&submission.ChallengeID,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		submissions = append(submissions, submission)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}
