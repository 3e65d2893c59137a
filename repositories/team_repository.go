package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mindware/taskmaster/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByName(ctx context.Context, name string) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)

	// AppendToken adds an issued authentication token to the team's set.
	// The set is insert-only, so concurrent appends cannot lose updates.
	AppendToken(ctx context.Context, teamID int, token string) error
	HasToken(ctx context.Context, teamID int, token string) (bool, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, code)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, team.Name, team.Code).
		Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if pqErr.Constraint == "teams_name_key" {
				return ErrTeamNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, code, created_at
		FROM teams
		WHERE id = $1`
	return r.scanTeam(ctx, query, id)
}

func (r *postgresTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `
		SELECT id, name, code, created_at
		FROM teams
		WHERE name = $1`
	return r.scanTeam(ctx, query, name)
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `
		SELECT id, name, code, created_at
		FROM teams
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Code, &team.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *postgresTeamRepository) AppendToken(ctx context.Context, teamID int, token string) error {
	query := `INSERT INTO team_tokens (team_id, token) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, teamID, token)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrTeamNotFound
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) HasToken(ctx context.Context, teamID int, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM team_tokens WHERE team_id = $1 AND token = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, teamID, token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresTeamRepository) scanTeam(ctx context.Context, query string, args ...interface{}) (*models.Team, error) {
	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&team.ID,
		&team.Name,
		&team.Code,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}
