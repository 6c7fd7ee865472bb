package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrManagerRelationNotFound = errors.New("manager relation not found")
	ErrManagerUserInvalid      = errors.New("manager user conflict or invalid")
)

type TournamentManagerRepository interface {
	// Add is idempotent: inserting an existing relation is a no-op.
	Add(ctx context.Context, exec SQLExecutor, tm *models.TournamentManager) error
	Remove(ctx context.Context, tournamentID, userID int) error
	List(ctx context.Context, tournamentID int) ([]*models.TournamentManager, error)
	Count(ctx context.Context, tournamentID int) (int, error)
	IsManager(ctx context.Context, tournamentID, userID int) (bool, error)
	ListManagedTournamentIDs(ctx context.Context, userID int) ([]int, error)
}

type TeamManagerRepository interface {
	Add(ctx context.Context, exec SQLExecutor, tm *models.TeamManager) error
	Remove(ctx context.Context, teamID, userID int) error
	List(ctx context.Context, teamID int) ([]*models.TeamManager, error)
	IsManager(ctx context.Context, teamID, userID int) (bool, error)
	ListManagedTeamIDs(ctx context.Context, userID int) ([]int, error)
}

type postgresTournamentManagerRepository struct {
	db *sql.DB
}

func NewPostgresTournamentManagerRepository(db *sql.DB) TournamentManagerRepository {
	return &postgresTournamentManagerRepository{db: db}
}

func (r *postgresTournamentManagerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentManagerRepository) Add(ctx context.Context, exec SQLExecutor, tm *models.TournamentManager) error {
	query := `
		INSERT INTO tournament_managers (tournament_id, user_id, added_by_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (tournament_id, user_id) DO NOTHING`

	_, err := r.getExecutor(exec).ExecContext(ctx, query, tm.TournamentID, tm.UserID, tm.AddedByID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "tournament_managers_user_id_fkey" {
				return ErrManagerUserInvalid
			}
		}
		return fmt.Errorf("failed to add tournament manager: %w", err)
	}
	return nil
}

func (r *postgresTournamentManagerRepository) Remove(ctx context.Context, tournamentID, userID int) error {
	query := `DELETE FROM tournament_managers WHERE tournament_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, tournamentID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove tournament manager: %w", err)
	}
	return checkAffectedRows(result, ErrManagerRelationNotFound)
}

func (r *postgresTournamentManagerRepository) List(ctx context.Context, tournamentID int) ([]*models.TournamentManager, error) {
	query := `
		SELECT tm.id, tm.tournament_id, tm.user_id, tm.added_by_id, tm.created_at,
		       u.id, u.first_name, u.last_name, u.email, u.created_at
		FROM tournament_managers tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.tournament_id = $1
		ORDER BY tm.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament managers: %w", err)
	}
	defer rows.Close()

	managers := make([]*models.TournamentManager, 0)
	for rows.Next() {
		var tm models.TournamentManager
		var u models.User
		if err := rows.Scan(
			&tm.ID, &tm.TournamentID, &tm.UserID, &tm.AddedByID, &tm.CreatedAt,
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tournament manager row: %w", err)
		}
		tm.User = &u
		managers = append(managers, &tm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament manager rows: %w", err)
	}
	return managers, nil
}

func (r *postgresTournamentManagerRepository) Count(ctx context.Context, tournamentID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tournament_managers WHERE tournament_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournament managers: %w", err)
	}
	return count, nil
}

func (r *postgresTournamentManagerRepository) IsManager(ctx context.Context, tournamentID, userID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tournament_managers WHERE tournament_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tournamentID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check tournament manager: %w", err)
	}
	return exists, nil
}

func (r *postgresTournamentManagerRepository) ListManagedTournamentIDs(ctx context.Context, userID int) ([]int, error) {
	query := `SELECT tournament_id FROM tournament_managers WHERE user_id = $1`
	return scanIntList(ctx, r.db, query, userID, "managed tournament ids")
}

type postgresTeamManagerRepository struct {
	db *sql.DB
}

func NewPostgresTeamManagerRepository(db *sql.DB) TeamManagerRepository {
	return &postgresTeamManagerRepository{db: db}
}

func (r *postgresTeamManagerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamManagerRepository) Add(ctx context.Context, exec SQLExecutor, tm *models.TeamManager) error {
	query := `
		INSERT INTO team_managers (team_id, user_id, added_by_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING`

	_, err := r.getExecutor(exec).ExecContext(ctx, query, tm.TeamID, tm.UserID, tm.AddedByID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "team_managers_user_id_fkey" {
				return ErrManagerUserInvalid
			}
		}
		return fmt.Errorf("failed to add team manager: %w", err)
	}
	return nil
}

func (r *postgresTeamManagerRepository) Remove(ctx context.Context, teamID, userID int) error {
	query := `DELETE FROM team_managers WHERE team_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove team manager: %w", err)
	}
	return checkAffectedRows(result, ErrManagerRelationNotFound)
}

func (r *postgresTeamManagerRepository) List(ctx context.Context, teamID int) ([]*models.TeamManager, error) {
	query := `
		SELECT tm.id, tm.team_id, tm.user_id, tm.added_by_id, tm.created_at,
		       u.id, u.first_name, u.last_name, u.email, u.created_at
		FROM team_managers tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team managers: %w", err)
	}
	defer rows.Close()

	managers := make([]*models.TeamManager, 0)
	for rows.Next() {
		var tm models.TeamManager
		var u models.User
		if err := rows.Scan(
			&tm.ID, &tm.TeamID, &tm.UserID, &tm.AddedByID, &tm.CreatedAt,
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team manager row: %w", err)
		}
		tm.User = &u
		managers = append(managers, &tm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team manager rows: %w", err)
	}
	return managers, nil
}

func (r *postgresTeamManagerRepository) IsManager(ctx context.Context, teamID, userID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM team_managers WHERE team_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check team manager: %w", err)
	}
	return exists, nil
}

func (r *postgresTeamManagerRepository) ListManagedTeamIDs(ctx context.Context, userID int) ([]int, error) {
	query := `SELECT team_id FROM team_managers WHERE user_id = $1`
	return scanIntList(ctx, r.db, query, userID, "managed team ids")
}

func scanIntList(ctx context.Context, db *sql.DB, query string, arg interface{}, what string) ([]int, error) {
	rows, err := db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", what, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", what, err)
	}
	return ids, nil
}
