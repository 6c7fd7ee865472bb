package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/lib/pq"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListMemberIDs(ctx context.Context, teamID int) ([]int, error)
	ListMembers(ctx context.Context, teamID int) ([]*models.User, error)
	// MemberIDSet returns the subset of userIDs that are members of the team.
	MemberIDSet(ctx context.Context, exec SQLExecutor, teamID int, userIDs []int) (map[int]bool, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, ngb_id, name, city, logo_key, created_at FROM teams WHERE id = $1`
	t := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.NGBID, &t.Name, &t.City, &t.LogoKey, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) ListMemberIDs(ctx context.Context, teamID int) ([]int, error) {
	query := `SELECT user_id FROM team_members WHERE team_id = $1`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team member ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team member id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team member rows: %w", err)
	}
	return ids, nil
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]*models.User, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.avatar_key, u.created_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY u.last_name, u.first_name`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := make([]*models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.AvatarKey, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", err)
		}
		members = append(members, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team member rows: %w", err)
	}
	return members, nil
}

func (r *postgresTeamRepository) MemberIDSet(ctx context.Context, exec SQLExecutor, teamID int, userIDs []int) (map[int]bool, error) {
	set := make(map[int]bool, len(userIDs))
	if len(userIDs) == 0 {
		return set, nil
	}
	query := `SELECT user_id FROM team_members WHERE team_id = $1 AND user_id = ANY($2)`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, teamID, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query team membership: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		set[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}
	return set, nil
}
