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
	ErrParticipantNotFound = errors.New("tournament participant not found")
	// ErrParticipantConflict means the (tournament, team) pair already has a
	// participant; the unique index is the race-safety authority here.
	ErrParticipantConflict = errors.New("team is already a participant of this tournament")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.TournamentTeamParticipant) error
	GetByID(ctx context.Context, id int) (*models.TournamentTeamParticipant, error)
	GetByTournamentAndTeam(ctx context.Context, tournamentID, teamID int) (*models.TournamentTeamParticipant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentTeamParticipant, error)
	Delete(ctx context.Context, id int) error
	// ListTournamentIDsByRosterUser returns tournaments the user currently
	// appears in on any roster. Derived, not stored.
	ListTournamentIDsByRosterUser(ctx context.Context, userID int) ([]int, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.TournamentTeamParticipant) error {
	query := `
		INSERT INTO tournament_team_participants (tournament_id, team_id, team_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		p.TournamentID,
		p.TeamID,
		p.TeamName,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "tournament_team_participants_tournament_id_team_id_key" {
				return ErrParticipantConflict
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) scanParticipant(rowScanner interface {
	Scan(dest ...interface{}) error
}, p *models.TournamentTeamParticipant) error {
	return rowScanner.Scan(&p.ID, &p.TournamentID, &p.TeamID, &p.TeamName, &p.CreatedAt)
}

func (r *postgresParticipantRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.TournamentTeamParticipant, error) {
	p := &models.TournamentTeamParticipant{}
	err := r.scanParticipant(r.db.QueryRowContext(ctx, query, args...), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.TournamentTeamParticipant, error) {
	query := `SELECT id, tournament_id, team_id, team_name, created_at FROM tournament_team_participants WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresParticipantRepository) GetByTournamentAndTeam(ctx context.Context, tournamentID, teamID int) (*models.TournamentTeamParticipant, error) {
	query := `SELECT id, tournament_id, team_id, team_name, created_at FROM tournament_team_participants WHERE tournament_id = $1 AND team_id = $2`
	return r.findOne(ctx, query, tournamentID, teamID)
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentTeamParticipant, error) {
	query := `
		SELECT id, tournament_id, team_id, team_name, created_at
		FROM tournament_team_participants
		WHERE tournament_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.TournamentTeamParticipant, 0)
	for rows.Next() {
		var p models.TournamentTeamParticipant
		if err := r.scanParticipant(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tournament_team_participants WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) ListTournamentIDsByRosterUser(ctx context.Context, userID int) ([]int, error) {
	query := `
		SELECT DISTINCT p.tournament_id
		FROM tournament_team_roster_entries re
		JOIN tournament_team_participants p ON p.id = re.participant_id
		WHERE re.user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster tournaments for user %d: %w", userID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tournament id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster tournament rows: %w", err)
	}
	return ids, nil
}
