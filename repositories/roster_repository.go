package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrRosterEntryNotFound   = errors.New("roster entry not found")
	ErrRosterJerseyConflict  = errors.New("jersey number already taken in this roster")
	ErrRosterUserInvalid     = errors.New("roster user conflict or invalid")
	ErrRosterNumberViolation = errors.New("player roster entries require a jersey number")
)

type RosterRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, entries []*models.TournamentTeamRosterEntry) error
	DeleteByParticipantID(ctx context.Context, exec SQLExecutor, participantID int) error
	ListByParticipantID(ctx context.Context, participantID int) ([]*models.TournamentTeamRosterEntry, error)
	ListByParticipantIDs(ctx context.Context, participantIDs []int) (map[int][]*models.TournamentTeamRosterEntry, error)
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRosterRepository) CreateBatch(ctx context.Context, exec SQLExecutor, entries []*models.TournamentTeamRosterEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`INSERT INTO tournament_team_roster_entries (participant_id, user_id, role, jersey_number) VALUES `)
	args := make([]interface{}, 0, len(entries)*4)
	for i, e := range entries {
		if i > 0 {
			queryBuilder.WriteString(", ")
		}
		base := i * 4
		queryBuilder.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, e.ParticipantID, e.UserID, e.Role, e.JerseyNumber)
	}

	_, err := r.getExecutor(exec).ExecContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "roster_entries_participant_jersey_key" {
					return ErrRosterJerseyConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "roster_entries_user_id_fkey" {
					return ErrRosterUserInvalid
				}
			case "23514": // check_violation
				if pqErr.Constraint == "chk_player_jersey_number" {
					return ErrRosterNumberViolation
				}
			}
		}
		return fmt.Errorf("failed to create roster entries: %w", err)
	}
	return nil
}

func (r *postgresRosterRepository) DeleteByParticipantID(ctx context.Context, exec SQLExecutor, participantID int) error {
	query := `DELETE FROM tournament_team_roster_entries WHERE participant_id = $1`
	if _, err := r.getExecutor(exec).ExecContext(ctx, query, participantID); err != nil {
		return fmt.Errorf("failed to delete roster for participant %d: %w", participantID, err)
	}
	return nil
}

const rosterSelect = `
	SELECT re.id, re.participant_id, re.user_id, re.role, re.jersey_number, re.created_at,
	       u.id, u.first_name, u.last_name, u.email, u.created_at
	FROM tournament_team_roster_entries re
	JOIN users u ON u.id = re.user_id`

func (r *postgresRosterRepository) ListByParticipantID(ctx context.Context, participantID int) ([]*models.TournamentTeamRosterEntry, error) {
	query := rosterSelect + ` WHERE re.participant_id = $1 ORDER BY re.role, u.last_name`
	rows, err := r.db.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster entries: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresRosterRepository) ListByParticipantIDs(ctx context.Context, participantIDs []int) (map[int][]*models.TournamentTeamRosterEntry, error) {
	byParticipant := make(map[int][]*models.TournamentTeamRosterEntry, len(participantIDs))
	if len(participantIDs) == 0 {
		return byParticipant, nil
	}
	query := rosterSelect + ` WHERE re.participant_id = ANY($1) ORDER BY re.role, u.last_name`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(participantIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list roster entries: %w", err)
	}
	defer rows.Close()

	entries, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		byParticipant[e.ParticipantID] = append(byParticipant[e.ParticipantID], e)
	}
	return byParticipant, nil
}

func (r *postgresRosterRepository) collect(rows *sql.Rows) ([]*models.TournamentTeamRosterEntry, error) {
	entries := make([]*models.TournamentTeamRosterEntry, 0)
	for rows.Next() {
		var e models.TournamentTeamRosterEntry
		var u models.User
		if err := rows.Scan(
			&e.ID, &e.ParticipantID, &e.UserID, &e.Role, &e.JerseyNumber, &e.CreatedAt,
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		e.User = &u
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster rows: %w", err)
	}
	return entries, nil
}
