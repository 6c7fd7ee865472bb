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
	ErrInviteNotFound          = errors.New("tournament invite not found")
	ErrInviteConflict          = errors.New("a live invite already exists for this tournament and team")
	ErrInviteTournamentInvalid = errors.New("invite tournament conflict or invalid")
	ErrInviteTeamInvalid       = errors.New("invite team conflict or invalid")
)

type InviteRepository interface {
	// Create relies on the partial unique index over non-rejected invites to
	// lose races: the second concurrent insert for the same pair surfaces as
	// ErrInviteConflict.
	Create(ctx context.Context, exec SQLExecutor, invite *models.TournamentInvite) error
	GetByID(ctx context.Context, id int) (*models.TournamentInvite, error)
	// GetLiveByTournamentAndTeam returns the one non-rejected invite for the
	// pair, if any. Rejected rows are inert history and never returned here.
	GetLiveByTournamentAndTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.TournamentInvite, error)
	SetTournamentManagerApproval(ctx context.Context, exec SQLExecutor, id int, status models.ApprovalStatus) error
	SetParticipantApproval(ctx context.Context, exec SQLExecutor, id int, status models.ApprovalStatus) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentInvite, error)
	ListByTournamentAndTeams(ctx context.Context, tournamentID int, teamIDs []int) ([]*models.TournamentInvite, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.TournamentInvite, error)
}

type postgresInviteRepository struct {
	db *sql.DB
}

func NewPostgresInviteRepository(db *sql.DB) InviteRepository {
	return &postgresInviteRepository{db: db}
}

func (r *postgresInviteRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const inviteColumns = `id, tournament_id, team_id, initiator_id,
	tournament_manager_approval, tournament_manager_approved_at,
	participant_approval, participant_approved_at, created_at`

func (r *postgresInviteRepository) Create(ctx context.Context, exec SQLExecutor, invite *models.TournamentInvite) error {
	query := `
		INSERT INTO tournament_invites
			(tournament_id, team_id, initiator_id,
			 tournament_manager_approval, tournament_manager_approved_at,
			 participant_approval, participant_approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		invite.TournamentID,
		invite.TeamID,
		invite.InitiatorID,
		invite.TournamentManagerApproval,
		invite.TournamentManagerApprovedAt,
		invite.ParticipantApproval,
		invite.ParticipantApprovedAt,
	).Scan(&invite.ID, &invite.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "tournament_invites_live_pair_key" {
					return ErrInviteConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "tournament_invites_tournament_id_fkey":
					return ErrInviteTournamentInvalid
				case "tournament_invites_team_id_fkey":
					return ErrInviteTeamInvalid
				}
			}
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

func (r *postgresInviteRepository) scanInvite(rowScanner interface {
	Scan(dest ...interface{}) error
}, i *models.TournamentInvite) error {
	return rowScanner.Scan(
		&i.ID, &i.TournamentID, &i.TeamID, &i.InitiatorID,
		&i.TournamentManagerApproval, &i.TournamentManagerApprovedAt,
		&i.ParticipantApproval, &i.ParticipantApprovedAt, &i.CreatedAt,
	)
}

func (r *postgresInviteRepository) GetByID(ctx context.Context, id int) (*models.TournamentInvite, error) {
	query := fmt.Sprintf(`SELECT %s FROM tournament_invites WHERE id = $1`, inviteColumns)
	i := &models.TournamentInvite{}
	err := r.scanInvite(r.db.QueryRowContext(ctx, query, id), i)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite %d: %w", id, err)
	}
	return i, nil
}

func (r *postgresInviteRepository) GetLiveByTournamentAndTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.TournamentInvite, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tournament_invites
		WHERE tournament_id = $1 AND team_id = $2
		  AND tournament_manager_approval <> 'rejected'
		  AND participant_approval <> 'rejected'`, inviteColumns)

	i := &models.TournamentInvite{}
	err := r.scanInvite(r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID, teamID), i)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get live invite for tournament %d team %d: %w", tournamentID, teamID, err)
	}
	return i, nil
}

func (r *postgresInviteRepository) SetTournamentManagerApproval(ctx context.Context, exec SQLExecutor, id int, status models.ApprovalStatus) error {
	query := `
		UPDATE tournament_invites
		SET tournament_manager_approval = $1, tournament_manager_approved_at = NOW()
		WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to set tournament manager approval: %w", err)
	}
	return checkAffectedRows(result, ErrInviteNotFound)
}

func (r *postgresInviteRepository) SetParticipantApproval(ctx context.Context, exec SQLExecutor, id int, status models.ApprovalStatus) error {
	query := `
		UPDATE tournament_invites
		SET participant_approval = $1, participant_approved_at = NOW()
		WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to set participant approval: %w", err)
	}
	return checkAffectedRows(result, ErrInviteNotFound)
}

func (r *postgresInviteRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentInvite, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tournament_invites
		WHERE tournament_id = $1
		ORDER BY created_at DESC`, inviteColumns)
	return r.list(ctx, query, tournamentID)
}

func (r *postgresInviteRepository) ListByTournamentAndTeams(ctx context.Context, tournamentID int, teamIDs []int) ([]*models.TournamentInvite, error) {
	if len(teamIDs) == 0 {
		return []*models.TournamentInvite{}, nil
	}
	query := fmt.Sprintf(`
		SELECT %s FROM tournament_invites
		WHERE tournament_id = $1 AND team_id = ANY($2)
		ORDER BY created_at DESC`, inviteColumns)
	return r.list(ctx, query, tournamentID, pq.Array(teamIDs))
}

func (r *postgresInviteRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.TournamentInvite, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tournament_invites
		WHERE team_id = $1
		ORDER BY created_at DESC`, inviteColumns)
	return r.list(ctx, query, teamID)
}

func (r *postgresInviteRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.TournamentInvite, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	invites := make([]*models.TournamentInvite, 0)
	for rows.Next() {
		var i models.TournamentInvite
		if err := r.scanInvite(rows, &i); err != nil {
			return nil, fmt.Errorf("failed to scan invite row: %w", err)
		}
		invites = append(invites, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invite rows: %w", err)
	}
	return invites, nil
}
