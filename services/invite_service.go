package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iqasport/referee-hub-sub000/live"
	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/iqasport/referee-hub-sub000/repositories"
)

var ErrInviteAlreadyResolved = errors.New("invite has already been resolved for this side")

// InviteNotifier delivers best-effort notifications about invite activity.
// Failures are logged, never surfaced to the caller.
type InviteNotifier interface {
	NotifyInviteCreated(ctx context.Context, recipients []string, teamName, tournamentName string, initiatedByTournament bool) error
}

type InviteService interface {
	// CreateInvite starts the dual-approval negotiation. The initiator's own
	// side is approved at creation; the counterpart side starts pending.
	CreateInvite(ctx context.Context, tournamentID, teamID, currentUserID int) (*models.TournamentInvite, error)
	// RespondToInvite records the responder's side. Completing both
	// approvals materializes the participant in the same transaction.
	RespondToInvite(ctx context.Context, tournamentID, teamID, currentUserID int, approve bool) (*models.TournamentInvite, error)
	// ListInvites returns the invites visible to the caller: tournament
	// managers see all, team managers see their teams' invites, everyone
	// else sees an empty list.
	ListInvites(ctx context.Context, tournamentID, currentUserID int) ([]*models.TournamentInvite, error)
	// ListTeamInvites is the NGB-scoped per-team view.
	ListTeamInvites(ctx context.Context, ngbID, teamID, currentUserID int) ([]*models.TournamentInvite, error)
}

type inviteService struct {
	db                    *sql.DB
	inviteRepo            repositories.InviteRepository
	tournamentRepo        repositories.TournamentRepository
	teamRepo              repositories.TeamRepository
	participantRepo       repositories.ParticipantRepository
	tournamentManagerRepo repositories.TournamentManagerRepository
	teamManagerRepo       repositories.TeamManagerRepository
	authz                 AuthorizationService
	notifier              InviteNotifier
	hub                   *live.Hub
	logger                *slog.Logger
	now                   func() time.Time
}

func NewInviteService(
	db *sql.DB,
	inviteRepo repositories.InviteRepository,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	participantRepo repositories.ParticipantRepository,
	tournamentManagerRepo repositories.TournamentManagerRepository,
	teamManagerRepo repositories.TeamManagerRepository,
	authz AuthorizationService,
	notifier InviteNotifier,
	hub *live.Hub,
	logger *slog.Logger,
) InviteService {
	return &inviteService{
		db:                    db,
		inviteRepo:            inviteRepo,
		tournamentRepo:        tournamentRepo,
		teamRepo:              teamRepo,
		participantRepo:       participantRepo,
		tournamentManagerRepo: tournamentManagerRepo,
		teamManagerRepo:       teamManagerRepo,
		authz:                 authz,
		notifier:              notifier,
		hub:                   hub,
		logger:                logger,
		now:                   time.Now,
	}
}

func (s *inviteService) getTournamentForMutation(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	if tournament.IsArchived(s.now()) {
		return nil, ErrTournamentArchived
	}
	return tournament, nil
}

func (s *inviteService) CreateInvite(ctx context.Context, tournamentID, teamID, currentUserID int) (*models.TournamentInvite, error) {
	tournament, err := s.getTournamentForMutation(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	isTournamentManager, err := s.authz.CanManageTournament(ctx, currentUserID, tournamentID)
	if err != nil {
		return nil, err
	}
	isTeamManager := false
	if !isTournamentManager {
		isTeamManager, err = s.authz.CanManageTeam(ctx, currentUserID, teamID)
		if err != nil {
			return nil, err
		}
		if !isTeamManager {
			return nil, ErrForbiddenOperation
		}
	}

	now := s.now()
	invite := &models.TournamentInvite{
		TournamentID:              tournamentID,
		TeamID:                    teamID,
		InitiatorID:               currentUserID,
		TournamentManagerApproval: models.ApprovalPending,
		ParticipantApproval:       models.ApprovalPending,
	}
	if isTournamentManager {
		invite.TournamentManagerApproval = models.ApprovalApproved
		invite.TournamentManagerApprovedAt = &now
	} else {
		invite.ParticipantApproval = models.ApprovalApproved
		invite.ParticipantApprovedAt = &now
	}

	if err := s.inviteRepo.Create(ctx, nil, invite); err != nil {
		switch {
		case errors.Is(err, repositories.ErrInviteConflict):
			return nil, ErrDuplicateInvite
		case errors.Is(err, repositories.ErrInviteTournamentInvalid):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrInviteTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	s.notifyCounterpart(ctx, invite, team, tournament, isTournamentManager)
	if s.hub != nil {
		s.hub.BroadcastToRoom(live.TournamentRoom(tournamentID), live.Event{
			Type:    live.EventInviteCreated,
			Payload: invite,
		})
	}
	return invite, nil
}

func (s *inviteService) notifyCounterpart(ctx context.Context, invite *models.TournamentInvite, team *models.Team, tournament *models.Tournament, initiatedByTournament bool) {
	if s.notifier == nil {
		return
	}

	var recipients []string
	var err error
	if initiatedByTournament {
		var managers []*models.TeamManager
		managers, err = s.teamManagerRepo.List(ctx, team.ID)
		for _, m := range managers {
			if m.User != nil {
				recipients = append(recipients, m.User.Email)
			}
		}
	} else {
		var managers []*models.TournamentManager
		managers, err = s.tournamentManagerRepo.List(ctx, tournament.ID)
		for _, m := range managers {
			if m.User != nil {
				recipients = append(recipients, m.User.Email)
			}
		}
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to resolve invite notification recipients",
			slog.Int("invite_id", invite.ID), slog.Any("error", err))
		return
	}
	if len(recipients) == 0 {
		return
	}
	if err := s.notifier.NotifyInviteCreated(ctx, recipients, team.Name, tournament.Name, initiatedByTournament); err != nil {
		s.logger.WarnContext(ctx, "failed to send invite notification",
			slog.Int("invite_id", invite.ID), slog.Any("error", err))
	}
}

func (s *inviteService) RespondToInvite(ctx context.Context, tournamentID, teamID, currentUserID int, approve bool) (*models.TournamentInvite, error) {
	if _, err := s.getTournamentForMutation(ctx, tournamentID); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	isTournamentManager, err := s.authz.CanManageTournament(ctx, currentUserID, tournamentID)
	if err != nil {
		return nil, err
	}
	isTeamManager, err := s.authz.CanManageTeam(ctx, currentUserID, teamID)
	if err != nil {
		return nil, err
	}
	if !isTournamentManager && !isTeamManager {
		return nil, ErrForbiddenOperation
	}

	status := models.ApprovalRejected
	if approve {
		status = models.ApprovalApproved
	}

	var invite *models.TournamentInvite
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		// Re-read inside the transaction so concurrent responses serialize
		// on the row rather than racing on stale state.
		invite, err = s.inviteRepo.GetLiveByTournamentAndTeam(ctx, tx, tournamentID, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrInviteNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		// The responder settles their own side; each side can only be
		// settled while pending, by the matching role.
		switch {
		case isTournamentManager && invite.TournamentManagerApproval == models.ApprovalPending:
			if err := s.inviteRepo.SetTournamentManagerApproval(ctx, tx, invite.ID, status); err != nil {
				return err
			}
			invite.TournamentManagerApproval = status
		case isTeamManager && invite.ParticipantApproval == models.ApprovalPending:
			if err := s.inviteRepo.SetParticipantApproval(ctx, tx, invite.ID, status); err != nil {
				return err
			}
			invite.ParticipantApproval = status
		case isTournamentManager || isTeamManager:
			return ErrInviteAlreadyResolved
		default:
			return ErrForbiddenOperation
		}

		if invite.OverallStatus() == models.InviteStatusApproved {
			participant := &models.TournamentTeamParticipant{
				TournamentID: tournamentID,
				TeamID:       teamID,
				TeamName:     team.Name,
			}
			if err := s.participantRepo.Create(ctx, tx, participant); err != nil {
				if errors.Is(err, repositories.ErrParticipantConflict) {
					return ErrParticipantConflict
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		eventType := live.EventInviteResolved
		if invite.OverallStatus() == models.InviteStatusApproved {
			eventType = live.EventParticipantAdded
		}
		s.hub.BroadcastToRoom(live.TournamentRoom(tournamentID), live.Event{
			Type:    eventType,
			Payload: invite,
		})
	}
	return invite, nil
}

func (s *inviteService) ListInvites(ctx context.Context, tournamentID, currentUserID int) ([]*models.TournamentInvite, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}

	caps, err := s.authz.ResolveCapabilities(ctx, currentUserID)
	if err != nil {
		return nil, err
	}

	if caps.Has(ResourceTournament, tournamentID) {
		return s.inviteRepo.ListByTournament(ctx, tournamentID)
	}

	// Team managers see only their own teams' invites; everyone else gets an
	// empty list, not an error.
	teamIDs := caps.IDs(ResourceTeam)
	if len(teamIDs) == 0 {
		return []*models.TournamentInvite{}, nil
	}
	return s.inviteRepo.ListByTournamentAndTeams(ctx, tournamentID, teamIDs)
}

func (s *inviteService) ListTeamInvites(ctx context.Context, ngbID, teamID, currentUserID int) ([]*models.TournamentInvite, error) {
	if err := s.authz.RequireTeamInNGB(ctx, ngbID, teamID); err != nil {
		return nil, err
	}
	canManage, err := s.authz.CanManageTeam(ctx, currentUserID, teamID)
	if err != nil {
		return nil, err
	}
	if !canManage {
		return nil, ErrForbiddenOperation
	}
	return s.inviteRepo.ListByTeam(ctx, teamID)
}
