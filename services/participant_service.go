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
	"golang.org/x/sync/errgroup"
)

// RosterMemberInput is one person in a roster replacement request.
type RosterMemberInput struct {
	UserID       int     `json:"user_id"`
	JerseyNumber *string `json:"jersey_number,omitempty"`
}

// RosterUpdateInput carries full-replace semantics: the three groups become
// the participant's entire roster.
type RosterUpdateInput struct {
	Players []RosterMemberInput `json:"players"`
	Coaches []RosterMemberInput `json:"coaches"`
	Staff   []RosterMemberInput `json:"staff"`
}

// RosterMemberView is the enriched row returned to tournament managers.
type RosterMemberView struct {
	UserID               int                       `json:"user_id"`
	Name                 string                    `json:"name"`
	Role                 models.RosterRole         `json:"role"`
	JerseyNumber         *string                   `json:"jersey_number,omitempty"`
	HighestCertification models.CertificationLevel `json:"highest_certification,omitempty"`
	Gender               *string                   `json:"gender,omitempty"`
}

type ParticipantService interface {
	// UpdateRoster replaces the participant's roster in one transaction.
	// Membership and numbering are validated against current state inside
	// the transaction, not just at request entry.
	UpdateRoster(ctx context.Context, tournamentID, participantID, currentUserID int, input RosterUpdateInput) ([]*models.TournamentTeamRosterEntry, error)
	// GetRosterForTournamentManager is the manager-only enriched view,
	// including certification and gender context for players.
	GetRosterForTournamentManager(ctx context.Context, tournamentID, participantID, currentUserID int) ([]RosterMemberView, error)
	// ListParticipants returns participants with nested rosters, gender
	// included: for private tournaments the caller is necessarily involved.
	ListParticipants(ctx context.Context, tournamentID, currentUserID int) ([]*models.TournamentTeamParticipant, error)
	// DeleteParticipant removes the participant and its roster. The
	// originating invite row is left untouched.
	DeleteParticipant(ctx context.Context, tournamentID, participantID, currentUserID int) error
}

type participantService struct {
	db              *sql.DB
	participantRepo repositories.ParticipantRepository
	rosterRepo      repositories.RosterRepository
	teamRepo        repositories.TeamRepository
	tournamentRepo  repositories.TournamentRepository
	delicateRepo    repositories.DelicateInfoRepository
	certRepo        repositories.CertificationRepository
	authz           AuthorizationService
	hub             *live.Hub
	logger          *slog.Logger
	now             func() time.Time
}

func NewParticipantService(
	db *sql.DB,
	participantRepo repositories.ParticipantRepository,
	rosterRepo repositories.RosterRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	delicateRepo repositories.DelicateInfoRepository,
	certRepo repositories.CertificationRepository,
	authz AuthorizationService,
	hub *live.Hub,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		db:              db,
		participantRepo: participantRepo,
		rosterRepo:      rosterRepo,
		teamRepo:        teamRepo,
		tournamentRepo:  tournamentRepo,
		delicateRepo:    delicateRepo,
		certRepo:        certRepo,
		authz:           authz,
		hub:             hub,
		logger:          logger,
		now:             time.Now,
	}
}

// getParticipantInTournament resolves the participant and verifies it belongs
// to the claimed tournament; a mismatch is a NotFound, not a leak.
func (s *participantService) getParticipantInTournament(ctx context.Context, tournamentID, participantID int) (*models.TournamentTeamParticipant, error) {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant %d: %w", participantID, err)
	}
	if participant.TournamentID != tournamentID {
		return nil, ErrParticipantNotFound
	}
	return participant, nil
}

func (s *participantService) UpdateRoster(ctx context.Context, tournamentID, participantID, currentUserID int, input RosterUpdateInput) ([]*models.TournamentTeamRosterEntry, error) {
	participant, err := s.getParticipantInTournament(ctx, tournamentID, participantID)
	if err != nil {
		return nil, err
	}

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

	canManage, err := s.authz.CanManageTeam(ctx, currentUserID, participant.TeamID)
	if err != nil {
		return nil, err
	}
	if !canManage {
		return nil, ErrForbiddenOperation
	}

	entries, err := buildRosterEntries(participantID, input)
	if err != nil {
		return nil, err
	}

	userIDs := make([]int, len(entries))
	for i, e := range entries {
		userIDs[i] = e.UserID
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		// Membership is re-checked inside the transaction to avoid losing a
		// race against a concurrent team-membership change.
		members, err := s.teamRepo.MemberIDSet(ctx, tx, participant.TeamID, userIDs)
		if err != nil {
			return err
		}
		for _, id := range userIDs {
			if !members[id] {
				return fmt.Errorf("%w: user %d", ErrRosterUserNotInTeam, id)
			}
		}

		if err := s.rosterRepo.DeleteByParticipantID(ctx, tx, participantID); err != nil {
			return err
		}
		if err := s.rosterRepo.CreateBatch(ctx, tx, entries); err != nil {
			switch {
			case errors.Is(err, repositories.ErrRosterJerseyConflict):
				return ErrDuplicateJerseyNumber
			case errors.Is(err, repositories.ErrRosterUserInvalid):
				return ErrRosterUserNotInTeam
			case errors.Is(err, repositories.ErrRosterNumberViolation):
				return ErrPlayerNumberRequired
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.TournamentRoom(tournamentID), live.Event{
			Type:    live.EventRosterUpdated,
			Payload: map[string]int{"participant_id": participantID},
		})
	}
	return s.rosterRepo.ListByParticipantID(ctx, participantID)
}

// buildRosterEntries flattens the three groups and validates the request
// shape: players need a jersey number, numbers are pairwise distinct, a user
// appears at most once.
func buildRosterEntries(participantID int, input RosterUpdateInput) ([]*models.TournamentTeamRosterEntry, error) {
	total := len(input.Players) + len(input.Coaches) + len(input.Staff)
	entries := make([]*models.TournamentTeamRosterEntry, 0, total)
	seenUsers := make(map[int]bool, total)
	seenNumbers := make(map[string]bool, len(input.Players))

	add := func(role models.RosterRole, members []RosterMemberInput) error {
		for _, m := range members {
			if seenUsers[m.UserID] {
				return fmt.Errorf("%w: user %d", ErrDuplicateRosterUser, m.UserID)
			}
			seenUsers[m.UserID] = true

			entry := &models.TournamentTeamRosterEntry{
				ParticipantID: participantID,
				UserID:        m.UserID,
				Role:          role,
			}
			if role == models.RosterRolePlayer {
				if m.JerseyNumber == nil || *m.JerseyNumber == "" {
					return fmt.Errorf("%w: user %d", ErrPlayerNumberRequired, m.UserID)
				}
				if seenNumbers[*m.JerseyNumber] {
					return fmt.Errorf("%w: number %s", ErrDuplicateJerseyNumber, *m.JerseyNumber)
				}
				seenNumbers[*m.JerseyNumber] = true
				entry.JerseyNumber = m.JerseyNumber
			}
			entries = append(entries, entry)
		}
		return nil
	}

	if err := add(models.RosterRolePlayer, input.Players); err != nil {
		return nil, err
	}
	if err := add(models.RosterRoleCoach, input.Coaches); err != nil {
		return nil, err
	}
	if err := add(models.RosterRoleStaff, input.Staff); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *participantService) GetRosterForTournamentManager(ctx context.Context, tournamentID, participantID, currentUserID int) ([]RosterMemberView, error) {
	canManage, err := s.authz.CanManageTournament(ctx, currentUserID, tournamentID)
	if err != nil {
		return nil, err
	}
	if !canManage {
		return nil, ErrForbiddenOperation
	}

	if _, err := s.getParticipantInTournament(ctx, tournamentID, participantID); err != nil {
		return nil, err
	}

	entries, err := s.rosterRepo.ListByParticipantID(ctx, participantID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]int, len(entries))
	for i, e := range entries {
		userIDs[i] = e.UserID
	}

	var certLevels map[int][]models.CertificationLevel
	var genders map[int]*models.UserDelicateInfo

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		certLevels, err = s.certRepo.ListLevelsByUserIDs(gCtx, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		genders, err = s.delicateRepo.GetByUserIDs(gCtx, userIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]RosterMemberView, 0, len(entries))
	for _, e := range entries {
		view := RosterMemberView{
			UserID:       e.UserID,
			Role:         e.Role,
			JerseyNumber: e.JerseyNumber,
		}
		if e.User != nil {
			view.Name = e.User.FirstName + " " + e.User.LastName
		}
		if e.Role == models.RosterRolePlayer {
			view.HighestCertification = models.HighestCertification(certLevels[e.UserID])
			if info, ok := genders[e.UserID]; ok {
				gender := info.Gender
				view.Gender = &gender
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *participantService) ListParticipants(ctx context.Context, tournamentID, currentUserID int) ([]*models.TournamentTeamParticipant, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	if tournament.IsPrivate {
		visible, err := s.isInvolved(ctx, currentUserID, tournamentID, participants)
		if err != nil {
			return nil, err
		}
		if !visible {
			// Private tournaments are invisible to uninvolved principals.
			return nil, ErrTournamentNotFound
		}
	}

	participantIDs := make([]int, len(participants))
	for i, p := range participants {
		participantIDs[i] = p.ID
	}
	rosters, err := s.rosterRepo.ListByParticipantIDs(ctx, participantIDs)
	if err != nil {
		return nil, err
	}

	userIDSet := make(map[int]bool)
	for _, entries := range rosters {
		for _, e := range entries {
			userIDSet[e.UserID] = true
		}
	}
	userIDs := make([]int, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}
	genders, err := s.delicateRepo.GetByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range participants {
		entries := rosters[p.ID]
		p.Roster = make([]models.TournamentTeamRosterEntry, 0, len(entries))
		for _, e := range entries {
			entry := *e
			if info, ok := genders[e.UserID]; ok {
				gender := info.Gender
				entry.Gender = &gender
			}
			p.Roster = append(p.Roster, entry)
		}
	}
	return participants, nil
}

// isInvolved reports whether the user manages the tournament, manages a
// participating team, or appears on any roster.
func (s *participantService) isInvolved(ctx context.Context, userID, tournamentID int, participants []*models.TournamentTeamParticipant) (bool, error) {
	caps, err := s.authz.ResolveCapabilities(ctx, userID)
	if err != nil {
		return false, err
	}
	if caps.Has(ResourceTournament, tournamentID) {
		return true, nil
	}
	for _, p := range participants {
		if caps.Has(ResourceTeam, p.TeamID) {
			return true, nil
		}
	}

	rosterTournamentIDs, err := s.participantRepo.ListTournamentIDsByRosterUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range rosterTournamentIDs {
		if id == tournamentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *participantService) DeleteParticipant(ctx context.Context, tournamentID, participantID, currentUserID int) error {
	canManage, err := s.authz.CanManageTournament(ctx, currentUserID, tournamentID)
	if err != nil {
		return err
	}
	if !canManage {
		return ErrForbiddenOperation
	}

	if _, err := s.getParticipantInTournament(ctx, tournamentID, participantID); err != nil {
		return err
	}

	// Roster rows cascade with the participant; the originating invite is
	// history and stays as is.
	if err := s.participantRepo.Delete(ctx, participantID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.TournamentRoom(tournamentID), live.Event{
			Type:    live.EventParticipantRemoved,
			Payload: map[string]int{"participant_id": participantID},
		})
	}
	return nil
}
