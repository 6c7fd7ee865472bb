package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/iqasport/referee-hub-sub000/repositories"
)

type TournamentInput struct {
	Name             string                `json:"name"`
	Description      *string               `json:"description,omitempty"`
	Type             models.TournamentType `json:"type"`
	StartDate        time.Time             `json:"start_date"`
	EndDate          time.Time             `json:"end_date"`
	RegistrationFrom time.Time             `json:"registration_from"`
	RegistrationTo   time.Time             `json:"registration_to"`
	IsPrivate        bool                  `json:"is_private"`
	RegistrationOpen bool                  `json:"registration_open"`
	Location         *string               `json:"location,omitempty"`
	Country          *string               `json:"country,omitempty"`
}

type TournamentService interface {
	// CreateTournament makes the creator the first manager in the same
	// transaction; a tournament never exists without a manager.
	CreateTournament(ctx context.Context, currentUserID int, input TournamentInput) (*models.Tournament, error)
	// GetTournament hides private tournaments from uninvolved principals
	// behind a NotFound, never a Forbidden.
	GetTournament(ctx context.Context, id, currentUserID int) (*models.Tournament, error)
	UpdateTournament(ctx context.Context, id, currentUserID int, input TournamentInput) (*models.Tournament, error)
	// ListTournaments returns public tournaments plus the private ones the
	// caller manages or is rostered in.
	ListTournaments(ctx context.Context, currentUserID int) ([]*models.Tournament, error)
}

type tournamentService struct {
	db                    *sql.DB
	tournamentRepo        repositories.TournamentRepository
	participantRepo       repositories.ParticipantRepository
	tournamentManagerRepo repositories.TournamentManagerRepository
	authz                 AuthorizationService
	logger                *slog.Logger
	now                   func() time.Time
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	tournamentManagerRepo repositories.TournamentManagerRepository,
	authz AuthorizationService,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:                    db,
		tournamentRepo:        tournamentRepo,
		participantRepo:       participantRepo,
		tournamentManagerRepo: tournamentManagerRepo,
		authz:                 authz,
		logger:                logger,
		now:                   time.Now,
	}
}

func validateTournamentInput(input TournamentInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", ErrTournamentInvalidDates)
	}
	if !input.StartDate.Before(input.EndDate) {
		return fmt.Errorf("%w: start %s, end %s", ErrTournamentInvalidDates,
			input.StartDate.Format(time.RFC3339), input.EndDate.Format(time.RFC3339))
	}
	if input.RegistrationFrom.After(input.RegistrationTo) {
		return fmt.Errorf("%w: registration window is inverted", ErrTournamentInvalidDates)
	}
	return nil
}

func applyTournamentInput(t *models.Tournament, input TournamentInput) {
	t.Name = input.Name
	t.Description = input.Description
	t.Type = input.Type
	t.StartDate = input.StartDate
	t.EndDate = input.EndDate
	t.RegistrationFrom = input.RegistrationFrom
	t.RegistrationTo = input.RegistrationTo
	t.IsPrivate = input.IsPrivate
	t.RegistrationOpen = input.RegistrationOpen
	t.Location = input.Location
	t.Country = input.Country
}

func (s *tournamentService) CreateTournament(ctx context.Context, currentUserID int, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{}
	applyTournamentInput(tournament, input)

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tournamentRepo.Create(ctx, tx, tournament); err != nil {
			if errors.Is(err, repositories.ErrTournamentNameConflict) {
				return ErrTournamentNameTaken
			}
			return err
		}
		tm := &models.TournamentManager{
			TournamentID: tournament.ID,
			UserID:       currentUserID,
		}
		return s.tournamentManagerRepo.Add(ctx, tx, tm)
	})
	if err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id, currentUserID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	if tournament.IsPrivate {
		visible, err := s.isVisibleTo(ctx, tournament, currentUserID)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, ErrTournamentNotFound
		}
	}
	return tournament, nil
}

func (s *tournamentService) isVisibleTo(ctx context.Context, tournament *models.Tournament, userID int) (bool, error) {
	caps, err := s.authz.ResolveCapabilities(ctx, userID)
	if err != nil {
		return false, err
	}
	if caps.Has(ResourceTournament, tournament.ID) {
		return true, nil
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		return false, err
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
	for _, tid := range rosterTournamentIDs {
		if tid == tournament.ID {
			return true, nil
		}
	}
	return false, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id, currentUserID int, input TournamentInput) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	canManage, err := s.authz.CanManageTournament(ctx, currentUserID, id)
	if err != nil {
		return nil, err
	}
	if !canManage {
		return nil, ErrForbiddenOperation
	}

	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	// Date edits are allowed on archived tournaments: moving the end date is
	// the only way to unarchive one.
	applyTournamentInput(tournament, input)
	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameTaken
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, currentUserID int) ([]*models.Tournament, error) {
	public, err := s.tournamentRepo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(public))
	for _, t := range public {
		seen[t.ID] = true
	}

	managedIDs, err := s.tournamentManagerRepo.ListManagedTournamentIDs(ctx, currentUserID)
	if err != nil {
		return nil, err
	}
	rosteredIDs, err := s.participantRepo.ListTournamentIDsByRosterUser(ctx, currentUserID)
	if err != nil {
		return nil, err
	}

	extraIDs := make([]int, 0, len(managedIDs)+len(rosteredIDs))
	for _, id := range append(managedIDs, rosteredIDs...) {
		if !seen[id] {
			seen[id] = true
			extraIDs = append(extraIDs, id)
		}
	}

	extras, err := s.tournamentRepo.ListByIDs(ctx, extraIDs)
	if err != nil {
		return nil, err
	}
	return append(public, extras...), nil
}
