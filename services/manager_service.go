package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/iqasport/referee-hub-sub000/repositories"
	"github.com/iqasport/referee-hub-sub000/utils"
)

// AddManagerOutcome distinguishes the two success shapes of an add call.
type AddManagerOutcome string

const (
	ManagerRoleAdded   AddManagerOutcome = "manager_role_added"
	ManagerUserCreated AddManagerOutcome = "manager_user_created"
)

type AddManagerResult struct {
	Outcome AddManagerOutcome `json:"outcome"`
	User    *models.User      `json:"user"`
}

type ManagerService interface {
	// AddTournamentManager grants the manager role by email. When the
	// account does not exist it is either created or reported missing,
	// per createIfMissing. Adding an existing manager is a no-op success.
	AddTournamentManager(ctx context.Context, tournamentID, currentUserID int, email string, createIfMissing bool) (*AddManagerResult, error)
	// RemoveTournamentManager refuses to remove the last manager.
	RemoveTournamentManager(ctx context.Context, tournamentID, currentUserID, userID int) error
	ListTournamentManagers(ctx context.Context, tournamentID, currentUserID int) ([]*models.TournamentManager, error)

	// Team manager operations are NGB-admin only: team managers cannot
	// add or remove each other.
	AddTeamManager(ctx context.Context, ngbID, teamID, currentUserID int, email string, createIfMissing bool) (*AddManagerResult, error)
	RemoveTeamManager(ctx context.Context, ngbID, teamID, currentUserID, userID int) error
	ListTeamManagers(ctx context.Context, ngbID, teamID, currentUserID int) ([]*models.TeamManager, error)
}

type managerService struct {
	userRepo              repositories.UserRepository
	tournamentRepo        repositories.TournamentRepository
	tournamentManagerRepo repositories.TournamentManagerRepository
	teamManagerRepo       repositories.TeamManagerRepository
	authz                 AuthorizationService
	logger                *slog.Logger
}

func NewManagerService(
	userRepo repositories.UserRepository,
	tournamentRepo repositories.TournamentRepository,
	tournamentManagerRepo repositories.TournamentManagerRepository,
	teamManagerRepo repositories.TeamManagerRepository,
	authz AuthorizationService,
	logger *slog.Logger,
) ManagerService {
	return &managerService{
		userRepo:              userRepo,
		tournamentRepo:        tournamentRepo,
		tournamentManagerRepo: tournamentManagerRepo,
		teamManagerRepo:       teamManagerRepo,
		authz:                 authz,
		logger:                logger,
	}
}

// resolveOrCreateUser finds the account behind the email, creating it when
// allowed. The created account gets an unguessable placeholder password.
func (s *managerService) resolveOrCreateUser(ctx context.Context, email string, createIfMissing bool) (*models.User, AddManagerOutcome, error) {
	email = strings.TrimSpace(email)
	if !utils.IsValidEmail(email) {
		return nil, "", ErrInvalidEmail
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return user, ManagerRoleAdded, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to look up user by email: %w", err)
	}
	if !createIfMissing {
		return nil, "", ErrUserDoesNotExist
	}

	placeholder := make([]byte, 24)
	if _, err := rand.Read(placeholder); err != nil {
		return nil, "", fmt.Errorf("failed to generate placeholder password: %w", err)
	}
	hash, err := utils.HashPassword(hex.EncodeToString(placeholder))
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	user = &models.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			// Lost a race against a concurrent signup; the account exists now.
			user, err = s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, "", fmt.Errorf("failed to reload user after create race: %w", err)
			}
			return user, ManagerRoleAdded, nil
		}
		return nil, "", fmt.Errorf("failed to create manager user: %w", err)
	}
	return user, ManagerUserCreated, nil
}

func (s *managerService) requireTournamentManager(ctx context.Context, tournamentID, currentUserID int) error {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	canManage, err := s.authz.CanManageTournament(ctx, currentUserID, tournamentID)
	if err != nil {
		return err
	}
	if !canManage {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *managerService) AddTournamentManager(ctx context.Context, tournamentID, currentUserID int, email string, createIfMissing bool) (*AddManagerResult, error) {
	if err := s.requireTournamentManager(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}

	user, outcome, err := s.resolveOrCreateUser(ctx, email, createIfMissing)
	if err != nil {
		return nil, err
	}

	tm := &models.TournamentManager{
		TournamentID: tournamentID,
		UserID:       user.ID,
		AddedByID:    &currentUserID,
	}
	if err := s.tournamentManagerRepo.Add(ctx, nil, tm); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &AddManagerResult{Outcome: outcome, User: user}, nil
}

func (s *managerService) RemoveTournamentManager(ctx context.Context, tournamentID, currentUserID, userID int) error {
	if err := s.requireTournamentManager(ctx, tournamentID, currentUserID); err != nil {
		return err
	}

	isManager, err := s.tournamentManagerRepo.IsManager(ctx, tournamentID, userID)
	if err != nil {
		return err
	}
	if !isManager {
		return ErrManagerNotFound
	}

	count, err := s.tournamentManagerRepo.Count(ctx, tournamentID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastManagerRemoval
	}

	if err := s.tournamentManagerRepo.Remove(ctx, tournamentID, userID); err != nil {
		if errors.Is(err, repositories.ErrManagerRelationNotFound) {
			return ErrManagerNotFound
		}
		return err
	}
	return nil
}

func (s *managerService) ListTournamentManagers(ctx context.Context, tournamentID, currentUserID int) ([]*models.TournamentManager, error) {
	if err := s.requireTournamentManager(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.tournamentManagerRepo.List(ctx, tournamentID)
}

func (s *managerService) requireNGBAdminForTeam(ctx context.Context, ngbID, teamID, currentUserID int) error {
	if err := s.authz.RequireTeamInNGB(ctx, ngbID, teamID); err != nil {
		return err
	}
	isAdmin, err := s.authz.IsNGBAdmin(ctx, currentUserID, ngbID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *managerService) AddTeamManager(ctx context.Context, ngbID, teamID, currentUserID int, email string, createIfMissing bool) (*AddManagerResult, error) {
	if err := s.requireNGBAdminForTeam(ctx, ngbID, teamID, currentUserID); err != nil {
		return nil, err
	}

	user, outcome, err := s.resolveOrCreateUser(ctx, email, createIfMissing)
	if err != nil {
		return nil, err
	}

	tm := &models.TeamManager{
		TeamID:    teamID,
		UserID:    user.ID,
		AddedByID: &currentUserID,
	}
	if err := s.teamManagerRepo.Add(ctx, nil, tm); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &AddManagerResult{Outcome: outcome, User: user}, nil
}

func (s *managerService) RemoveTeamManager(ctx context.Context, ngbID, teamID, currentUserID, userID int) error {
	if err := s.requireNGBAdminForTeam(ctx, ngbID, teamID, currentUserID); err != nil {
		return err
	}

	// Teams have no manager floor; a team may end up with zero managers.
	if err := s.teamManagerRepo.Remove(ctx, teamID, userID); err != nil {
		if errors.Is(err, repositories.ErrManagerRelationNotFound) {
			return ErrManagerNotFound
		}
		return err
	}
	return nil
}

func (s *managerService) ListTeamManagers(ctx context.Context, ngbID, teamID, currentUserID int) ([]*models.TeamManager, error) {
	if err := s.authz.RequireTeamInNGB(ctx, ngbID, teamID); err != nil {
		return nil, err
	}
	isAdmin, err := s.authz.IsNGBAdmin(ctx, currentUserID, ngbID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		canManage, err := s.authz.CanManageTeam(ctx, currentUserID, teamID)
		if err != nil {
			return nil, err
		}
		if !canManage {
			return nil, ErrForbiddenOperation
		}
	}
	return s.teamManagerRepo.List(ctx, teamID)
}
