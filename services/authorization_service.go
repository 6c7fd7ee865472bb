package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/iqasport/referee-hub-sub000/repositories"
)

// ResourceKind names the resource types capabilities are granted on.
type ResourceKind string

const (
	ResourceNGB        ResourceKind = "ngb"
	ResourceTeam       ResourceKind = "team"
	ResourceTournament ResourceKind = "tournament"
)

// Capability is one (kind, id) pair a principal may manage.
type Capability struct {
	Kind ResourceKind
	ID   int
}

// CapabilitySet is resolved once per request; authorization checks are
// set-membership tests instead of scattered role conditionals.
type CapabilitySet map[Capability]bool

func (s CapabilitySet) Has(kind ResourceKind, id int) bool {
	return s[Capability{Kind: kind, ID: id}]
}

// IDs returns the resource ids of the given kind in the set.
func (s CapabilitySet) IDs(kind ResourceKind) []int {
	ids := make([]int, 0)
	for c := range s {
		if c.Kind == kind {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// AuthorizationService answers capability queries for a principal. It is a
// pure query layer with no side effects.
type AuthorizationService interface {
	ResolveCapabilities(ctx context.Context, userID int) (CapabilitySet, error)
	CanManageTournament(ctx context.Context, userID, tournamentID int) (bool, error)
	// CanManageTeam is true for team managers and for admins of the team's
	// NGB (NGB admins bootstrap team managers).
	CanManageTeam(ctx context.Context, userID, teamID int) (bool, error)
	IsNGBAdmin(ctx context.Context, userID, ngbID int) (bool, error)
	// RequireTeamInNGB returns ErrTeamNotFound when the team does not exist
	// or does not belong to the claimed NGB; existence must not leak across
	// NGB boundaries.
	RequireTeamInNGB(ctx context.Context, ngbID, teamID int) error
}

type authorizationService struct {
	ngbRepo               repositories.NGBRepository
	teamRepo              repositories.TeamRepository
	teamManagerRepo       repositories.TeamManagerRepository
	tournamentManagerRepo repositories.TournamentManagerRepository
}

func NewAuthorizationService(
	ngbRepo repositories.NGBRepository,
	teamRepo repositories.TeamRepository,
	teamManagerRepo repositories.TeamManagerRepository,
	tournamentManagerRepo repositories.TournamentManagerRepository,
) AuthorizationService {
	return &authorizationService{
		ngbRepo:               ngbRepo,
		teamRepo:              teamRepo,
		teamManagerRepo:       teamManagerRepo,
		tournamentManagerRepo: tournamentManagerRepo,
	}
}

func (s *authorizationService) ResolveCapabilities(ctx context.Context, userID int) (CapabilitySet, error) {
	set := make(CapabilitySet)

	ngbIDs, err := s.ngbRepo.ListAdminNGBIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ngb capabilities: %w", err)
	}
	for _, id := range ngbIDs {
		set[Capability{Kind: ResourceNGB, ID: id}] = true
	}

	teamIDs, err := s.teamManagerRepo.ListManagedTeamIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team capabilities: %w", err)
	}
	for _, id := range teamIDs {
		set[Capability{Kind: ResourceTeam, ID: id}] = true
	}

	tournamentIDs, err := s.tournamentManagerRepo.ListManagedTournamentIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tournament capabilities: %w", err)
	}
	for _, id := range tournamentIDs {
		set[Capability{Kind: ResourceTournament, ID: id}] = true
	}

	return set, nil
}

func (s *authorizationService) CanManageTournament(ctx context.Context, userID, tournamentID int) (bool, error) {
	return s.tournamentManagerRepo.IsManager(ctx, tournamentID, userID)
}

func (s *authorizationService) CanManageTeam(ctx context.Context, userID, teamID int) (bool, error) {
	isManager, err := s.teamManagerRepo.IsManager(ctx, teamID, userID)
	if err != nil {
		return false, err
	}
	if isManager {
		return true, nil
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return false, ErrTeamNotFound
		}
		return false, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	return s.ngbRepo.IsAdmin(ctx, team.NGBID, userID)
}

func (s *authorizationService) IsNGBAdmin(ctx context.Context, userID, ngbID int) (bool, error) {
	return s.ngbRepo.IsAdmin(ctx, ngbID, userID)
}

func (s *authorizationService) RequireTeamInNGB(ctx context.Context, ngbID, teamID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.NGBID != ngbID {
		return ErrTeamNotFound
	}
	return nil
}
