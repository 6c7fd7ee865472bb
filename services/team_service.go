package services

import (
	"context"
	"errors"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/iqasport/referee-hub-sub000/repositories"
	"github.com/iqasport/referee-hub-sub000/storage"
)

type TeamService interface {
	// GetTeam is the NGB-scoped team read. A team outside the claimed NGB
	// is reported as not found rather than forbidden.
	GetTeam(ctx context.Context, ngbID, teamID int) (*models.Team, error)
}

type teamService struct {
	teamRepo        repositories.TeamRepository
	teamManagerRepo repositories.TeamManagerRepository
	authz           AuthorizationService
	uploader        storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	teamManagerRepo repositories.TeamManagerRepository,
	authz AuthorizationService,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:        teamRepo,
		teamManagerRepo: teamManagerRepo,
		authz:           authz,
		uploader:        uploader,
	}
}

func (s *teamService) GetTeam(ctx context.Context, ngbID, teamID int) (*models.Team, error) {
	if err := s.authz.RequireTeamInNGB(ctx, ngbID, teamID); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		m.PasswordHash = ""
		team.Members = append(team.Members, *m)
	}

	managers, err := s.teamManagerRepo.List(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for _, tm := range managers {
		if tm.User != nil {
			tm.User.PasswordHash = ""
			team.Managers = append(team.Managers, *tm.User)
		}
	}

	if team.LogoKey != nil && *team.LogoKey != "" && s.uploader != nil {
		if url := s.uploader.GetPublicURL(*team.LogoKey); url != "" {
			team.LogoURL = &url
		}
	}
	return team, nil
}
