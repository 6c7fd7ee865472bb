package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/iqasport/referee-hub-sub000/repositories"
	"github.com/iqasport/referee-hub-sub000/storage"
)

// TournamentRef is the lightweight tournament listing attached to gender
// reads and deletes: the tournaments in which the user currently appears on
// any roster.
type TournamentRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type GenderRecordView struct {
	Gender              *string         `json:"gender"`
	RosteredTournaments []TournamentRef `json:"rostered_tournaments"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID int) (*models.User, error)
	UploadAvatar(ctx context.Context, userID int, contentType string, file io.Reader) (*models.User, error)

	// Gender reads and deletes are self-service only; the roster-derived
	// tournament list is recomputed on every call, never stored.
	GetMyGender(ctx context.Context, userID int) (*GenderRecordView, error)
	SetMyGender(ctx context.Context, userID int, gender string) (*GenderRecordView, error)
	DeleteMyGender(ctx context.Context, userID int) (*GenderRecordView, error)

	ListMyCertifications(ctx context.Context, userID int) ([]*models.RefereeCertification, error)
	// RecordCertification registers a passed recertification test and awards
	// every level the passed one subsumes.
	RecordCertification(ctx context.Context, userID int, level models.CertificationLevel) ([]*models.RefereeCertification, error)
}

type userService struct {
	userRepo        repositories.UserRepository
	delicateRepo    repositories.DelicateInfoRepository
	certRepo        repositories.CertificationRepository
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewUserService(
	userRepo repositories.UserRepository,
	delicateRepo repositories.DelicateInfoRepository,
	certRepo repositories.CertificationRepository,
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:        userRepo,
		delicateRepo:    delicateRepo,
		certRepo:        certRepo,
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func (s *userService) populateAvatarURL(user *models.User) {
	user.PasswordHash = ""
	if user.AvatarKey != nil && *user.AvatarKey != "" && s.uploader != nil {
		if url := s.uploader.GetPublicURL(*user.AvatarKey); url != "" {
			user.AvatarURL = &url
		}
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.populateAvatarURL(user)
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int, contentType string, file io.Reader) (*models.User, error) {
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ext, err := extensionForImageContentType(contentType)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/user_%d_%d%s", userID, time.Now().UnixNano(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := user.AvatarKey
	if err := s.userRepo.UpdateAvatarKey(ctx, userID, &key); err != nil {
		// The new object is orphaned; remove it so the bucket stays clean.
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete orphaned avatar object",
				slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, err
	}

	if oldKey != nil && *oldKey != "" && *oldKey != key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous avatar object",
				slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	user.AvatarKey = &key
	s.populateAvatarURL(user)
	return user, nil
}

func (s *userService) rosteredTournaments(ctx context.Context, userID int) ([]TournamentRef, error) {
	ids, err := s.participantRepo.ListTournamentIDsByRosterUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	tournaments, err := s.tournamentRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	refs := make([]TournamentRef, 0, len(tournaments))
	for _, t := range tournaments {
		refs = append(refs, TournamentRef{ID: t.ID, Name: t.Name})
	}
	return refs, nil
}

func (s *userService) GetMyGender(ctx context.Context, userID int) (*GenderRecordView, error) {
	info, err := s.delicateRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrDelicateInfoNotFound) {
			return nil, ErrGenderNotRecorded
		}
		return nil, err
	}

	refs, err := s.rosteredTournaments(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GenderRecordView{Gender: &info.Gender, RosteredTournaments: refs}, nil
}

func (s *userService) SetMyGender(ctx context.Context, userID int, gender string) (*GenderRecordView, error) {
	if gender == "" {
		return nil, errors.New("gender value is required")
	}
	if err := s.delicateRepo.Upsert(ctx, &models.UserDelicateInfo{UserID: userID, Gender: gender}); err != nil {
		return nil, err
	}

	refs, err := s.rosteredTournaments(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GenderRecordView{Gender: &gender, RosteredTournaments: refs}, nil
}

func (s *userService) DeleteMyGender(ctx context.Context, userID int) (*GenderRecordView, error) {
	if err := s.delicateRepo.DeleteByUserID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrDelicateInfoNotFound) {
			return nil, ErrGenderNotRecorded
		}
		return nil, err
	}

	refs, err := s.rosteredTournaments(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GenderRecordView{Gender: nil, RosteredTournaments: refs}, nil
}

func (s *userService) ListMyCertifications(ctx context.Context, userID int) ([]*models.RefereeCertification, error) {
	return s.certRepo.ListByUserID(ctx, userID)
}

func (s *userService) RecordCertification(ctx context.Context, userID int, level models.CertificationLevel) ([]*models.RefereeCertification, error) {
	awarded := models.AwardedLevels(level)
	if awarded == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCertification, level)
	}
	if err := s.certRepo.AwardBatch(ctx, userID, awarded); err != nil {
		return nil, err
	}
	return s.certRepo.ListByUserID(ctx, userID)
}
