package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqasport/referee-hub-sub000/models"
	"github.com/iqasport/referee-hub-sub000/storage"
)

// fakeUploader keeps uploaded objects in memory.
type fakeUploader struct {
	objects map[string]string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string]string{}}
}

func (u *fakeUploader) Upload(_ context.Context, key, contentType string, _ io.Reader) (*storage.UploadResult, error) {
	u.objects[key] = contentType
	return &storage.UploadResult{Key: key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	delete(u.objects, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (e *testEnv) userService(uploader storage.FileUploader) UserService {
	return NewUserService(e.userRepo, e.delicateRepo, e.certRepo, e.participantRepo, e.tournamentRepo, uploader, testLogger())
}

func TestGenderRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.f.addUser("me@example.com")

	ngb := env.f.addNGB("Quadball Polska")
	team := env.f.addTeam(ngb.ID, "Warsaw Mermaids")
	tournament := env.f.addTournament("Polish Cup", time.Now().Add(24*time.Hour), false)
	participant := env.f.addParticipant(tournament.ID, team)
	env.f.rosters[participant.ID] = []*models.TournamentTeamRosterEntry{
		{ParticipantID: participant.ID, UserID: user.ID, Role: models.RosterRolePlayer},
	}

	svc := env.userService(nil)

	t.Run("unrecorded gender reads as a NotFound", func(t *testing.T) {
		_, err := svc.GetMyGender(ctx, user.ID)
		assert.ErrorIs(t, err, ErrGenderNotRecorded)
	})

	t.Run("set then read includes rostered tournaments", func(t *testing.T) {
		view, err := svc.SetMyGender(ctx, user.ID, "female")
		require.NoError(t, err)
		require.NotNil(t, view.Gender)
		assert.Equal(t, "female", *view.Gender)

		view, err = svc.GetMyGender(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, view.RosteredTournaments, 1)
		assert.Equal(t, tournament.ID, view.RosteredTournaments[0].ID)
		assert.Equal(t, tournament.Name, view.RosteredTournaments[0].Name)
	})

	t.Run("delete clears the record but keeps the context list", func(t *testing.T) {
		view, err := svc.DeleteMyGender(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, view.Gender)
		assert.Len(t, view.RosteredTournaments, 1)

		_, err = svc.GetMyGender(ctx, user.ID)
		assert.ErrorIs(t, err, ErrGenderNotRecorded)

		_, err = svc.DeleteMyGender(ctx, user.ID)
		assert.ErrorIs(t, err, ErrGenderNotRecorded)
	})
}

func TestRecordCertification(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.f.addUser("ref@example.com")
	svc := env.userService(nil)

	t.Run("head test awards the subsumed levels", func(t *testing.T) {
		certs, err := svc.RecordCertification(ctx, user.ID, models.CertificationHead)
		require.NoError(t, err)

		levels := make([]models.CertificationLevel, len(certs))
		for i, c := range certs {
			levels[i] = c.Level
		}
		assert.ElementsMatch(t, []models.CertificationLevel{
			models.CertificationHead, models.CertificationAssistant, models.CertificationSnitch,
		}, levels)
	})

	t.Run("re-passing a subsumed level does not duplicate", func(t *testing.T) {
		certs, err := svc.RecordCertification(ctx, user.ID, models.CertificationAssistant)
		require.NoError(t, err)
		assert.Len(t, certs, 3)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := svc.RecordCertification(ctx, user.ID, models.CertificationLevel("grandmaster"))
		require.ErrorIs(t, err, ErrUnknownCertification)
		assert.True(t, strings.Contains(err.Error(), "grandmaster"))
	})
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.f.addUser("me@example.com")
	uploader := newFakeUploader()
	svc := env.userService(uploader)

	t.Run("stores the object and records the key", func(t *testing.T) {
		got, err := svc.UploadAvatar(ctx, user.ID, "image/png", strings.NewReader("png-bytes"))
		require.NoError(t, err)
		require.NotNil(t, got.AvatarKey)
		assert.True(t, strings.HasSuffix(*got.AvatarKey, ".png"))
		require.NotNil(t, got.AvatarURL)
		assert.Equal(t, "https://cdn.example.com/"+*got.AvatarKey, *got.AvatarURL)
		assert.Len(t, uploader.objects, 1)
	})

	t.Run("replacing the avatar deletes the previous object", func(t *testing.T) {
		got, err := svc.UploadAvatar(ctx, user.ID, "image/jpeg", strings.NewReader("jpeg-bytes"))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(*got.AvatarKey, ".jpg"))
		assert.Len(t, uploader.objects, 1, "old object is removed")
	})

	t.Run("rejects non-image content types", func(t *testing.T) {
		_, err := svc.UploadAvatar(ctx, user.ID, "application/pdf", strings.NewReader("%PDF"))
		assert.ErrorIs(t, err, ErrUnsupportedAvatarType)
	})

	t.Run("without configured storage", func(t *testing.T) {
		bare := env.userService(nil)
		_, err := bare.UploadAvatar(ctx, user.ID, "image/png", strings.NewReader("png-bytes"))
		assert.Error(t, err)
	})
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.f.addUser("me@example.com")
	env.f.users[user.ID].PasswordHash = "secret-hash"
	svc := env.userService(nil)

	got, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Empty(t, got.PasswordHash, "hash never leaves the service")

	_, err = svc.GetProfile(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
