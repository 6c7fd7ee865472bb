package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqasport/referee-hub-sub000/models"
)

func validTournamentInput(name string) TournamentInput {
	start := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)
	return TournamentInput{
		Name:             name,
		Type:             models.TournamentTypeNational,
		StartDate:        start,
		EndDate:          start.Add(48 * time.Hour),
		RegistrationFrom: start.Add(-30 * 24 * time.Hour),
		RegistrationTo:   start.Add(-24 * time.Hour),
	}
}

func TestCreateTournament(t *testing.T) {
	ctx := context.Background()

	t.Run("creator becomes the first manager", func(t *testing.T) {
		env := newTestEnv()
		creator := env.f.addUser("creator@example.com")
		svc := env.tournamentService()

		tournament, err := svc.CreateTournament(ctx, creator.ID, validTournamentInput("Euro Cup"))
		require.NoError(t, err)
		assert.NotZero(t, tournament.ID)
		assert.True(t, env.f.tournamentManagers[tournament.ID][creator.ID])
	})

	t.Run("name conflict", func(t *testing.T) {
		env := newTestEnv()
		creator := env.f.addUser("creator@example.com")
		svc := env.tournamentService()

		_, err := svc.CreateTournament(ctx, creator.ID, validTournamentInput("Euro Cup"))
		require.NoError(t, err)
		_, err = svc.CreateTournament(ctx, creator.ID, validTournamentInput("Euro Cup"))
		assert.ErrorIs(t, err, ErrTournamentNameTaken)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		env := newTestEnv()
		creator := env.f.addUser("creator@example.com")
		svc := env.tournamentService()

		missingName := validTournamentInput("")
		_, err := svc.CreateTournament(ctx, creator.ID, missingName)
		assert.ErrorIs(t, err, ErrTournamentInvalidDates)

		inverted := validTournamentInput("Euro Cup")
		inverted.StartDate, inverted.EndDate = inverted.EndDate, inverted.StartDate
		_, err = svc.CreateTournament(ctx, creator.ID, inverted)
		assert.ErrorIs(t, err, ErrTournamentInvalidDates)

		regWindow := validTournamentInput("Euro Cup")
		regWindow.RegistrationFrom, regWindow.RegistrationTo = regWindow.RegistrationTo, regWindow.RegistrationFrom
		_, err = svc.CreateTournament(ctx, creator.ID, regWindow)
		assert.ErrorIs(t, err, ErrTournamentInvalidDates)
	})
}

func TestGetTournament(t *testing.T) {
	ctx := context.Background()
	end := time.Date(2025, time.July, 3, 18, 0, 0, 0, time.UTC)

	setup := func() (*testEnv, *models.Tournament) {
		env := newTestEnv()
		tournament := env.f.addTournament("Invitational", end, true)
		return env, tournament
	}

	t.Run("private tournament is a NotFound for the uninvolved", func(t *testing.T) {
		env, tournament := setup()
		stranger := env.f.addUser("stranger@example.com")
		svc := env.tournamentService()

		_, err := svc.GetTournament(ctx, tournament.ID, stranger.ID)
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})

	t.Run("visible to its managers", func(t *testing.T) {
		env, tournament := setup()
		tm := env.f.addUser("tm@example.com")
		env.f.tournamentManagers[tournament.ID][tm.ID] = true
		svc := env.tournamentService()

		got, err := svc.GetTournament(ctx, tournament.ID, tm.ID)
		require.NoError(t, err)
		assert.Equal(t, tournament.ID, got.ID)
	})

	t.Run("visible to managers of a participating team", func(t *testing.T) {
		env, tournament := setup()
		ngb := env.f.addNGB("Quadball Norge")
		team := env.f.addTeam(ngb.ID, "Oslo Vikings")
		env.f.addParticipant(tournament.ID, team)
		mgr := env.f.addUser("mgr@example.com")
		env.f.teamManagers[team.ID][mgr.ID] = true
		svc := env.tournamentService()

		_, err := svc.GetTournament(ctx, tournament.ID, mgr.ID)
		assert.NoError(t, err)
	})

	t.Run("visible to rostered players", func(t *testing.T) {
		env, tournament := setup()
		ngb := env.f.addNGB("Quadball Norge")
		team := env.f.addTeam(ngb.ID, "Oslo Vikings")
		participant := env.f.addParticipant(tournament.ID, team)
		player := env.f.addUser("player@example.com")
		env.f.rosters[participant.ID] = []*models.TournamentTeamRosterEntry{
			{ParticipantID: participant.ID, UserID: player.ID, Role: models.RosterRolePlayer},
		}
		svc := env.tournamentService()

		_, err := svc.GetTournament(ctx, tournament.ID, player.ID)
		assert.NoError(t, err)
	})

	t.Run("public tournament is visible to anyone", func(t *testing.T) {
		env, _ := setup()
		open := env.f.addTournament("Open Cup", end, false)
		stranger := env.f.addUser("stranger@example.com")
		svc := env.tournamentService()

		_, err := svc.GetTournament(ctx, open.ID, stranger.ID)
		assert.NoError(t, err)
	})
}

func TestUpdateTournament(t *testing.T) {
	ctx := context.Background()
	end := time.Date(2025, time.July, 3, 18, 0, 0, 0, time.UTC)

	setup := func() (*testEnv, *models.Tournament, *models.User) {
		env := newTestEnv()
		tournament := env.f.addTournament("Invitational", end, false)
		tm := env.f.addUser("tm@example.com")
		env.f.tournamentManagers[tournament.ID][tm.ID] = true
		return env, tournament, tm
	}

	t.Run("manager updates fields", func(t *testing.T) {
		env, tournament, tm := setup()
		svc := env.tournamentService()

		input := validTournamentInput("Invitational")
		input.IsPrivate = true
		got, err := svc.UpdateTournament(ctx, tournament.ID, tm.ID, input)
		require.NoError(t, err)
		assert.True(t, got.IsPrivate)
		assert.True(t, env.f.tournaments[tournament.ID].IsPrivate)
	})

	t.Run("moving the end date unarchives", func(t *testing.T) {
		env, tournament, tm := setup()
		svc := env.tournamentService()
		later := end.Add(30 * 24 * time.Hour)

		input := validTournamentInput("Invitational")
		input.EndDate = later
		got, err := svc.UpdateTournament(ctx, tournament.ID, tm.ID, input)
		require.NoError(t, err)
		assert.False(t, got.IsArchived(end.Add(time.Hour)))
	})

	t.Run("non-manager is forbidden", func(t *testing.T) {
		env, tournament, _ := setup()
		stranger := env.f.addUser("stranger@example.com")
		svc := env.tournamentService()

		_, err := svc.UpdateTournament(ctx, tournament.ID, stranger.ID, validTournamentInput("Invitational"))
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("rename onto a taken name", func(t *testing.T) {
		env, tournament, tm := setup()
		env.f.addTournament("Other Cup", end, false)
		svc := env.tournamentService()

		_, err := svc.UpdateTournament(ctx, tournament.ID, tm.ID, validTournamentInput("Other Cup"))
		assert.ErrorIs(t, err, ErrTournamentNameTaken)
	})
}

func TestListTournaments(t *testing.T) {
	ctx := context.Background()
	end := time.Date(2025, time.July, 3, 18, 0, 0, 0, time.UTC)

	env := newTestEnv()
	public := env.f.addTournament("Open Cup", end, false)
	hidden := env.f.addTournament("Secret Cup", end, true)
	managed := env.f.addTournament("My Cup", end, true)
	user := env.f.addUser("user@example.com")
	env.f.tournamentManagers[managed.ID][user.ID] = true
	svc := env.tournamentService()

	t.Run("union of public and involved", func(t *testing.T) {
		tournaments, err := svc.ListTournaments(ctx, user.ID)
		require.NoError(t, err)

		ids := make([]int, len(tournaments))
		for i, tour := range tournaments {
			ids[i] = tour.ID
		}
		assert.ElementsMatch(t, []int{public.ID, managed.ID}, ids)
		assert.NotContains(t, ids, hidden.ID)
	})

	t.Run("stranger sees only public", func(t *testing.T) {
		stranger := env.f.addUser("stranger@example.com")
		tournaments, err := svc.ListTournaments(ctx, stranger.ID)
		require.NoError(t, err)
		require.Len(t, tournaments, 1)
		assert.Equal(t, public.ID, tournaments[0].ID)
	})
}
