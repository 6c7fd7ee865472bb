package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCapabilities(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	ngb := env.f.addNGB("Quadball UK")
	team := env.f.addTeam(ngb.ID, "London Unspeakables")
	otherTeam := env.f.addTeam(ngb.ID, "Oxford Quidlings")
	tournament := env.f.addTournament("British Cup", time.Now().Add(24*time.Hour), false)

	user := env.f.addUser("multi@example.com")
	env.f.ngbAdmins[ngb.ID][user.ID] = true
	env.f.teamManagers[team.ID][user.ID] = true
	env.f.tournamentManagers[tournament.ID][user.ID] = true

	caps, err := env.authz.ResolveCapabilities(ctx, user.ID)
	require.NoError(t, err)

	assert.True(t, caps.Has(ResourceNGB, ngb.ID))
	assert.True(t, caps.Has(ResourceTeam, team.ID))
	assert.True(t, caps.Has(ResourceTournament, tournament.ID))
	assert.False(t, caps.Has(ResourceTeam, otherTeam.ID))
	assert.Equal(t, []int{team.ID}, caps.IDs(ResourceTeam))

	empty, err := env.authz.ResolveCapabilities(ctx, env.f.addUser("nobody@example.com").ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Empty(t, empty.IDs(ResourceTeam))
}

func TestCanManageTeam(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	ngb := env.f.addNGB("Quadball UK")
	team := env.f.addTeam(ngb.ID, "London Unspeakables")
	manager := env.f.addUser("manager@example.com")
	admin := env.f.addUser("admin@example.com")
	stranger := env.f.addUser("stranger@example.com")
	env.f.teamManagers[team.ID][manager.ID] = true
	env.f.ngbAdmins[ngb.ID][admin.ID] = true

	t.Run("team manager", func(t *testing.T) {
		ok, err := env.authz.CanManageTeam(ctx, manager.ID, team.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("NGB admin of the team's NGB", func(t *testing.T) {
		ok, err := env.authz.CanManageTeam(ctx, admin.ID, team.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("everyone else", func(t *testing.T) {
		ok, err := env.authz.CanManageTeam(ctx, stranger.ID, team.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRequireTeamInNGB(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	ngb := env.f.addNGB("Quadball UK")
	otherNGB := env.f.addNGB("Quadball Ireland")
	team := env.f.addTeam(ngb.ID, "London Unspeakables")

	assert.NoError(t, env.authz.RequireTeamInNGB(ctx, ngb.ID, team.ID))

	t.Run("cross-NGB lookups do not leak existence", func(t *testing.T) {
		err := env.authz.RequireTeamInNGB(ctx, otherNGB.ID, team.ID)
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})

	t.Run("unknown team", func(t *testing.T) {
		err := env.authz.RequireTeamInNGB(ctx, ngb.ID, 9999)
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})
}
