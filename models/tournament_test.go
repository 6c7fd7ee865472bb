package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTournamentIsArchived(t *testing.T) {
	end := time.Date(2025, time.June, 10, 18, 0, 0, 0, time.UTC)
	tournament := &Tournament{EndDate: end}

	assert.False(t, tournament.IsArchived(end.Add(-time.Hour)), "before the end date")
	assert.False(t, tournament.IsArchived(end), "exactly at the end date")
	assert.True(t, tournament.IsArchived(end.Add(time.Second)), "after the end date")

	// Moving the end date forward un-archives the tournament.
	tournament.EndDate = end.Add(72 * time.Hour)
	assert.False(t, tournament.IsArchived(end.Add(time.Second)))
}
