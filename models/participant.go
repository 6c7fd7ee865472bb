package models

import "time"

// TournamentTeamParticipant is a team whose invite was fully approved. The
// team name is snapshotted at creation so historical tournament records
// survive later team renames.
type TournamentTeamParticipant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	TeamID       int       `json:"team_id" db:"team_id"`
	TeamName     string    `json:"team_name" db:"team_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Roster []TournamentTeamRosterEntry `json:"roster,omitempty" db:"-"`
}
