package models

import "time"

type RosterRole string

const (
	RosterRolePlayer RosterRole = "player"
	RosterRoleCoach  RosterRole = "coach"
	RosterRoleStaff  RosterRole = "staff"
)

// TournamentTeamRosterEntry assigns one person to a participant. Players
// carry a jersey number, unique within the participant's roster; coaches and
// staff do not.
type TournamentTeamRosterEntry struct {
	ID            int        `json:"id" db:"id"`
	ParticipantID int        `json:"participant_id" db:"participant_id"`
	UserID        int        `json:"user_id" db:"user_id"`
	Role          RosterRole `json:"role" db:"role"`
	JerseyNumber  *string    `json:"jersey_number,omitempty" db:"jersey_number"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`

	// Gender is populated from UserDelicateInfo on reads where the caller is
	// entitled to see it; never stored on the roster row.
	Gender *string `json:"gender,omitempty" db:"-"`
}
