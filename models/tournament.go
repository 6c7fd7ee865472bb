package models

import "time"

// TournamentType mirrors the ENUM in the database.
type TournamentType string

const (
	TournamentTypeClub     TournamentType = "club"
	TournamentTypeNational TournamentType = "national"
	TournamentTypeRegional TournamentType = "regional"
	TournamentTypeFriendly TournamentType = "friendly"
)

type Tournament struct {
	ID               int            `json:"id" db:"id"`
	Name             string         `json:"name" db:"name"`
	Description      *string        `json:"description,omitempty" db:"description"`
	Type             TournamentType `json:"type" db:"type"`
	StartDate        time.Time      `json:"start_date" db:"start_date"`
	EndDate          time.Time      `json:"end_date" db:"end_date"`
	RegistrationFrom time.Time      `json:"registration_from" db:"registration_from"`
	RegistrationTo   time.Time      `json:"registration_to" db:"registration_to"`
	IsPrivate        bool           `json:"is_private" db:"is_private"`
	RegistrationOpen bool           `json:"registration_open" db:"registration_open"`
	Location         *string        `json:"location,omitempty" db:"location"`
	Country          *string        `json:"country,omitempty" db:"country"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`

	Managers     []User                     `json:"managers,omitempty" db:"-"`
	Participants []TournamentTeamParticipant `json:"participants,omitempty" db:"-"`
}

// IsArchived reports whether the tournament is past its end date. Archival is
// derived, never stored; moving the end date moves the tournament in or out
// of the archived state.
func (t *Tournament) IsArchived(now time.Time) bool {
	return now.After(t.EndDate)
}

// TournamentManager is the (tournament, user) manager relation. A tournament
// keeps at least one manager at all times.
type TournamentManager struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	UserID       int       `json:"user_id" db:"user_id"`
	AddedByID    *int      `json:"added_by_id,omitempty" db:"added_by_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}

// TeamManager is the analogous relation for teams. Teams may have zero
// managers; NGB admins bootstrap the first one.
type TeamManager struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	AddedByID *int      `json:"added_by_id,omitempty" db:"added_by_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
