package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	NGBID     int       `json:"ngb_id" db:"ngb_id"`
	Name      string    `json:"name" db:"name"`
	City      *string   `json:"city,omitempty" db:"city"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Managers []User `json:"managers,omitempty" db:"-"`
	Members  []User `json:"members,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

// TeamMember records plain membership, the pool roster entries draw from.
type TeamMember struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
