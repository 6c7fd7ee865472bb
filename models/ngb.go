package models

import "time"

// NationalGoverningBody is the top-level tenant owning teams and admins.
type NationalGoverningBody struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Country   string    `json:"country" db:"country"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

type NGBAdmin struct {
	ID        int       `json:"id" db:"id"`
	NGBID     int       `json:"ngb_id" db:"ngb_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
