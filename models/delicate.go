package models

import "time"

// UserDelicateInfo is a 1:1 sensitive-attribute record kept apart from the
// main user row. Readable by its owner and by managers of tournaments the
// owner is rostered in; deletable by the owner at any time.
type UserDelicateInfo struct {
	UserID    int       `json:"user_id" db:"user_id"`
	Gender    string    `json:"gender" db:"gender"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
