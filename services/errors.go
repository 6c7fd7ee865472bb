package services

import "errors"

// Shared service-layer errors, mapped to HTTP statuses in the handlers.
// The "archived" and "last manager" substrings are part of the API contract
// and are asserted by callers; do not reword them.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrInvalidEmail           = errors.New("email address is malformed")
	ErrUserDoesNotExist       = errors.New("no account exists for this email")
	ErrTournamentArchived     = errors.New("tournament is archived")
	ErrLastManagerRemoval     = errors.New("cannot remove the last manager of a tournament")
	ErrRosterUserNotInTeam    = errors.New("roster entry references a user who is not a member of the team")
	ErrDuplicateJerseyNumber  = errors.New("jersey numbers must be unique within a roster")
	ErrPlayerNumberRequired   = errors.New("player roster entries require a jersey number")
	ErrDuplicateRosterUser    = errors.New("a user may appear only once in a roster")
	ErrUnknownCertification   = errors.New("unknown certification level")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrTournamentInvalidDates = errors.New("tournament end date must be after start date")
	ErrUnsupportedAvatarType  = errors.New("unsupported avatar content type")

	// Conflicts
	ErrDuplicateInvite     = errors.New("a pending or approved invite already exists for this team")
	ErrParticipantConflict = errors.New("team is already a participant of this tournament")
	ErrUserEmailConflict   = errors.New("email address is already in use")
	ErrTournamentNameTaken = errors.New("tournament name already exists")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found (more context than the bare ErrNotFound)
	ErrUserNotFound        = errors.New("user not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrNGBNotFound         = errors.New("national governing body not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("tournament participant not found")
	ErrInviteNotFound      = errors.New("tournament invite not found")
	ErrManagerNotFound     = errors.New("manager relation not found")
	ErrGenderNotRecorded   = errors.New("no gender record exists for this user")
)
