package models

import "time"

// ApprovalStatus is one side's answer in the dual-approval negotiation.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// InviteStatus is the derived overall state of an invite.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusApproved InviteStatus = "approved"
	InviteStatusRejected InviteStatus = "rejected"
)

// TournamentInvite is one proposed participation of a team in a tournament.
// Either side may initiate; the initiator's side is approved at creation.
// Rejected invites are kept as inert history rows and never block a new
// invite for the same pair.
type TournamentInvite struct {
	ID                          int            `json:"id" db:"id"`
	TournamentID                int            `json:"tournament_id" db:"tournament_id"`
	TeamID                      int            `json:"team_id" db:"team_id"`
	InitiatorID                 int            `json:"initiator_id" db:"initiator_id"`
	TournamentManagerApproval   ApprovalStatus `json:"tournament_manager_approval" db:"tournament_manager_approval"`
	TournamentManagerApprovedAt *time.Time     `json:"tournament_manager_approved_at,omitempty" db:"tournament_manager_approved_at"`
	ParticipantApproval         ApprovalStatus `json:"participant_approval" db:"participant_approval"`
	ParticipantApprovedAt       *time.Time     `json:"participant_approved_at,omitempty" db:"participant_approved_at"`
	CreatedAt                   time.Time      `json:"created_at" db:"created_at"`

	Team       *Team       `json:"team,omitempty" db:"-"`
	Tournament *Tournament `json:"tournament,omitempty" db:"-"`
}

// OverallStatus derives the invite status from the two sides: approved iff
// both approved, rejected iff either rejected, pending otherwise.
func (i *TournamentInvite) OverallStatus() InviteStatus {
	switch {
	case i.TournamentManagerApproval == ApprovalRejected || i.ParticipantApproval == ApprovalRejected:
		return InviteStatusRejected
	case i.TournamentManagerApproval == ApprovalApproved && i.ParticipantApproval == ApprovalApproved:
		return InviteStatusApproved
	default:
		return InviteStatusPending
	}
}
