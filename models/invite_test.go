package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverallStatus(t *testing.T) {
	cases := []struct {
		name        string
		manager     ApprovalStatus
		participant ApprovalStatus
		want        InviteStatus
	}{
		{"both pending", ApprovalPending, ApprovalPending, InviteStatusPending},
		{"manager approved only", ApprovalApproved, ApprovalPending, InviteStatusPending},
		{"participant approved only", ApprovalPending, ApprovalApproved, InviteStatusPending},
		{"both approved", ApprovalApproved, ApprovalApproved, InviteStatusApproved},
		{"manager rejected", ApprovalRejected, ApprovalPending, InviteStatusRejected},
		{"participant rejected", ApprovalPending, ApprovalRejected, InviteStatusRejected},
		{"rejection beats approval", ApprovalApproved, ApprovalRejected, InviteStatusRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			invite := &TournamentInvite{
				TournamentManagerApproval: tc.manager,
				ParticipantApproval:       tc.participant,
			}
			assert.Equal(t, tc.want, invite.OverallStatus())
		})
	}
}
