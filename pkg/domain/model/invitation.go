package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// Invitation represents an admin-issued, addressed offer to join a group.
// The status lifecycle is one-way: pending settles to accepted or rejected,
// or the invitation is deleted by revocation while still pending.
type Invitation struct {
	ID        types.InvitationID     `json:"id"`
	From      types.UserID           `json:"from"`
	To        types.UserID           `json:"to"`
	GroupName types.GroupName        `json:"group_name"`
	Status    types.InvitationStatus `json:"status"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// NewInvitation creates a new pending Invitation
func NewInvitation(from, to types.UserID, groupName types.GroupName) (*Invitation, error) {
	if from == "" {
		return nil, goerr.New("inviter user ID is required")
	}
	if to == "" {
		return nil, goerr.New("invitee user ID is required")
	}
	if groupName == "" {
		return nil, goerr.New("group name is required")
	}
	if from == to {
		return nil, goerr.Wrap(ErrInvalidInvitation, "users cannot invite themselves",
			goerr.V("user", from))
	}

	now := time.Now()
	return &Invitation{
		ID:        types.NewInvitationID(),
		From:      from,
		To:        to,
		GroupName: groupName,
		Status:    types.InvitationStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsPending reports whether the invitation can still be accepted, rejected
// or revoked
func (i *Invitation) IsPending() bool {
	return i.Status == types.InvitationStatusPending
}
