package types

import (
	"github.com/google/uuid"
)

// UserID represents an opaque user identifier resolved by the upstream auth layer
type UserID string

// String returns the string representation
func (id UserID) String() string {
	return string(id)
}

// GroupName represents a human-chosen group name, unique across all groups
type GroupName string

// String returns the string representation
func (n GroupName) String() string {
	return string(n)
}

// BoardID represents an opaque board content identifier created elsewhere
type BoardID string

// String returns the string representation
func (id BoardID) String() string {
	return string(id)
}

// InvitationID represents an invitation identifier
type InvitationID string

// String returns the string representation
func (id InvitationID) String() string {
	return string(id)
}

// NewInvitationID creates a new InvitationID
func NewInvitationID() InvitationID {
	return InvitationID(uuid.New().String())
}

// InvitationStatus represents the status of an invitation
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRejected InvitationStatus = "rejected"
)

// String returns the string representation of the status
func (s InvitationStatus) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s InvitationStatus) IsValid() bool {
	switch s {
	case InvitationStatusPending, InvitationStatusAccepted, InvitationStatusRejected:
		return true
	default:
		return false
	}
}

// IsSettled reports whether the status is terminal. Settled invitations never
// transition again.
func (s InvitationStatus) IsSettled() bool {
	return s == InvitationStatusAccepted || s == InvitationStatusRejected
}
