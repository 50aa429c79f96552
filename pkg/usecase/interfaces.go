package usecase

import (
	"context"

	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// GroupUseCase defines the interface for group registry operations
type GroupUseCase interface {
	// CreateGroup creates a new group owned by the creator
	CreateGroup(ctx context.Context, name types.GroupName, creator types.UserID) (*model.Group, error)

	// DisbandGroup deletes a group, admin-only
	DisbandGroup(ctx context.Context, name types.GroupName, requestor types.UserID) error

	// GetAdmin returns the group's admin identifier
	GetAdmin(ctx context.Context, name types.GroupName) (types.UserID, error)

	// GetMembers returns the group's member list
	GetMembers(ctx context.Context, name types.GroupName) ([]types.UserID, error)

	// LeaveGroup removes the user from the group's member list
	LeaveGroup(ctx context.Context, name types.GroupName, user types.UserID) error
}

// InvitationUseCase defines the interface for the invitation lifecycle
type InvitationUseCase interface {
	// Invite issues a pending invitation from the group admin to a prospective member
	Invite(ctx context.Context, from, to types.UserID, name types.GroupName) (*model.Invitation, error)

	// RevokeInvite deletes pending invitations for the invitee, admin-only, idempotent
	RevokeInvite(ctx context.Context, from, to types.UserID, name types.GroupName) error

	// AcceptInvite accepts a pending invitation and joins the group
	AcceptInvite(ctx context.Context, user types.UserID, name types.GroupName) error

	// RejectInvite rejects a pending invitation without joining
	RejectInvite(ctx context.Context, user types.UserID, name types.GroupName) error

	// ListUserInvites returns all invitations addressed to the user, any status
	ListUserInvites(ctx context.Context, user types.UserID) ([]*model.Invitation, error)

	// ListGroupInvites returns all invitations for the group, admin-only
	ListGroupInvites(ctx context.Context, admin types.UserID, name types.GroupName) ([]*model.Invitation, error)
}

// BoardUseCase defines the interface for board attachment management
type BoardUseCase interface {
	// CreateGroupBoard attaches a board to the group, admin-only
	CreateGroupBoard(ctx context.Context, admin types.UserID, board types.BoardID, name types.GroupName) error

	// DeleteGroupBoard detaches a board from the group, admin-only
	DeleteGroupBoard(ctx context.Context, admin types.UserID, board types.BoardID, name types.GroupName) error

	// ListGroupBoards returns the group's board list
	ListGroupBoards(ctx context.Context, name types.GroupName) ([]types.BoardID, error)
}
