package interfaces

import (
	"context"

	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// Repository defines the interface for data persistence.
//
// Member and board list mutations are atomic add-if-absent / remove-if-present
// operations so concurrent callers never lose updates, and AcceptInvitation
// performs the status flip and the member append in a single transaction so a
// crash cannot leave an accepted invitation without the matching membership.
type Repository interface {
	// Group operations
	CreateGroup(ctx context.Context, group *model.Group) error
	GetGroup(ctx context.Context, name types.GroupName) (*model.Group, error)
	DeleteGroup(ctx context.Context, name types.GroupName) error
	AddMember(ctx context.Context, name types.GroupName, user types.UserID) error
	RemoveMember(ctx context.Context, name types.GroupName, user types.UserID) error
	AddBoard(ctx context.Context, name types.GroupName, board types.BoardID) error
	RemoveBoard(ctx context.Context, name types.GroupName, board types.BoardID) error

	// Invitation operations
	PutInvitation(ctx context.Context, invitation *model.Invitation) error
	GetInvitation(ctx context.Context, id types.InvitationID) (*model.Invitation, error)
	FindPendingInvitation(ctx context.Context, to types.UserID, name types.GroupName) (*model.Invitation, error)
	ListUserInvitations(ctx context.Context, to types.UserID) ([]*model.Invitation, error)
	ListGroupInvitations(ctx context.Context, name types.GroupName) ([]*model.Invitation, error)
	AcceptInvitation(ctx context.Context, id types.InvitationID) error
	SettleInvitation(ctx context.Context, id types.InvitationID, status types.InvitationStatus) error
	DeletePendingInvitations(ctx context.Context, from, to types.UserID, name types.GroupName) error

	// Close closes the repository connection
	Close() error
}
