package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/interfaces"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// Invitation implements InvitationUseCase. It owns the pending/accepted/
// rejected invitation records between a group admin and prospective members.
//
// Every mutating operation resolves the target group first, then applies the
// admin check where the operation is admin-restricted, and only then touches
// the ledger. Failures are detected before any write.
type Invitation struct {
	repo   interfaces.Repository
	policy *model.Policy
}

// NewInvitation creates a new Invitation use case
func NewInvitation(repo interfaces.Repository, policy *model.Policy) *Invitation {
	if policy == nil {
		policy = model.DefaultPolicy()
	}
	return &Invitation{
		repo:   repo,
		policy: policy,
	}
}

// Invite issues a pending invitation. Admin-only. Fails if the invitee is
// already a member or already holds a pending invitation for the group.
func (u *Invitation) Invite(ctx context.Context, from, to types.UserID, name types.GroupName) (*model.Invitation, error) {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(from) {
		return nil, goerr.Wrap(model.ErrPermissionDenied, "cannot invite to group",
			goerr.V("groupName", name), goerr.V("from", from))
	}
	if group.HasMember(to) {
		return nil, goerr.Wrap(model.ErrAlreadyMember, "cannot invite existing member",
			goerr.V("groupName", name), goerr.V("to", to))
	}

	// At most one pending invitation per (invitee, group)
	if _, err := u.repo.FindPendingInvitation(ctx, to, name); err == nil {
		return nil, goerr.Wrap(model.ErrInvitationExists, "cannot invite user again",
			goerr.V("groupName", name), goerr.V("to", to))
	} else if !errors.Is(err, model.ErrInvitationNotFound) {
		return nil, err
	}

	invitation, err := model.NewInvitation(from, to, name)
	if err != nil {
		return nil, err
	}

	if err := u.repo.PutInvitation(ctx, invitation); err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Info("Invitation issued",
		"groupName", name,
		"from", from,
		"to", to,
		"invitationID", invitation.ID,
	)

	return invitation, nil
}

// RevokeInvite deletes the matching pending invitations. Admin-only.
// Revoking when no pending invitation exists is not an error.
func (u *Invitation) RevokeInvite(ctx context.Context, from, to types.UserID, name types.GroupName) error {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return err
	}
	if !group.IsAdmin(from) {
		return goerr.Wrap(model.ErrPermissionDenied, "cannot revoke invitation",
			goerr.V("groupName", name), goerr.V("from", from))
	}

	if err := u.repo.DeletePendingInvitations(ctx, from, to, name); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Invitation revoked",
		"groupName", name,
		"from", from,
		"to", to,
	)

	return nil
}

// AcceptInvite transitions the user's pending invitation to accepted and
// appends the user to the member list. Both writes happen in one repository
// transaction, so an accepted invitation without the membership cannot occur.
func (u *Invitation) AcceptInvite(ctx context.Context, user types.UserID, name types.GroupName) error {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return err
	}
	if u.policy.MemberLimitReached(len(group.Members)) {
		return goerr.Wrap(model.ErrGroupFull, "cannot join group",
			goerr.V("groupName", name), goerr.V("members", len(group.Members)))
	}

	invitation, err := u.repo.FindPendingInvitation(ctx, user, name)
	if err != nil {
		return err
	}

	if err := u.repo.AcceptInvitation(ctx, invitation.ID); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Invitation accepted",
		"groupName", name,
		"user", user,
		"invitationID", invitation.ID,
	)

	return nil
}

// RejectInvite transitions the user's pending invitation to rejected.
// The member list is never touched.
func (u *Invitation) RejectInvite(ctx context.Context, user types.UserID, name types.GroupName) error {
	if _, err := u.repo.GetGroup(ctx, name); err != nil {
		return err
	}

	invitation, err := u.repo.FindPendingInvitation(ctx, user, name)
	if err != nil {
		return err
	}

	if err := u.repo.SettleInvitation(ctx, invitation.ID, types.InvitationStatusRejected); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Invitation rejected",
		"groupName", name,
		"user", user,
		"invitationID", invitation.ID,
	)

	return nil
}

// ListUserInvites returns all invitations addressed to the user, any status,
// unfiltered by group
func (u *Invitation) ListUserInvites(ctx context.Context, user types.UserID) ([]*model.Invitation, error) {
	return u.repo.ListUserInvitations(ctx, user)
}

// ListGroupInvites returns all invitations for the group. Admin-only.
func (u *Invitation) ListGroupInvites(ctx context.Context, admin types.UserID, name types.GroupName) ([]*model.Invitation, error) {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(admin) {
		return nil, goerr.Wrap(model.ErrPermissionDenied, "cannot list group invitations",
			goerr.V("groupName", name), goerr.V("requestor", admin))
	}

	return u.repo.ListGroupInvitations(ctx, name)
}

var _ InvitationUseCase = (*Invitation)(nil)
