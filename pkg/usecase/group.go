package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/interfaces"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// Group implements GroupUseCase. It owns group existence, creation and
// disbandment, plus explicit member removal.
type Group struct {
	repo   interfaces.Repository
	policy *model.Policy
}

// NewGroup creates a new Group use case
func NewGroup(repo interfaces.Repository, policy *model.Policy) *Group {
	if policy == nil {
		policy = model.DefaultPolicy()
	}
	return &Group{
		repo:   repo,
		policy: policy,
	}
}

// CreateGroup creates a new group with empty member and board lists,
// admin = creator. Fails if the name is taken or reserved.
func (u *Group) CreateGroup(ctx context.Context, name types.GroupName, creator types.UserID) (*model.Group, error) {
	if u.policy.IsReserved(name) {
		return nil, goerr.Wrap(model.ErrNameReserved, "cannot create group",
			goerr.V("groupName", name))
	}

	group, err := model.NewGroup(name, creator)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build group model")
	}

	if err := u.repo.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Info("Group created",
		"groupName", name,
		"admin", creator,
	)

	return group, nil
}

// DisbandGroup deletes the group record. Admin-only. Related invitations are
// deliberately kept as an audit trail, there is no cascade.
func (u *Group) DisbandGroup(ctx context.Context, name types.GroupName, requestor types.UserID) error {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return err
	}
	if !group.IsAdmin(requestor) {
		return goerr.Wrap(model.ErrPermissionDenied, "cannot disband group",
			goerr.V("groupName", name), goerr.V("requestor", requestor))
	}

	if err := u.repo.DeleteGroup(ctx, name); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Group disbanded",
		"groupName", name,
		"admin", requestor,
	)

	return nil
}

// GetAdmin returns the admin identifier of the group
func (u *Group) GetAdmin(ctx context.Context, name types.GroupName) (types.UserID, error) {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return "", err
	}
	return group.Admin, nil
}

// GetMembers returns the member list of the group
func (u *Group) GetMembers(ctx context.Context, name types.GroupName) ([]types.UserID, error) {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	return group.Members, nil
}

// LeaveGroup removes the user from the member list. The admin cannot leave
// their own group; disbanding is the only exit for an admin.
func (u *Group) LeaveGroup(ctx context.Context, name types.GroupName, user types.UserID) error {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return err
	}
	if group.IsAdmin(user) {
		return goerr.Wrap(model.ErrPermissionDenied, "admin cannot leave own group",
			goerr.V("groupName", name), goerr.V("user", user))
	}

	if err := u.repo.RemoveMember(ctx, name, user); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Member left group",
		"groupName", name,
		"user", user,
	)

	return nil
}

var _ GroupUseCase = (*Group)(nil)
