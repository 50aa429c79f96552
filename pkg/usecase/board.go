package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/interfaces"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// Board implements BoardUseCase. Boards are opaque content identifiers
// created elsewhere; this use case only manages their attachment to groups.
type Board struct {
	repo   interfaces.Repository
	policy *model.Policy
}

// NewBoard creates a new Board use case
func NewBoard(repo interfaces.Repository, policy *model.Policy) *Board {
	if policy == nil {
		policy = model.DefaultPolicy()
	}
	return &Board{
		repo:   repo,
		policy: policy,
	}
}

// CreateGroupBoard attaches a board to the group. Admin-only.
func (u *Board) CreateGroupBoard(ctx context.Context, admin types.UserID, board types.BoardID, name types.GroupName) error {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return err
	}
	if !group.IsAdmin(admin) {
		return goerr.Wrap(model.ErrPermissionDenied, "cannot attach board",
			goerr.V("groupName", name), goerr.V("requestor", admin))
	}
	if u.policy.BoardLimitReached(len(group.Boards)) {
		return goerr.Wrap(model.ErrGroupFull, "cannot attach board",
			goerr.V("groupName", name), goerr.V("boards", len(group.Boards)))
	}

	if err := u.repo.AddBoard(ctx, name, board); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Board attached",
		"groupName", name,
		"board", board,
	)

	return nil
}

// DeleteGroupBoard detaches a board from the group. Admin-only. Fails with
// not-found if the board is not attached.
func (u *Board) DeleteGroupBoard(ctx context.Context, admin types.UserID, board types.BoardID, name types.GroupName) error {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return err
	}
	if !group.IsAdmin(admin) {
		return goerr.Wrap(model.ErrPermissionDenied, "cannot detach board",
			goerr.V("groupName", name), goerr.V("requestor", admin))
	}

	if err := u.repo.RemoveBoard(ctx, name, board); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Board detached",
		"groupName", name,
		"board", board,
	)

	return nil
}

// ListGroupBoards returns the board list of the group
func (u *Board) ListGroupBoards(ctx context.Context, name types.GroupName) ([]types.BoardID, error) {
	group, err := u.repo.GetGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	return group.Boards, nil
}

var _ BoardUseCase = (*Board)(nil)
