package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/domain/types"
	"github.com/trailhead-social/caravan/pkg/repository"
	"github.com/trailhead-social/caravan/pkg/usecase"
)

func TestGroupCreate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	groupUC := usecase.NewGroup(repo, nil)

	group, err := groupUC.CreateGroup(ctx, "hikers", "alice")
	gt.NoError(t, err)
	gt.Equal(t, types.UserID("alice"), group.Admin)
	gt.Equal(t, 0, len(group.Members))

	// Creating the same name again fails and leaves exactly one record
	_, err = groupUC.CreateGroup(ctx, "hikers", "mallory")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrGroupExists))

	admin, err := groupUC.GetAdmin(ctx, "hikers")
	gt.NoError(t, err)
	gt.Equal(t, types.UserID("alice"), admin)
}

func TestGroupCreate_ReservedName(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	policy := &model.Policy{ReservedNames: []string{"staff"}}
	groupUC := usecase.NewGroup(repo, policy)

	_, err := groupUC.CreateGroup(ctx, "Staff", "alice")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrNameReserved))

	_, err = repo.GetGroup(ctx, "Staff")
	gt.True(t, errors.Is(err, model.ErrGroupNotFound))
}

func TestGroupDisband(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	groupUC := usecase.NewGroup(repo, nil)

	_, err := groupUC.CreateGroup(ctx, "hikers", "alice")
	gt.NoError(t, err)

	// Non-admin cannot disband, the group record is unchanged
	err = groupUC.DisbandGroup(ctx, "hikers", "bob")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrPermissionDenied))

	group, err := repo.GetGroup(ctx, "hikers")
	gt.NoError(t, err)
	gt.Equal(t, types.UserID("alice"), group.Admin)

	gt.NoError(t, groupUC.DisbandGroup(ctx, "hikers", "alice"))

	_, err = repo.GetGroup(ctx, "hikers")
	gt.True(t, errors.Is(err, model.ErrGroupNotFound))

	// Disbanding a missing group fails with not found
	err = groupUC.DisbandGroup(ctx, "hikers", "alice")
	gt.True(t, errors.Is(err, model.ErrGroupNotFound))
}

func TestGroupReads_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	groupUC := usecase.NewGroup(repo, nil)

	_, err := groupUC.GetAdmin(ctx, "ghost")
	gt.True(t, errors.Is(err, model.ErrGroupNotFound))

	_, err = groupUC.GetMembers(ctx, "ghost")
	gt.True(t, errors.Is(err, model.ErrGroupNotFound))
}

func TestGroupLeave(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	groupUC := usecase.NewGroup(repo, nil)

	_, err := groupUC.CreateGroup(ctx, "hikers", "alice")
	gt.NoError(t, err)
	gt.NoError(t, repo.AddMember(ctx, "hikers", "bob"))

	gt.NoError(t, groupUC.LeaveGroup(ctx, "hikers", "bob"))

	members, err := groupUC.GetMembers(ctx, "hikers")
	gt.NoError(t, err)
	gt.Equal(t, 0, len(members))

	// Leaving when not a member fails
	err = groupUC.LeaveGroup(ctx, "hikers", "bob")
	gt.True(t, errors.Is(err, model.ErrNotMember))

	// The admin cannot leave their own group
	err = groupUC.LeaveGroup(ctx, "hikers", "alice")
	gt.True(t, errors.Is(err, model.ErrPermissionDenied))
}
