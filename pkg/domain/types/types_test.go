package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

func TestInvitationStatus(t *testing.T) {
	t.Run("valid statuses", func(t *testing.T) {
		gt.True(t, types.InvitationStatusPending.IsValid())
		gt.True(t, types.InvitationStatusAccepted.IsValid())
		gt.True(t, types.InvitationStatusRejected.IsValid())
	})

	t.Run("invalid status", func(t *testing.T) {
		gt.False(t, types.InvitationStatus("expired").IsValid())
		gt.False(t, types.InvitationStatus("").IsValid())
	})

	t.Run("settled statuses are terminal", func(t *testing.T) {
		gt.False(t, types.InvitationStatusPending.IsSettled())
		gt.True(t, types.InvitationStatusAccepted.IsSettled())
		gt.True(t, types.InvitationStatusRejected.IsSettled())
	})
}

func TestNewInvitationID(t *testing.T) {
	id1 := types.NewInvitationID()
	id2 := types.NewInvitationID()

	gt.True(t, id1 != "")
	gt.True(t, id1 != id2)
}
