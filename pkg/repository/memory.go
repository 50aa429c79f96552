package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/interfaces"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu          sync.RWMutex
	groups      map[types.GroupName]*model.Group
	invitations map[types.InvitationID]*model.Invitation
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		groups:      make(map[types.GroupName]*model.Group),
		invitations: make(map[types.InvitationID]*model.Invitation),
	}
}

// CreateGroup saves a new group, failing if the name is already taken
func (m *Memory) CreateGroup(ctx context.Context, group *model.Group) error {
	if group == nil {
		return goerr.New("group is nil")
	}
	if group.Name == "" {
		return goerr.New("group name is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.groups[group.Name]; exists {
		return goerr.Wrap(model.ErrGroupExists, "failed to create group",
			goerr.V("groupName", group.Name))
	}

	m.groups[group.Name] = group.Clone()
	return nil
}

// GetGroup retrieves a group by name
func (m *Memory) GetGroup(ctx context.Context, name types.GroupName) (*model.Group, error) {
	if name == "" {
		return nil, goerr.New("group name is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	group, exists := m.groups[name]
	if !exists {
		return nil, goerr.Wrap(model.ErrGroupNotFound, "failed to get group",
			goerr.V("groupName", name))
	}

	// Return a copy to prevent external modification
	return group.Clone(), nil
}

// DeleteGroup deletes a group by name. Related invitations are kept as an
// audit trail, there is no cascade.
func (m *Memory) DeleteGroup(ctx context.Context, name types.GroupName) error {
	if name == "" {
		return goerr.New("group name is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.groups[name]; !exists {
		return goerr.Wrap(model.ErrGroupNotFound, "failed to delete group",
			goerr.V("groupName", name))
	}

	delete(m.groups, name)
	return nil
}

// AddMember appends a user to the group's member list if absent
func (m *Memory) AddMember(ctx context.Context, name types.GroupName, user types.UserID) error {
	if user == "" {
		return goerr.New("user ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	group, exists := m.groups[name]
	if !exists {
		return goerr.Wrap(model.ErrGroupNotFound, "failed to add member",
			goerr.V("groupName", name))
	}
	if group.HasMember(user) {
		return goerr.Wrap(model.ErrAlreadyMember, "failed to add member",
			goerr.V("groupName", name), goerr.V("user", user))
	}

	group.Members = append(group.Members, user)
	return nil
}

// RemoveMember removes a user from the group's member list
func (m *Memory) RemoveMember(ctx context.Context, name types.GroupName, user types.UserID) error {
	if user == "" {
		return goerr.New("user ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	group, exists := m.groups[name]
	if !exists {
		return goerr.Wrap(model.ErrGroupNotFound, "failed to remove member",
			goerr.V("groupName", name))
	}

	for i, member := range group.Members {
		if member == user {
			group.Members = append(group.Members[:i], group.Members[i+1:]...)
			return nil
		}
	}

	return goerr.Wrap(model.ErrNotMember, "failed to remove member",
		goerr.V("groupName", name), goerr.V("user", user))
}

// AddBoard attaches a board to the group if not already attached
func (m *Memory) AddBoard(ctx context.Context, name types.GroupName, board types.BoardID) error {
	if board == "" {
		return goerr.New("board ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	group, exists := m.groups[name]
	if !exists {
		return goerr.Wrap(model.ErrGroupNotFound, "failed to add board",
			goerr.V("groupName", name))
	}
	if group.HasBoard(board) {
		return goerr.Wrap(model.ErrBoardExists, "failed to add board",
			goerr.V("groupName", name), goerr.V("board", board))
	}

	group.Boards = append(group.Boards, board)
	return nil
}

// RemoveBoard detaches a board from the group
func (m *Memory) RemoveBoard(ctx context.Context, name types.GroupName, board types.BoardID) error {
	if board == "" {
		return goerr.New("board ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	group, exists := m.groups[name]
	if !exists {
		return goerr.Wrap(model.ErrGroupNotFound, "failed to remove board",
			goerr.V("groupName", name))
	}

	for i, b := range group.Boards {
		if b == board {
			group.Boards = append(group.Boards[:i], group.Boards[i+1:]...)
			return nil
		}
	}

	return goerr.Wrap(model.ErrBoardNotFound, "failed to remove board",
		goerr.V("groupName", name), goerr.V("board", board))
}

// PutInvitation saves an invitation
func (m *Memory) PutInvitation(ctx context.Context, invitation *model.Invitation) error {
	if invitation == nil {
		return goerr.New("invitation is nil")
	}
	if invitation.ID == "" {
		return goerr.New("invitation ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Deep copy to prevent external modifications
	invitationCopy := *invitation
	m.invitations[invitation.ID] = &invitationCopy

	return nil
}

// GetInvitation retrieves an invitation by ID
func (m *Memory) GetInvitation(ctx context.Context, id types.InvitationID) (*model.Invitation, error) {
	if id == "" {
		return nil, goerr.New("invitation ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	invitation, exists := m.invitations[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrInvitationNotFound, "failed to get invitation",
			goerr.V("invitationID", id))
	}

	invitationCopy := *invitation
	return &invitationCopy, nil
}

// FindPendingInvitation finds a pending invitation addressed to the user for
// the group. Settled invitations never match.
func (m *Memory) FindPendingInvitation(ctx context.Context, to types.UserID, name types.GroupName) (*model.Invitation, error) {
	if to == "" {
		return nil, goerr.New("user ID is empty")
	}
	if name == "" {
		return nil, goerr.New("group name is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, invitation := range m.invitations {
		if invitation.To == to && invitation.GroupName == name && invitation.IsPending() {
			invitationCopy := *invitation
			return &invitationCopy, nil
		}
	}

	return nil, goerr.Wrap(model.ErrInvitationNotFound, "no pending invitation for user",
		goerr.V("user", to), goerr.V("groupName", name))
}

// ListUserInvitations lists all invitations addressed to the user, any status
func (m *Memory) ListUserInvitations(ctx context.Context, to types.UserID) ([]*model.Invitation, error) {
	if to == "" {
		return nil, goerr.New("user ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	invitations := make([]*model.Invitation, 0)
	for _, invitation := range m.invitations {
		if invitation.To == to {
			invitationCopy := *invitation
			invitations = append(invitations, &invitationCopy)
		}
	}

	sortInvitations(invitations)
	return invitations, nil
}

// ListGroupInvitations lists all invitations for the group, any status
func (m *Memory) ListGroupInvitations(ctx context.Context, name types.GroupName) ([]*model.Invitation, error) {
	if name == "" {
		return nil, goerr.New("group name is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	invitations := make([]*model.Invitation, 0)
	for _, invitation := range m.invitations {
		if invitation.GroupName == name {
			invitationCopy := *invitation
			invitations = append(invitations, &invitationCopy)
		}
	}

	sortInvitations(invitations)
	return invitations, nil
}

// AcceptInvitation flips a pending invitation to accepted and appends the
// invitee to the group's member list as one atomic step
func (m *Memory) AcceptInvitation(ctx context.Context, id types.InvitationID) error {
	if id == "" {
		return goerr.New("invitation ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	invitation, exists := m.invitations[id]
	if !exists {
		return goerr.Wrap(model.ErrInvitationNotFound, "failed to accept invitation",
			goerr.V("invitationID", id))
	}
	if !invitation.IsPending() {
		return goerr.Wrap(model.ErrInvitationClosed, "failed to accept invitation",
			goerr.V("invitationID", id), goerr.V("status", invitation.Status))
	}

	group, exists := m.groups[invitation.GroupName]
	if !exists {
		return goerr.Wrap(model.ErrGroupNotFound, "failed to accept invitation",
			goerr.V("groupName", invitation.GroupName))
	}
	if group.HasMember(invitation.To) {
		return goerr.Wrap(model.ErrAlreadyMember, "failed to accept invitation",
			goerr.V("groupName", invitation.GroupName), goerr.V("user", invitation.To))
	}

	invitation.Status = types.InvitationStatusAccepted
	invitation.UpdatedAt = time.Now()
	group.Members = append(group.Members, invitation.To)

	return nil
}

// SettleInvitation transitions a pending invitation to the given terminal
// status without any membership side effect
func (m *Memory) SettleInvitation(ctx context.Context, id types.InvitationID, status types.InvitationStatus) error {
	if id == "" {
		return goerr.New("invitation ID is empty")
	}
	if !status.IsSettled() {
		return goerr.New("status must be terminal", goerr.V("status", status))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	invitation, exists := m.invitations[id]
	if !exists {
		return goerr.Wrap(model.ErrInvitationNotFound, "failed to settle invitation",
			goerr.V("invitationID", id))
	}
	if !invitation.IsPending() {
		return goerr.Wrap(model.ErrInvitationClosed, "failed to settle invitation",
			goerr.V("invitationID", id), goerr.V("status", invitation.Status))
	}

	invitation.Status = status
	invitation.UpdatedAt = time.Now()
	return nil
}

// DeletePendingInvitations deletes pending invitations matching the filter.
// Deleting zero matches is not an error.
func (m *Memory) DeletePendingInvitations(ctx context.Context, from, to types.UserID, name types.GroupName) error {
	if to == "" {
		return goerr.New("invitee user ID is empty")
	}
	if name == "" {
		return goerr.New("group name is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, invitation := range m.invitations {
		if invitation.From == from && invitation.To == to &&
			invitation.GroupName == name && invitation.IsPending() {
			delete(m.invitations, id)
		}
	}

	return nil
}

// Close does nothing for memory repository
func (m *Memory) Close() error {
	return nil
}

// Clear clears all data (useful for testing)
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = make(map[types.GroupName]*model.Group)
	m.invitations = make(map[types.InvitationID]*model.Invitation)
}

// sortInvitations orders invitations by creation time (oldest first)
func sortInvitations(invitations []*model.Invitation) {
	sort.Slice(invitations, func(i, j int) bool {
		return invitations[i].CreatedAt.Before(invitations[j].CreatedAt)
	})
}

var _ interfaces.Repository = (*Memory)(nil) // Compile-time interface check
