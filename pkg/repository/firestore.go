package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/interfaces"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	groupsCollection      = "groups"
	invitationsCollection = "invitations"

	// Field names in Firestore match Go struct field names
	fieldMembers   = "Members"
	fieldBoards    = "Boards"
	fieldStatus    = "Status"
	fieldUpdatedAt = "UpdatedAt"
	fieldFrom      = "From"
	fieldTo        = "To"
	fieldGroupName = "GroupName"
)

// Firestore implements Repository interface with Firestore.
// Group documents are keyed by group name, so name uniqueness is enforced by
// the store itself. Invitation documents are keyed by their UUID.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Test connection by attempting to read from a collection
	// This will fail fast if the project ID is invalid or if there are permission issues
	_, err = client.Collection(groupsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		// For other errors (like NotFound for new projects), log but continue
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// CreateGroup saves a new group, failing if the name is already taken
func (f *Firestore) CreateGroup(ctx context.Context, group *model.Group) error {
	if group == nil {
		return goerr.New("group is nil")
	}
	if group.Name == "" {
		return goerr.New("group name is empty")
	}

	_, err := f.client.Collection(groupsCollection).Doc(group.Name.String()).Create(ctx, group)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(model.ErrGroupExists, "failed to create group",
				goerr.V("groupName", group.Name))
		}
		return goerr.Wrap(err, "failed to create group in firestore")
	}

	return nil
}

// GetGroup retrieves a group by name
func (f *Firestore) GetGroup(ctx context.Context, name types.GroupName) (*model.Group, error) {
	if name == "" {
		return nil, goerr.New("group name is empty")
	}

	doc, err := f.client.Collection(groupsCollection).Doc(name.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrGroupNotFound, "failed to get group",
				goerr.V("groupName", name))
		}
		return nil, goerr.Wrap(err, "failed to get group from firestore")
	}

	var group model.Group
	if err := doc.DataTo(&group); err != nil {
		return nil, goerr.Wrap(err, "failed to decode group")
	}

	return &group, nil
}

// DeleteGroup deletes a group by name. Invitations are kept, there is no cascade.
func (f *Firestore) DeleteGroup(ctx context.Context, name types.GroupName) error {
	if name == "" {
		return goerr.New("group name is empty")
	}

	docRef := f.client.Collection(groupsCollection).Doc(name.String())
	_, err := docRef.Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound || status.Code(err) == codes.FailedPrecondition {
			return goerr.Wrap(model.ErrGroupNotFound, "failed to delete group",
				goerr.V("groupName", name))
		}
		return goerr.Wrap(err, "failed to delete group from firestore")
	}

	return nil
}

// AddMember appends a user to the group's member list if absent
func (f *Firestore) AddMember(ctx context.Context, name types.GroupName, user types.UserID) error {
	if user == "" {
		return goerr.New("user ID is empty")
	}

	return f.runGroupTransaction(ctx, name, func(group *model.Group) ([]firestore.Update, error) {
		if group.HasMember(user) {
			return nil, goerr.Wrap(model.ErrAlreadyMember, "failed to add member",
				goerr.V("groupName", name), goerr.V("user", user))
		}
		return []firestore.Update{
			{Path: fieldMembers, Value: append(group.Members, user)},
		}, nil
	})
}

// RemoveMember removes a user from the group's member list
func (f *Firestore) RemoveMember(ctx context.Context, name types.GroupName, user types.UserID) error {
	if user == "" {
		return goerr.New("user ID is empty")
	}

	return f.runGroupTransaction(ctx, name, func(group *model.Group) ([]firestore.Update, error) {
		for i, member := range group.Members {
			if member == user {
				members := append(append([]types.UserID{}, group.Members[:i]...), group.Members[i+1:]...)
				return []firestore.Update{
					{Path: fieldMembers, Value: members},
				}, nil
			}
		}
		return nil, goerr.Wrap(model.ErrNotMember, "failed to remove member",
			goerr.V("groupName", name), goerr.V("user", user))
	})
}

// AddBoard attaches a board to the group if not already attached
func (f *Firestore) AddBoard(ctx context.Context, name types.GroupName, board types.BoardID) error {
	if board == "" {
		return goerr.New("board ID is empty")
	}

	return f.runGroupTransaction(ctx, name, func(group *model.Group) ([]firestore.Update, error) {
		if group.HasBoard(board) {
			return nil, goerr.Wrap(model.ErrBoardExists, "failed to add board",
				goerr.V("groupName", name), goerr.V("board", board))
		}
		return []firestore.Update{
			{Path: fieldBoards, Value: append(group.Boards, board)},
		}, nil
	})
}

// RemoveBoard detaches a board from the group
func (f *Firestore) RemoveBoard(ctx context.Context, name types.GroupName, board types.BoardID) error {
	if board == "" {
		return goerr.New("board ID is empty")
	}

	return f.runGroupTransaction(ctx, name, func(group *model.Group) ([]firestore.Update, error) {
		for i, b := range group.Boards {
			if b == board {
				boards := append(append([]types.BoardID{}, group.Boards[:i]...), group.Boards[i+1:]...)
				return []firestore.Update{
					{Path: fieldBoards, Value: boards},
				}, nil
			}
		}
		return nil, goerr.Wrap(model.ErrBoardNotFound, "failed to remove board",
			goerr.V("groupName", name), goerr.V("board", board))
	})
}

// runGroupTransaction reads the group document in a transaction, derives the
// field updates via fn and writes them back. The transaction gives the
// add-if-absent / remove-if-present semantics concurrent list mutations need.
func (f *Firestore) runGroupTransaction(ctx context.Context, name types.GroupName, fn func(group *model.Group) ([]firestore.Update, error)) error {
	if name == "" {
		return goerr.New("group name is empty")
	}

	docRef := f.client.Collection(groupsCollection).Doc(name.String())

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrGroupNotFound, "group not found in transaction",
					goerr.V("groupName", name))
			}
			return goerr.Wrap(err, "failed to get group in transaction")
		}

		var group model.Group
		if err := doc.DataTo(&group); err != nil {
			return goerr.Wrap(err, "failed to decode group")
		}

		updates, err := fn(&group)
		if err != nil {
			return err
		}

		return tx.Update(docRef, updates)
	})
	if err != nil {
		return err
	}

	return nil
}

// PutInvitation saves an invitation
func (f *Firestore) PutInvitation(ctx context.Context, invitation *model.Invitation) error {
	if invitation == nil {
		return goerr.New("invitation is nil")
	}
	if invitation.ID == "" {
		return goerr.New("invitation ID is empty")
	}

	_, err := f.client.Collection(invitationsCollection).Doc(invitation.ID.String()).Set(ctx, invitation)
	if err != nil {
		return goerr.Wrap(err, "failed to save invitation to firestore")
	}

	return nil
}

// GetInvitation retrieves an invitation by ID
func (f *Firestore) GetInvitation(ctx context.Context, id types.InvitationID) (*model.Invitation, error) {
	if id == "" {
		return nil, goerr.New("invitation ID is empty")
	}

	doc, err := f.client.Collection(invitationsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrInvitationNotFound, "failed to get invitation",
				goerr.V("invitationID", id))
		}
		return nil, goerr.Wrap(err, "failed to get invitation from firestore")
	}

	var invitation model.Invitation
	if err := doc.DataTo(&invitation); err != nil {
		return nil, goerr.Wrap(err, "failed to decode invitation")
	}

	return &invitation, nil
}

// FindPendingInvitation finds a pending invitation addressed to the user for the group
func (f *Firestore) FindPendingInvitation(ctx context.Context, to types.UserID, name types.GroupName) (*model.Invitation, error) {
	if to == "" {
		return nil, goerr.New("user ID is empty")
	}
	if name == "" {
		return nil, goerr.New("group name is empty")
	}

	query := f.client.Collection(invitationsCollection).
		Where(fieldTo, "==", to.String()).
		Where(fieldGroupName, "==", name.String()).
		Where(fieldStatus, "==", types.InvitationStatusPending.String()).
		Limit(1)

	iter := query.Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(model.ErrInvitationNotFound, "no pending invitation for user",
			goerr.V("user", to), goerr.V("groupName", name))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query invitations")
	}

	var invitation model.Invitation
	if err := doc.DataTo(&invitation); err != nil {
		return nil, goerr.Wrap(err, "failed to decode invitation")
	}

	return &invitation, nil
}

// ListUserInvitations lists all invitations addressed to the user, any status
func (f *Firestore) ListUserInvitations(ctx context.Context, to types.UserID) ([]*model.Invitation, error) {
	if to == "" {
		return nil, goerr.New("user ID is empty")
	}

	query := f.client.Collection(invitationsCollection).
		Where(fieldTo, "==", to.String())

	return f.collectInvitations(ctx, query)
}

// ListGroupInvitations lists all invitations for the group, any status
func (f *Firestore) ListGroupInvitations(ctx context.Context, name types.GroupName) ([]*model.Invitation, error) {
	if name == "" {
		return nil, goerr.New("group name is empty")
	}

	query := f.client.Collection(invitationsCollection).
		Where(fieldGroupName, "==", name.String())

	return f.collectInvitations(ctx, query)
}

// collectInvitations drains a query into invitation models, sorted oldest first
func (f *Firestore) collectInvitations(ctx context.Context, query firestore.Query) ([]*model.Invitation, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	invitations := make([]*model.Invitation, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate invitations")
		}

		var invitation model.Invitation
		if err := doc.DataTo(&invitation); err != nil {
			return nil, goerr.Wrap(err, "failed to decode invitation")
		}

		invitations = append(invitations, &invitation)
	}

	// Sort in memory to avoid requiring a composite index
	sortInvitations(invitations)
	return invitations, nil
}

// AcceptInvitation flips a pending invitation to accepted and appends the
// invitee to the group's member list in a single transaction, so a partial
// state (accepted invitation without membership) is impossible
func (f *Firestore) AcceptInvitation(ctx context.Context, id types.InvitationID) error {
	if id == "" {
		return goerr.New("invitation ID is empty")
	}

	invRef := f.client.Collection(invitationsCollection).Doc(id.String())

	return f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		invDoc, err := tx.Get(invRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrInvitationNotFound, "invitation not found in transaction",
					goerr.V("invitationID", id))
			}
			return goerr.Wrap(err, "failed to get invitation in transaction")
		}

		var invitation model.Invitation
		if err := invDoc.DataTo(&invitation); err != nil {
			return goerr.Wrap(err, "failed to decode invitation")
		}
		if !invitation.IsPending() {
			return goerr.Wrap(model.ErrInvitationClosed, "failed to accept invitation",
				goerr.V("invitationID", id), goerr.V("status", invitation.Status))
		}

		groupRef := f.client.Collection(groupsCollection).Doc(invitation.GroupName.String())
		groupDoc, err := tx.Get(groupRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrGroupNotFound, "group not found in transaction",
					goerr.V("groupName", invitation.GroupName))
			}
			return goerr.Wrap(err, "failed to get group in transaction")
		}

		var group model.Group
		if err := groupDoc.DataTo(&group); err != nil {
			return goerr.Wrap(err, "failed to decode group")
		}
		if group.HasMember(invitation.To) {
			return goerr.Wrap(model.ErrAlreadyMember, "failed to accept invitation",
				goerr.V("groupName", group.Name), goerr.V("user", invitation.To))
		}

		if err := tx.Update(invRef, []firestore.Update{
			{Path: fieldStatus, Value: types.InvitationStatusAccepted.String()},
			{Path: fieldUpdatedAt, Value: time.Now()},
		}); err != nil {
			return goerr.Wrap(err, "failed to update invitation status")
		}

		return tx.Update(groupRef, []firestore.Update{
			{Path: fieldMembers, Value: append(group.Members, invitation.To)},
		})
	})
}

// SettleInvitation transitions a pending invitation to the given terminal status
func (f *Firestore) SettleInvitation(ctx context.Context, id types.InvitationID, newStatus types.InvitationStatus) error {
	if id == "" {
		return goerr.New("invitation ID is empty")
	}
	if !newStatus.IsSettled() {
		return goerr.New("status must be terminal", goerr.V("status", newStatus))
	}

	invRef := f.client.Collection(invitationsCollection).Doc(id.String())

	return f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(invRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrInvitationNotFound, "invitation not found in transaction",
					goerr.V("invitationID", id))
			}
			return goerr.Wrap(err, "failed to get invitation in transaction")
		}

		var invitation model.Invitation
		if err := doc.DataTo(&invitation); err != nil {
			return goerr.Wrap(err, "failed to decode invitation")
		}
		if !invitation.IsPending() {
			return goerr.Wrap(model.ErrInvitationClosed, "failed to settle invitation",
				goerr.V("invitationID", id), goerr.V("status", invitation.Status))
		}

		return tx.Update(invRef, []firestore.Update{
			{Path: fieldStatus, Value: newStatus.String()},
			{Path: fieldUpdatedAt, Value: time.Now()},
		})
	})
}

// DeletePendingInvitations deletes pending invitations matching the filter.
// Deleting zero matches is not an error.
func (f *Firestore) DeletePendingInvitations(ctx context.Context, from, to types.UserID, name types.GroupName) error {
	if to == "" {
		return goerr.New("invitee user ID is empty")
	}
	if name == "" {
		return goerr.New("group name is empty")
	}

	query := f.client.Collection(invitationsCollection).
		Where(fieldFrom, "==", from.String()).
		Where(fieldTo, "==", to.String()).
		Where(fieldGroupName, "==", name.String()).
		Where(fieldStatus, "==", types.InvitationStatusPending.String())

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate invitations")
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete invitation",
				goerr.V("invitationID", doc.Ref.ID))
		}
	}

	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		if err := f.client.Close(); err != nil {
			return goerr.Wrap(err, "failed to close firestore client")
		}
	}
	return nil
}

var _ interfaces.Repository = (*Firestore)(nil) // Compile-time interface check
