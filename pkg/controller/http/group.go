package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/domain/types"
	"github.com/trailhead-social/caravan/pkg/usecase"
)

// GroupHandler handles the group membership and invitation endpoints
type GroupHandler struct {
	groupUC      usecase.GroupUseCase
	invitationUC usecase.InvitationUseCase
	boardUC      usecase.BoardUseCase
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupUC usecase.GroupUseCase, invitationUC usecase.InvitationUseCase, boardUC usecase.BoardUseCase) *GroupHandler {
	return &GroupHandler{
		groupUC:      groupUC,
		invitationUC: invitationUC,
		boardUC:      boardUC,
	}
}

// inviteRequest is the body for invite and revoke operations
type inviteRequest struct {
	To string `json:"to"`
}

// boardRequest is the body for board attach and detach operations
type boardRequest struct {
	Board string `json:"board"`
}

// requestParams pulls the acting user and the group name out of the request
func requestParams(r *http.Request) (types.UserID, types.GroupName, error) {
	actor, ok := model.ActorFromContext(r.Context())
	if !ok {
		return "", "", goerr.New("acting user missing from request context")
	}

	name := types.GroupName(chi.URLParam(r, "groupName"))
	if name == "" {
		return "", "", goerr.Wrap(model.ErrGroupNotFound, "group name is required")
	}

	return actor, name, nil
}

// HandleCreateGroup handles POST /api/group/{groupName}
func (h *GroupHandler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	actor, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	group, err := h.groupUC.CreateGroup(r.Context(), name, actor)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, group)
}

// HandleDisbandGroup handles DELETE /api/group/{groupName}
func (h *GroupHandler) HandleDisbandGroup(w http.ResponseWriter, r *http.Request) {
	actor, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := h.groupUC.DisbandGroup(r.Context(), name, actor); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetAdmin handles GET /api/group/{groupName}/admin
func (h *GroupHandler) HandleGetAdmin(w http.ResponseWriter, r *http.Request) {
	_, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	admin, err := h.groupUC.GetAdmin(r.Context(), name)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]types.UserID{"admin": admin})
}

// HandleGetMembers handles GET /api/group/{groupName}/members
func (h *GroupHandler) HandleGetMembers(w http.ResponseWriter, r *http.Request) {
	_, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	members, err := h.groupUC.GetMembers(r.Context(), name)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string][]types.UserID{"members": members})
}

// HandleLeave handles DELETE /api/group/leave/{groupName}
func (h *GroupHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	actor, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := h.groupUC.LeaveGroup(r.Context(), name, actor); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleInvite handles PUT /api/group/invite/{groupName}
func (h *GroupHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	actor, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.To == "" {
		http.Error(w, "invalid request body: invitee is required", http.StatusBadRequest)
		return
	}

	invitation, err := h.invitationUC.Invite(r.Context(), actor, types.UserID(req.To), name)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, invitation)
}

// HandleRevokeInvite handles DELETE /api/group/invite/{groupName}
func (h *GroupHandler) HandleRevokeInvite(w http.ResponseWriter, r *http.Request) {
	actor, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.To == "" {
		http.Error(w, "invalid request body: invitee is required", http.StatusBadRequest)
		return
	}

	if err := h.invitationUC.RevokeInvite(r.Context(), actor, types.UserID(req.To), name); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAcceptInvite handles PATCH /api/group/join/{groupName}
func (h *GroupHandler) HandleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	actor, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := h.invitationUC.AcceptInvite(r.Context(), actor, name); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "accepted"})
}

// HandleRejectInvite handles PATCH /api/group/reject/{groupName}
func (h *GroupHandler) HandleRejectInvite(w http.ResponseWriter, r *http.Request) {
	actor, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := h.invitationUC.RejectInvite(r.Context(), actor, name); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "rejected"})
}

// HandleUserInvites handles GET /api/group/invites
func (h *GroupHandler) HandleUserInvites(w http.ResponseWriter, r *http.Request) {
	actor, ok := model.ActorFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("acting user missing from request context"))
		return
	}

	invitations, err := h.invitationUC.ListUserInvites(r.Context(), actor)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string][]*model.Invitation{"invitations": invitations})
}

// HandleGroupInvites handles GET /api/group/{groupName}/invites
func (h *GroupHandler) HandleGroupInvites(w http.ResponseWriter, r *http.Request) {
	actor, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	invitations, err := h.invitationUC.ListGroupInvites(r.Context(), actor, name)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string][]*model.Invitation{"invitations": invitations})
}

// HandleListBoards handles GET /api/group/boards/{groupName}
func (h *GroupHandler) HandleListBoards(w http.ResponseWriter, r *http.Request) {
	_, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	boards, err := h.boardUC.ListGroupBoards(r.Context(), name)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string][]types.BoardID{"boards": boards})
}

// HandleCreateBoard handles PUT /api/group/boards/{groupName}
func (h *GroupHandler) HandleCreateBoard(w http.ResponseWriter, r *http.Request) {
	actor, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Board == "" {
		http.Error(w, "invalid request body: board is required", http.StatusBadRequest)
		return
	}

	if err := h.boardUC.CreateGroupBoard(r.Context(), actor, types.BoardID(req.Board), name); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleDeleteBoard handles DELETE /api/group/boards/{groupName}
func (h *GroupHandler) HandleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	actor, name, err := requestParams(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Board == "" {
		http.Error(w, "invalid request body: board is required", http.StatusBadRequest)
		return
	}

	if err := h.boardUC.DeleteGroupBoard(r.Context(), actor, types.BoardID(req.Board), name); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
