package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/trailhead-social/caravan/pkg/controller/http"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/repository"
	"github.com/trailhead-social/caravan/pkg/usecase"
)

func newTestServer(t *testing.T) *controller.Server {
	t.Helper()
	repo := repository.NewMemory()
	policy := model.DefaultPolicy()

	server, err := controller.NewServer(
		context.Background(),
		"localhost:0",
		usecase.NewGroup(repo, policy),
		usecase.NewInvitation(repo, policy),
		usecase.NewBoard(repo, policy),
	)
	gt.NoError(t, err).Required()
	return server
}

func doRequest(server *controller.Server, method, path, user string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/health", "", nil)
	gt.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireUser(t *testing.T) {
	server := newTestServer(t)

	// Missing X-User-ID is rejected before any handler runs
	rec := doRequest(server, http.MethodPost, "/api/group/hikers", "", nil)
	gt.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGroupLifecycle(t *testing.T) {
	server := newTestServer(t)

	// Create
	rec := doRequest(server, http.MethodPost, "/api/group/hikers", "alice", nil)
	gt.Equal(t, http.StatusCreated, rec.Code)

	var group model.Group
	gt.NoError(t, json.NewDecoder(rec.Body).Decode(&group))
	gt.Equal(t, "alice", group.Admin.String())

	// Duplicate name conflicts
	rec = doRequest(server, http.MethodPost, "/api/group/hikers", "mallory", nil)
	gt.Equal(t, http.StatusConflict, rec.Code)

	// Admin lookup
	rec = doRequest(server, http.MethodGet, "/api/group/hikers/admin", "bob", nil)
	gt.Equal(t, http.StatusOK, rec.Code)

	// Disband by non-admin is forbidden
	rec = doRequest(server, http.MethodDelete, "/api/group/hikers", "bob", nil)
	gt.Equal(t, http.StatusForbidden, rec.Code)

	// Disband by admin
	rec = doRequest(server, http.MethodDelete, "/api/group/hikers", "alice", nil)
	gt.Equal(t, http.StatusNoContent, rec.Code)

	// Gone afterwards
	rec = doRequest(server, http.MethodGet, "/api/group/hikers/members", "alice", nil)
	gt.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvitationFlow(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/api/group/hikers", "alice", nil)
	gt.Equal(t, http.StatusCreated, rec.Code)

	// Invite bob
	rec = doRequest(server, http.MethodPut, "/api/group/invite/hikers", "alice", map[string]string{"to": "bob"})
	gt.Equal(t, http.StatusCreated, rec.Code)

	// Missing invitee is a bad request
	rec = doRequest(server, http.MethodPut, "/api/group/invite/hikers", "alice", map[string]string{})
	gt.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-admin cannot invite
	rec = doRequest(server, http.MethodPut, "/api/group/invite/hikers", "bob", map[string]string{"to": "carol"})
	gt.Equal(t, http.StatusForbidden, rec.Code)

	// Bob sees his invitation
	rec = doRequest(server, http.MethodGet, "/api/group/invites", "bob", nil)
	gt.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Invitations []*model.Invitation `json:"invitations"`
	}
	gt.NoError(t, json.NewDecoder(rec.Body).Decode(&listing))
	gt.Equal(t, 1, len(listing.Invitations))

	// Bob joins
	rec = doRequest(server, http.MethodPatch, "/api/group/join/hikers", "bob", nil)
	gt.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/group/hikers/members", "alice", nil)
	gt.Equal(t, http.StatusOK, rec.Code)

	var members struct {
		Members []string `json:"members"`
	}
	gt.NoError(t, json.NewDecoder(rec.Body).Decode(&members))
	gt.Equal(t, []string{"bob"}, members.Members)

	// Accepting again fails: no pending invitation remains
	rec = doRequest(server, http.MethodPatch, "/api/group/join/hikers", "bob", nil)
	gt.Equal(t, http.StatusNotFound, rec.Code)

	// Bob leaves
	rec = doRequest(server, http.MethodDelete, "/api/group/leave/hikers", "bob", nil)
	gt.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(server, http.MethodDelete, "/api/group/leave/hikers", "bob", nil)
	gt.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRejectFlow(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/api/group/hikers", "alice", nil)
	gt.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(server, http.MethodPut, "/api/group/invite/hikers", "alice", map[string]string{"to": "bob"})
	gt.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(server, http.MethodPatch, "/api/group/reject/hikers", "bob", nil)
	gt.Equal(t, http.StatusOK, rec.Code)

	// Rejecting leaves the member list empty
	rec = doRequest(server, http.MethodGet, "/api/group/hikers/members", "alice", nil)
	var members struct {
		Members []string `json:"members"`
	}
	gt.NoError(t, json.NewDecoder(rec.Body).Decode(&members))
	gt.Equal(t, 0, len(members.Members))

	// Admin listing shows the rejected invitation; non-admin is forbidden
	rec = doRequest(server, http.MethodGet, "/api/group/hikers/invites", "alice", nil)
	gt.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/group/hikers/invites", "bob", nil)
	gt.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRevokeEndpoint(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/api/group/hikers", "alice", nil)
	gt.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(server, http.MethodPut, "/api/group/invite/hikers", "alice", map[string]string{"to": "bob"})
	gt.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(server, http.MethodDelete, "/api/group/invite/hikers", "alice", map[string]string{"to": "bob"})
	gt.Equal(t, http.StatusNoContent, rec.Code)

	// Revoking with no pending invitation left is still fine
	rec = doRequest(server, http.MethodDelete, "/api/group/invite/hikers", "alice", map[string]string{"to": "bob"})
	gt.Equal(t, http.StatusNoContent, rec.Code)

	// The invitation is gone for bob
	rec = doRequest(server, http.MethodPatch, "/api/group/join/hikers", "bob", nil)
	gt.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBoardEndpoints(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/api/group/hikers", "alice", nil)
	gt.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(server, http.MethodPut, "/api/group/boards/hikers", "alice", map[string]string{"board": "board-1"})
	gt.Equal(t, http.StatusCreated, rec.Code)

	// Non-admin cannot attach boards
	rec = doRequest(server, http.MethodPut, "/api/group/boards/hikers", "bob", map[string]string{"board": "board-2"})
	gt.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/group/boards/hikers", "bob", nil)
	gt.Equal(t, http.StatusOK, rec.Code)

	var boards struct {
		Boards []string `json:"boards"`
	}
	gt.NoError(t, json.NewDecoder(rec.Body).Decode(&boards))
	gt.Equal(t, []string{"board-1"}, boards.Boards)

	rec = doRequest(server, http.MethodDelete, "/api/group/boards/hikers", "alice", map[string]string{"board": "board-1"})
	gt.Equal(t, http.StatusNoContent, rec.Code)

	// Detaching an absent board is not found
	rec = doRequest(server, http.MethodDelete, "/api/group/boards/hikers", "alice", map[string]string{"board": "board-1"})
	gt.Equal(t, http.StatusNotFound, rec.Code)
}
