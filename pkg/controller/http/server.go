package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/trailhead-social/caravan/pkg/domain/model"
	"github.com/trailhead-social/caravan/pkg/usecase"
	"github.com/trailhead-social/caravan/pkg/utils/apperr"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router       chi.Router
	groupHandler *GroupHandler
}

// NewServer creates a new HTTP server exposing the group membership and
// invitation API. The acting user arrives pre-authenticated in the
// X-User-ID header set by the upstream auth layer.
func NewServer(
	ctx context.Context,
	addr string,
	groupUC usecase.GroupUseCase,
	invitationUC usecase.InvitationUseCase,
	boardUC usecase.BoardUseCase,
) (*Server, error) {
	if groupUC == nil || invitationUC == nil || boardUC == nil {
		return nil, goerr.New("all use cases are required")
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	groupHandler := NewGroupHandler(groupUC, invitationUC, boardUC)

	// Health check
	router.Get("/health", handleHealth)

	// API routes
	router.Route("/api/group", func(r chi.Router) {
		r.Use(RequireUser)

		// Invitation ledger
		r.Get("/invites", groupHandler.HandleUserInvites)
		r.Put("/invite/{groupName}", groupHandler.HandleInvite)
		r.Delete("/invite/{groupName}", groupHandler.HandleRevokeInvite)
		r.Patch("/join/{groupName}", groupHandler.HandleAcceptInvite)
		r.Patch("/reject/{groupName}", groupHandler.HandleRejectInvite)

		// Membership
		r.Delete("/leave/{groupName}", groupHandler.HandleLeave)

		// Boards
		r.Get("/boards/{groupName}", groupHandler.HandleListBoards)
		r.Put("/boards/{groupName}", groupHandler.HandleCreateBoard)
		r.Delete("/boards/{groupName}", groupHandler.HandleDeleteBoard)

		// Group registry
		r.Post("/{groupName}", groupHandler.HandleCreateGroup)
		r.Delete("/{groupName}", groupHandler.HandleDisbandGroup)
		r.Get("/{groupName}/admin", groupHandler.HandleGetAdmin)
		r.Get("/{groupName}/members", groupHandler.HandleGetMembers)
		r.Get("/{groupName}/invites", groupHandler.HandleGroupInvites)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:       router,
		groupHandler: groupHandler,
	}

	return server, nil
}

// Router returns the underlying router (useful for testing)
func (s *Server) Router() chi.Router {
	return s.router
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "caravan",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}

// statusFromError maps domain sentinel errors to HTTP status codes
func statusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrGroupNotFound),
		errors.Is(err, model.ErrInvitationNotFound),
		errors.Is(err, model.ErrBoardNotFound),
		errors.Is(err, model.ErrNotMember):
		return http.StatusNotFound
	case errors.Is(err, model.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, model.ErrGroupExists),
		errors.Is(err, model.ErrNameReserved),
		errors.Is(err, model.ErrAlreadyMember),
		errors.Is(err, model.ErrInvitationExists),
		errors.Is(err, model.ErrInvitationClosed),
		errors.Is(err, model.ErrBoardExists),
		errors.Is(err, model.ErrGroupFull):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidInvitation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes an error response with the status derived from the error
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		apperr.Handle(ctx, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); err != nil {
		ctxlog.From(ctx).Error("Failed to encode error response", "error", err)
	}
}

// writeJSON writes a JSON response with the given status
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}
