package decision

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gridstone-erp/gridstone-erp/internal/menu"
	"github.com/gridstone-erp/gridstone-erp/internal/pagestate"
	"github.com/gridstone-erp/gridstone-erp/internal/platform/httpx"
	"github.com/gridstone-erp/gridstone-erp/internal/shared"
)

// Handler serves the Decision Center API.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     Guard
	validator *validator.Validate
	enqueue   InvalidateEnqueuer
}

// InvalidateEnqueuer submits a cache-invalidation task for a user.
type InvalidateEnqueuer func(r *http.Request, userID int64, reason string) error

// NewHandler builds the Decision Center HTTP handler.
func NewHandler(logger *slog.Logger, service *Service, enqueue InvalidateEnqueuer) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     Guard{Service: service, Logger: logger},
		validator: validator.New(),
		enqueue:   enqueue,
	}
}

// MountRoutes registers the decision API routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/menu", h.visibleMenu)
	r.Get("/page/{pageKey}", h.pageState)
	r.Get("/first-route", h.firstRoute)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(shared.PermRolesView))
		r.Get("/permissions", h.effectivePermissions)
		r.Post("/preview", h.preview)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(shared.PermRolesUpdate, shared.PermRolesAssign))
		r.Post("/invalidate", h.invalidate)
	})
}

func (h *Handler) visibleMenu(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.guard.currentUserID(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	scope := r.URL.Query().Get("scope")
	tree, err := h.service.VisibleMenu(r.Context(), userID, scope)
	if err != nil {
		if errors.Is(err, ErrUnknownMenu) {
			httpx.Problem(w, http.StatusBadRequest, "Unknown Menu Scope", err.Error())
			return
		}
		h.logger.Error("decision visible menu", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": tree})
}

func (h *Handler) pageState(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.guard.currentUserID(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	pageKey := chi.URLParam(r, "pageKey")
	state, err := h.service.PageState(r.Context(), userID, pageKey)
	if err != nil {
		if errors.Is(err, pagestate.ErrUnknownPage) {
			// Configuration error: already logged and counted by the
			// service. Serve the fail-closed state rather than a 500 so
			// the client lands on the access-denied surface.
			httpx.JSON(w, http.StatusOK, state)
			return
		}
		h.logger.Error("decision page state", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, state)
}

func (h *Handler) firstRoute(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.guard.currentUserID(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	route, err := h.service.FirstRoute(r.Context(), userID)
	if err != nil {
		h.logger.Error("decision first route", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"route": route})
}

func (h *Handler) effectivePermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.guard.currentUserID(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	perms, err := h.service.EffectivePermissions(r.Context(), userID)
	if err != nil {
		h.logger.Error("decision effective permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": perms})
}

type previewRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
	Menu        string   `json:"menu" validate:"omitempty,oneof=platform tenant"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	definitions := menu.PlatformMenu()
	if req.Menu == MenuTenant {
		definitions = menu.TenantMenu()
	}
	httpx.JSON(w, http.StatusOK, Preview(req.Permissions, definitions))
}

type invalidateRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,oneof=permission_change impersonation_start impersonation_stop logout"`
}

func (h *Handler) invalidate(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if h.enqueue == nil {
		// No queue configured: invalidate inline.
		if err := h.service.Invalidate(r.Context(), req.UserID); err != nil {
			h.logger.Error("decision invalidate", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "invalidated"})
		return
	}
	if err := h.enqueue(r, req.UserID, req.Reason); err != nil {
		h.logger.Error("decision enqueue invalidate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
