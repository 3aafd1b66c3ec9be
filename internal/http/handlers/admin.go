package handlers

import (
	"net/http"

	"github.com/hongminglow/void-bio-be/internal/admin"
	"github.com/hongminglow/void-bio-be/internal/http/respond"
	"github.com/hongminglow/void-bio-be/internal/models"
	"github.com/hongminglow/void-bio-be/internal/models/dto"
)

// AdminHandler serves the admin panel. Every route requires an admin session.
type AdminHandler struct {
	admin *admin.Service
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(svc *admin.Service) *AdminHandler {
	return &AdminHandler{admin: svc}
}

// Register attaches admin routes behind protect.
func (h *AdminHandler) Register(mux *http.ServeMux, protect Middleware) {
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, protect(fn))
	}
	route("GET /admin/invites", h.handleListInvites)
	route("POST /admin/invites", h.handleGenerateInvite)
	route("DELETE /admin/invites/{id}", h.handleDeleteInvite)
	route("POST /admin/badges", h.handleCreateBadge)
	route("DELETE /admin/badges/{id}", h.handleDeleteBadge)
	route("GET /admin/users", h.handleListUsers)
	route("PATCH /admin/users/{id}/admin", h.handleSetAdmin)
	route("POST /admin/users/{id}/badges/{badgeID}", h.handleAssignBadge)
	route("DELETE /admin/users/{id}/badges/{badgeID}", h.handleRevokeBadge)
	route("GET /admin/payments", h.handleListPayments)
}

func (h *AdminHandler) handleListInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.admin.Invites(r.Context())
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", invites)
}

func (h *AdminHandler) handleGenerateInvite(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var req dto.GenerateInviteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	created, err := h.admin.GenerateInvite(r.Context(), session.UserID, req.MaxUses)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "invite code generated", created)
}

func (h *AdminHandler) handleDeleteInvite(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	if err := h.admin.DeleteInvite(r.Context(), id); err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "invite code deleted", nil)
}

func (h *AdminHandler) handleCreateBadge(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBadgeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	badge, err := h.admin.CreateBadge(r.Context(), models.Badge{
		Name:           req.Name,
		Icon:           req.Icon,
		Tooltip:        req.Tooltip,
		IsPremium:      req.IsPremium,
		DiscordBuyLink: req.DiscordBuyLink,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "badge created", badge)
}

func (h *AdminHandler) handleDeleteBadge(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	if err := h.admin.DeleteBadge(r.Context(), id); err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "badge deleted", nil)
}

func (h *AdminHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.Users(r.Context())
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", users)
}

func (h *AdminHandler) handleSetAdmin(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	target, err := pathUUID(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var req dto.SetAdminRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	if err := h.admin.SetAdmin(r.Context(), session.UserID, target, *req.IsAdmin); err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "admin flag updated", nil)
}

func (h *AdminHandler) handleAssignBadge(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	badgeID, err := pathUUID(r, "badgeID")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var req dto.AssignBadgeRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			respond.Err(w, r, err)
			return
		}
	}
	assigned, err := h.admin.AssignBadge(r.Context(), userID, badgeID, req.IsDisplayed)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "badge assigned", assigned)
}

func (h *AdminHandler) handleRevokeBadge(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	badgeID, err := pathUUID(r, "badgeID")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	if err := h.admin.RevokeBadge(r.Context(), userID, badgeID); err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "badge revoked", nil)
}

func (h *AdminHandler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	logs, err := h.admin.PaymentLogs(r.Context())
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", logs)
}
