package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hongminglow/void-bio-be/internal/apperr"
	"github.com/hongminglow/void-bio-be/internal/http/respond"
	"github.com/hongminglow/void-bio-be/internal/models/dto"
	"github.com/hongminglow/void-bio-be/internal/profile"
	"github.com/hongminglow/void-bio-be/internal/smartlink"
)

// ProfileHandler serves the owner dashboard and the public profile pages.
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Register attaches owner routes behind protect and public routes without it.
func (h *ProfileHandler) Register(mux *http.ServeMux, protect Middleware) {
	owner := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, protect(fn))
	}
	owner("GET /me", h.handleDashboard)
	owner("PATCH /me/profile", h.handleUpdateProfile)
	owner("PATCH /me/visuals", h.handleUpdateVisuals)
	owner("GET /me/links", h.handleListLinks)
	owner("POST /me/links", h.handleCreateLink)
	owner("PATCH /me/links/{id}", h.handleUpdateLink)
	owner("DELETE /me/links/{id}", h.handleDeleteLink)
	owner("GET /me/badges", h.handleListBadges)
	owner("PATCH /me/badges/{badgeID}", h.handleSetBadgeDisplayed)
	owner("POST /me/payments", h.handleRequestPurchase)

	mux.HandleFunc("GET /u/{username}", h.handlePublic)
	mux.HandleFunc("GET /badges", h.handleCatalog)
	mux.HandleFunc("GET /smartlinks", h.handleSmartLinks)
	mux.HandleFunc("GET /usernames/{username}/availability", h.handleAvailability)
}

func (h *ProfileHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	page, err := h.profiles.Dashboard(r.Context(), session.UserID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", page)
}

func (h *ProfileHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var req dto.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	updated, err := h.profiles.UpdateProfile(r.Context(), session.UserID, req.Update())
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "profile updated", updated)
}

func (h *ProfileHandler) handleUpdateVisuals(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var req dto.UpdateVisualsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	updated, err := h.profiles.UpdateVisuals(r.Context(), session.UserID, req.Update())
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "visual settings updated", updated)
}

func (h *ProfileHandler) handleListLinks(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	links, err := h.profiles.Links(r.Context(), session.UserID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", links)
}

func (h *ProfileHandler) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var req dto.CreateLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	link, err := h.profiles.AddLink(r.Context(), session.UserID, profile.LinkInput{
		Title:     req.Title,
		Icon:      req.Icon,
		URL:       req.URL,
		Value:     req.Value,
		IsEnabled: req.IsEnabled,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "link added", link)
}

func (h *ProfileHandler) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	linkID, err := pathUUID(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var req dto.UpdateLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	link, err := h.profiles.UpdateLink(r.Context(), session.UserID, linkID, req.Update())
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "link updated", link)
}

func (h *ProfileHandler) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	linkID, err := pathUUID(r, "id")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	if err := h.profiles.DeleteLink(r.Context(), session.UserID, linkID); err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "link deleted", nil)
}

func (h *ProfileHandler) handleListBadges(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	badges, err := h.profiles.Badges(r.Context(), session.UserID)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", badges)
}

func (h *ProfileHandler) handleSetBadgeDisplayed(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	badgeID, err := pathUUID(r, "badgeID")
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var req dto.SetBadgeDisplayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	if err := h.profiles.SetBadgeDisplayed(r.Context(), session.UserID, badgeID, *req.IsDisplayed); err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "badge updated", nil)
}

func (h *ProfileHandler) handleRequestPurchase(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	var req dto.PurchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	purchase := profile.PurchaseRequest{
		DiscordUsername: req.DiscordUsername,
		Amount:          req.Amount,
		Notes:           req.Notes,
	}
	if req.BadgeID != "" {
		badgeID, err := uuid.Parse(req.BadgeID)
		if err != nil {
			respond.Err(w, r, apperr.Wrap(apperr.CodeValidation, "invalid badge_id", err))
			return
		}
		purchase.BadgeID = &badgeID
	}
	entry, err := h.profiles.RequestPurchase(r.Context(), session.UserID, purchase)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "purchase request recorded", entry)
}

func (h *ProfileHandler) handlePublic(w http.ResponseWriter, r *http.Request) {
	page, err := h.profiles.Public(r.Context(), r.PathValue("username"))
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", page)
}

func (h *ProfileHandler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	badges, err := h.profiles.Catalog(r.Context())
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", badges)
}

func (h *ProfileHandler) handleSmartLinks(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, "ok", smartlink.All())
}

// handleAvailability checks a username for the signed-out registration form.
func (h *ProfileHandler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	normalized, available, err := h.profiles.Checker().Available(r.Context(), r.PathValue("username"), uuid.Nil)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.AvailabilityResponse{Username: normalized, Available: available})
}
