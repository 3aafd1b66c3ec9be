package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/hongminglow/void-bio-be/internal/auth"
	"github.com/hongminglow/void-bio-be/internal/http/respond"
	"github.com/hongminglow/void-bio-be/internal/models/dto"
	"github.com/hongminglow/void-bio-be/internal/registration"
)

// Registrar provisions accounts from invite codes.
type Registrar interface {
	Register(ctx context.Context, req registration.Request) (registration.Result, error)
}

// Authenticator signs users in and out.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (auth.IssuedToken, error)
	SignOut(ctx context.Context, session auth.Session) error
}

// AuthHandler owns the register, login and session endpoints.
type AuthHandler struct {
	registrar Registrar
	issuer    Authenticator
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(registrar Registrar, issuer Authenticator) *AuthHandler {
	return &AuthHandler{registrar: registrar, issuer: issuer}
}

// Register attaches auth routes to the mux. protect guards the routes that
// need a signed-in session.
func (h *AuthHandler) Register(mux *http.ServeMux, protect Middleware) {
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.Handle("POST /logout", protect(http.HandlerFunc(h.handleLogout)))
	mux.Handle("GET /session", protect(http.HandlerFunc(h.handleSession)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	result, err := h.registrar.Register(r.Context(), registration.Request{
		Email:      req.Email,
		Password:   req.Password,
		InviteCode: req.InviteCode,
		Username:   req.Username,
	})
	if err != nil && !accountKept(err) {
		respond.Err(w, r, err)
		return
	}

	body := dto.RegisterResponse{UserID: result.UserID, Profile: result.Profile}
	if result.Token.Token != "" {
		session := result.Token.Session
		body.Token = result.Token.Token
		body.Session = &session
	}
	if err != nil {
		respond.Partial(w, err, body)
		return
	}
	respond.JSON(w, http.StatusCreated, "account created", body)
}

// accountKept reports whether a registration error still left a usable account.
func accountKept(err error) bool {
	return errors.Is(err, registration.ErrRedemptionRaceLost) || errors.Is(err, registration.ErrRedemptionFailed)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Err(w, r, err)
		return
	}
	issued, err := h.issuer.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: issued.Token, Session: issued.Session})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	if err := h.issuer.SignOut(r.Context(), session); err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "signed out", nil)
}

func (h *AuthHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	session, err := currentSession(r)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "session active", session)
}
