package handlers

import (
	"errors"
	"log"
	"net/http"

	"golang.org/x/oauth2"

	"careconnect/internal/security"
	"careconnect/internal/service"
)

// AuthHandler handles registration, login, and session endpoints
type AuthHandler struct {
	authService          *service.AuthService
	scheduler            *service.ReminderScheduler
	googleOAuth          *oauth2.Config
	oauthRedirectBaseURL string
	appBaseURL           string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, scheduler *service.ReminderScheduler, googleOAuth *oauth2.Config, oauthRedirectBaseURL, appBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		scheduler:            scheduler,
		googleOAuth:          googleOAuth,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
		appBaseURL:           appBaseURL,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	user, err := h.authService.Register(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			respondError(w, http.StatusConflict, err.Error(), "", nil)
		default:
			respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		}
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	session, user, err := h.authService.Login(req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid username or password", "", nil)
		case errors.Is(err, service.ErrRoleMismatch):
			respondError(w, http.StatusForbidden, err.Error(), "", nil)
		default:
			respondError(w, http.StatusInternalServerError, "Login failed", "login failed", err)
		}
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, session.ID, session.ExpiresAt))

	// Arm the user's reminders so timers exist without waiting for the sweep
	if user.IsPatient() {
		if err := h.scheduler.InitializeUserReminders(user.ID); err != nil {
			log.Printf("Failed to arm reminders for user %d on login: %v", user.ID, err)
		}
	}

	respondJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// CurrentUser handles GET /api/auth/user
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, GetUserFromContext(r.Context()))
}

// Token handles POST /api/auth/token, exchanging an authenticated session
// for a bearer token usable by API clients
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	token, err := h.authService.IssueToken(user)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Bearer tokens are not available", "token issue failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}
