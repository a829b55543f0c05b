package handlers

import (
	"net/http"

	"personal-task-manager/logging"
	"personal-task-manager/middleware"
	"personal-task-manager/services"
)

type AuthHandler struct {
	auth         *services.AuthService
	sessions     *services.SessionManager
	views        *Views
	secureCookie bool
}

func NewAuthHandler(auth *services.AuthService, sessions *services.SessionManager, views *Views, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, views: views, secureCookie: secureCookie}
}

// Index sends logged-in users to their dashboard and everyone else to the login page.
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.SessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, "register.html", nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := parseCredentialsForm(r)
	if err := validate.Struct(form); err != nil {
		logging.Logger.Warnf("Event ID: REGISTER_INVALID_INPUT, Description: %v", err)
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	if _, err := h.auth.RegisterUser(r.Context(), form.Username, form.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, "login.html", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := parseCredentialsForm(r)
	user, err := h.auth.LoginUser(r.Context(), form.Username, form.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, session, err := h.sessions.Issue(user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, token, session.ExpiresAt, h.secureCookie)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout revokes whatever session the cookie carries and clears it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		h.sessions.Revoke(token)
	}
	middleware.ClearSessionCookie(w, h.secureCookie)
	http.Redirect(w, r, "/login", http.StatusFound)
}
