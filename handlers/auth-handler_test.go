package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRedirects(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookie := app.signUp(t, "alice")
	rec = app.do(t, http.MethodGet, "/", nil, cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestFormsRender(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/login", "/register"} {
		rec := app.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), `action="`+path+`"`)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", "first")

	rec := app.do(t, http.MethodPost, "/register", url.Values{"username": {"alice"}, "password": {"second"}}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already exists!")

	// The original account keeps its password.
	rec = app.do(t, http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"first"}}, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/register", url.Values{"username": {"  "}, "password": {"pw"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username is required")

	rec = app.do(t, http.MethodPost, "/register", url.Values{"username": {"alice"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password is required")
}

func TestLoginFailures(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", "right")

	cases := map[string]url.Values{
		"wrong password": {"username": {"alice"}, "password": {"wrong"}},
		"unknown user":   {"username": {"bob"}, "password": {"right"}},
		"empty form":     {},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/login", form, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid credentials!")
			assert.Nil(t, sessionCookie(rec), "no session on failure")
		})
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", "right")

	rec := app.do(t, http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"right"}}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	session, err := app.sessions.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
}

func TestLogoutRevokesSession(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signUp(t, "alice")

	rec := app.do(t, http.MethodGet, "/logout", nil, cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	// A copy of the old cookie no longer opens the dashboard.
	rec = app.do(t, http.MethodGet, "/dashboard", nil, cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// Logging out without a session is fine too.
	rec = app.do(t, http.MethodGet, "/logout", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	app := newTestApp(t)

	// 72 characters but 144 bytes.
	rec := app.do(t, http.MethodPost, "/register", url.Values{"username": {"carol"}, "password": {strings.Repeat("é", 72)}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid input: Password must be at most 72 bytes")

	rec = app.do(t, http.MethodPost, "/register", url.Values{"username": {"carol"}, "password": {strings.Repeat("é", 36)}}, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRegisterRejectsBlacklistedPassword(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/register", url.Values{"username": {"dave"}, "password": {"password123"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password is too common")

	rec = app.do(t, http.MethodPost, "/login", url.Values{"username": {"dave"}, "password": {"password123"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
