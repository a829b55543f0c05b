package services

import (
	"testing"
	"time"

	"personal-task-manager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedSessionManager(ttl time.Duration) (*SessionManager, *time.Time) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	m := NewSessionManager([]byte("test-secret"), ttl)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestSessionIssueAndValidate(t *testing.T) {
	m, _ := newClockedSessionManager(time.Hour)
	token, issued, err := m.Issue(&models.User{ID: 3, Username: "alice"})
	require.NoError(t, err)

	session, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), session.UserID)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, issued.TokenID, session.TokenID)
}

func TestSessionExpires(t *testing.T) {
	m, now := newClockedSessionManager(time.Hour)
	token, _, err := m.Issue(&models.User{ID: 3, Username: "alice"})
	require.NoError(t, err)

	*now = now.Add(61 * time.Minute)
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionRevoke(t *testing.T) {
	m, _ := newClockedSessionManager(time.Hour)
	token, _, err := m.Issue(&models.User{ID: 3, Username: "alice"})
	require.NoError(t, err)
	other, _, err := m.Issue(&models.User{ID: 3, Username: "alice"})
	require.NoError(t, err)

	m.Revoke(token)
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = m.Validate(other)
	assert.NoError(t, err, "revoking one session leaves the others alive")

	m.Revoke("garbage")
	m.Revoke("")
}

func TestSessionRejectsEmptyAndForeignTokens(t *testing.T) {
	m, _ := newClockedSessionManager(time.Hour)
	_, err := m.Validate("")
	assert.ErrorIs(t, err, ErrInvalidSession)

	stranger := NewSessionManager([]byte("another-secret"), time.Hour)
	token, _, err := stranger.Issue(&models.User{ID: 1, Username: "mallory"})
	require.NoError(t, err)
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestTokenBlacklistPrune(t *testing.T) {
	b := NewTokenBlacklist()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	b.Add("old", now.Add(-time.Minute))
	b.Add("live", now.Add(time.Minute))

	assert.Equal(t, 1, b.Prune(now))
	assert.False(t, b.Contains("old"))
	assert.True(t, b.Contains("live"))
	assert.Equal(t, 1, b.Len())
}
