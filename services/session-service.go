package services

import (
	"errors"
	"fmt"
	"time"

	"personal-task-manager/models"
	"personal-task-manager/utils"
)

var ErrInvalidSession = errors.New("invalid session")

// Session identifies the authenticated user of a request.
type Session struct {
	UserID    int64
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// SessionManager issues and validates signed session tokens. Logout revokes a token
// through the blacklist, so a copied cookie stops working once the user logs out.
type SessionManager struct {
	secret    []byte
	ttl       time.Duration
	blacklist *TokenBlacklist
	now       func() time.Time
}

func NewSessionManager(secret []byte, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret:    secret,
		ttl:       ttl,
		blacklist: NewTokenBlacklist(),
		now:       time.Now,
	}
}

// Issue starts a session for user and returns its token.
func (m *SessionManager) Issue(user *models.User) (string, *Session, error) {
	token, claims, err := utils.GenerateToken(m.secret, user.ID, user.Username, m.now(), m.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, sessionFromClaims(claims), nil
}

// Validate returns ErrInvalidSession for malformed, tampered, expired or revoked tokens.
func (m *SessionManager) Validate(token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	claims, err := utils.ValidateToken(m.secret, token, m.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if m.blacklist.Contains(claims.ID) {
		return nil, fmt.Errorf("%w: token revoked", ErrInvalidSession)
	}
	return sessionFromClaims(claims), nil
}

// Revoke ends the session carried by token. Invalid tokens are ignored.
func (m *SessionManager) Revoke(token string) {
	session, err := m.Validate(token)
	if err != nil {
		return
	}
	m.blacklist.Prune(m.now())
	m.blacklist.Add(session.TokenID, session.ExpiresAt)
}

func sessionFromClaims(claims *utils.Claims) *Session {
	s := &Session{
		UserID:   claims.UserID,
		Username: claims.Username,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}
