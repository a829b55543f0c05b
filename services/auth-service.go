package services

import (
	"context"
	"errors"
	"fmt"

	"personal-task-manager/logging"
	"personal-task-manager/models"
	"personal-task-manager/repositories"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users      repositories.UserRepository
	bcryptCost int
	blacklist  PasswordBlacklist
}

// NewAuthService builds the service. A nil blacklist accepts every password.
func NewAuthService(users repositories.UserRepository, bcryptCost int, blacklist PasswordBlacklist) *AuthService {
	return &AuthService{users: users, bcryptCost: bcryptCost, blacklist: blacklist}
}

// RegisterUser stores a new user with a bcrypt hash of password. It does not start a session.
func (s *AuthService) RegisterUser(ctx context.Context, username, password string) (*models.User, error) {
	if s.blacklist.Contains(password) {
		logging.Logger.Infof("Event ID: REGISTER_COMMON_PASSWORD, Description: Rejected blacklisted password for %q", username)
		return nil, ErrCommonPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, string(hashedPassword))
	if errors.Is(err, repositories.ErrDuplicateUsername) {
		logging.Logger.Infof("Event ID: REGISTER_DUPLICATE, Description: Username %q already exists", username)
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, storageError("register user", err)
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %q registered with id %d", user.Username, user.ID)
	return user, nil
}

// LoginUser verifies the password and returns the user. Unknown users and wrong passwords
// both yield ErrInvalidCredentials.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		logging.Logger.Warnf("Event ID: LOGIN_UNKNOWN_USER, Description: Login attempt for unknown user %q", username)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storageError("fetch user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logging.Logger.Warnf("Event ID: LOGIN_BAD_PASSWORD, Description: Wrong password for user %q", username)
		return nil, ErrInvalidCredentials
	}

	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: User %q logged in", username)
	return user, nil
}
