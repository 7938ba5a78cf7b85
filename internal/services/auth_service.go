package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cafewifi/webapp/internal/auth"
	"github.com/cafewifi/webapp/internal/models"
	"github.com/cafewifi/webapp/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmailTaken is returned by Register when the email already has an account
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password alike, so responses cannot leak which emails exist
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository is the interface that wraps methods for users table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user; its ID is filled in on success.
	//
	// Returns repositories.ErrDuplicate when the email is already registered.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// Returns repositories.ErrNotFound when no user carries that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method GetByID retrieves a user by primary key for session restoration.
	//
	// Returns repositories.ErrNotFound when no user carries that id.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionRepository is the interface that wraps methods for sessions table data access
type SessionRepository interface {
	// Method Create inserts a new session into the database.
	Create(ctx context.Context, session *models.Session) error
	// Method GetByToken retrieves a session by its token.
	//
	// Returns repositories.ErrNotFound when the session has been ended.
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	// Method DeleteByToken ends a session; a missing session is not an error.
	DeleteByToken(ctx context.Context, token string) error
}

// authService implements registration, login and session resolution
type authService struct {
	userRepo       UserRepository
	sessionRepo    SessionRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	tokenGenerator *auth.TokenGenerator,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// Register creates a user account and opens a session for it.
// Returns the signed session cookie value, or ErrEmailTaken when the
// email already has an account.
func (s *authService) Register(ctx context.Context, email, password, name string) (string, error) {
	taken, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return "", ErrEmailTaken
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique key still guards against a registration that raced
		// past the exists check.
		if errors.Is(err, repositories.ErrDuplicate) {
			return "", ErrEmailTaken
		}
		return "", err
	}

	return s.openSession(ctx, user.ID)
}

// Login authenticates a user and opens a session for it.
// An unknown email and a wrong password both return ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return s.openSession(ctx, user.ID)
}

// Logout ends the session named by the cookie value.
// A cookie that no longer validates has nothing left to end.
func (s *authService) Logout(ctx context.Context, cookieValue string) error {
	sessionID, _, err := s.tokenGenerator.ValidateSessionToken(cookieValue)
	if err != nil {
		return nil
	}
	return s.sessionRepo.DeleteByToken(ctx, sessionID)
}

// UserFromSession resolves a session cookie value back to its user.
// The session row must still exist: logout kills the cookie even if its
// signature would otherwise stay valid until expiry.
func (s *authService) UserFromSession(ctx context.Context, cookieValue string) (*models.User, error) {
	sessionID, userID, err := s.tokenGenerator.ValidateSessionToken(cookieValue)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByToken(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.UserID != userID {
		s.logger.Warn("session cookie user mismatch", zap.Int("claimUserId", userID), zap.Int("sessionUserId", session.UserID))
		return nil, fmt.Errorf("session does not belong to token user")
	}

	return s.userRepo.GetByID(ctx, session.UserID)
}

// openSession creates a session row and returns its signed cookie value
func (s *authService) openSession(ctx context.Context, userID int) (string, error) {
	session := &models.Session{
		Token:  uuid.New().String(),
		UserID: userID,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	cookieValue, err := s.tokenGenerator.GenerateSessionToken(session.Token, userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return cookieValue, nil
}
