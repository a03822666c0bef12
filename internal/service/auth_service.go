package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"careconnect/internal/models"
	"careconnect/internal/repository"
	"careconnect/internal/security"
	"careconnect/internal/validation"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRoleMismatch       = errors.New("account does not have the requested role")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo        *repository.UserRepository
	caretakerRepo   *repository.CaretakerRepository
	tokens          *security.TokenIssuer
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, caretakerRepo *repository.CaretakerRepository, tokens *security.TokenIssuer, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		caretakerRepo:   caretakerRepo,
		tokens:          tokens,
		sessionDuration: sessionDuration,
	}
}

// RegisterInput is the full registration payload. CaretakerProfile is
// required when Role is caretaker and ignored otherwise.
type RegisterInput struct {
	Username         string                   `json:"username"`
	Password         string                   `json:"password"`
	Email            string                   `json:"email"`
	FullName         string                   `json:"fullName"`
	Phone            string                   `json:"phone"`
	Role             string                   `json:"role"`
	CaretakerProfile *models.CaretakerProfile `json:"caretakerProfile,omitempty"`
}

// Register creates a new user account. Caretakers get their profile
// created in the same call so they are searchable immediately.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(input.FullName); err != nil {
		return nil, err
	}
	if err := validation.ValidateRole(input.Role); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetUserByUsername(input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.userRepo.GetUserByEmail(input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(&models.User{
		Username:     input.Username,
		PasswordHash: passwordHash,
		Email:        input.Email,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Role:         input.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if user.IsCaretaker() && input.CaretakerProfile != nil {
		profile := *input.CaretakerProfile
		profile.UserID = user.ID
		if _, err := s.caretakerRepo.Create(&profile); err != nil {
			// The account exists; the profile can be created later
			log.Printf("Warning: failed to create caretaker profile for user %d: %v", user.ID, err)
		}
	}

	return user, nil
}

// Login authenticates a user and creates a session. The role argument
// binds the patient and caretaker sign-in surfaces to matching accounts;
// an empty role accepts either.
func (s *AuthService) Login(username, password, role string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	if role != "" && user.Role != role {
		return nil, nil, ErrRoleMismatch
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, user, nil
}

// IssueToken creates an API bearer token for an authenticated user
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	if s.tokens == nil || !s.tokens.Enabled() {
		return "", errors.New("bearer tokens are not configured")
	}
	return s.tokens.Issue(user.ID, user.Role)
}

// ValidateToken resolves an API bearer token to its user
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	if s.tokens == nil {
		return nil, security.ErrTokenInvalid
	}
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, security.ErrTokenInvalid
	}
	return user, nil
}

// ValidateSession checks if a session is valid and returns the associated user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}

	return user, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.userRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// OAuthLogin authenticates or creates a user using an OAuth provider.
// Provisioned accounts default to the patient role; caretakers register
// through the normal flow so their profile exists.
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.User, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth user: %w", err)
	}

	if user == nil {
		existingUser, err := s.userRepo.GetUserByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
		}
		if existingUser != nil {
			if existingUser.OAuthProvider != "" && existingUser.OAuthProvider != provider {
				return nil, nil, ErrEmailTaken
			}
			if err := s.userRepo.LinkOAuthProvider(existingUser.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			user = existingUser
		} else {
			username := strings.Split(email, "@")[0]
			if name == "" {
				name = username
			}
			// OAuth accounts get an unusable random password
			randomPasswordHash, err := security.HashPassword(security.GenerateSessionID())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
			}
			newUser, err := s.userRepo.CreateUser(&models.User{
				Username:     s.availableUsername(username),
				PasswordHash: randomPasswordHash,
				Email:        email,
				FullName:     name,
				Role:         models.RolePatient,
			})
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create oauth user: %w", err)
			}
			if err := s.userRepo.LinkOAuthProvider(newUser.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			user = newUser
		}
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)
	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, user, nil
}

// availableUsername derives a free username from a candidate by suffixing
// a counter when the plain form is taken
func (s *AuthService) availableUsername(candidate string) string {
	username := candidate
	for i := 1; i <= 100; i++ {
		existing, err := s.userRepo.GetUserByUsername(username)
		if err != nil || existing == nil {
			return username
		}
		username = fmt.Sprintf("%s%d", candidate, i)
	}
	return fmt.Sprintf("%s-%s", candidate, security.GenerateSessionID()[:8])
}
