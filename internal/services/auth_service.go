package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"crmdash/internal/authz"
	"crmdash/internal/models"
	"crmdash/internal/utils"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID string, roleID int) (string, time.Time, error)
}

type AuthService struct {
	Users  UserRepository
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAuthService(users UserRepository, tokens TokenIssuer, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{Users: users, tokens: tokens, log: log}
}

// LoginResult is what a successful login returns.
type LoginResult struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.log.Info("[auth][login] unknown email", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	ph := strings.TrimSpace(user.PasswordHash)
	if ph == "" {
		s.log.Warn("[auth][login] empty password hash", zap.String("user", user.ID))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ph), []byte(strings.TrimSpace(password))); err != nil {
		s.log.Info("[auth][login] bcrypt mismatch", zap.String("user", user.ID))
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.tokens.Issue(user.ID, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	s.log.Info("[auth][login][ok]", zap.String("user", user.ID), zap.Int("role", user.RoleID))
	return &LoginResult{User: user, AccessToken: token, ExpiresAt: exp}, nil
}

// CreateUser hashes the plain password and stores the user.
func (s *AuthService) CreateUser(ctx context.Context, email, password string, roleID int) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationError("email is required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, validationError("password is required")
	}
	if !authz.Valid(roleID) {
		return nil, validationError("unknown role %d", roleID)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.Users.Create(ctx, &models.User{Email: email, PasswordHash: hash, RoleID: roleID})
}

// EnsureAdmin creates the admin user when no user has that email. An empty
// password is replaced with a random one that is logged once.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if strings.TrimSpace(password) == "" {
		password, err = utils.RandomToken(12)
		if err != nil {
			return false, err
		}
		s.log.Warn("[auth][bootstrap] generated admin password", zap.String("email", email), zap.String("password", password))
	}
	u, err := s.CreateUser(ctx, email, password, authz.RoleAdmin)
	if err != nil {
		return false, err
	}
	s.log.Info("[auth][bootstrap] admin created", zap.String("user", u.ID), zap.String("email", email))
	return true, nil
}

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
