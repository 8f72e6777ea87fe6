package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"boxtracker/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken indicates that the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidInput indicates a malformed email or a too-short password.
	ErrInvalidInput = errors.New("invalid email or password format")
	// ErrInvalidToken indicates an unparsable or expired auth token.
	ErrInvalidToken = errors.New("invalid token")
)

const (
	tokenTTL          = 7 * 24 * time.Hour
	minPasswordLength = 6
)

// AuthService handles registration, credential login, stateless token
// issuance, and auto-provisioning of SSO users.
type AuthService struct {
	users  domain.UserRepository
	secret []byte
}

// NewAuthService creates a new authentication service. secret signs the
// stateless auth tokens.
func NewAuthService(users domain.UserRepository, secret []byte) *AuthService {
	return &AuthService{users: users, secret: secret}
}

// Register creates a user with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") || len(password) < minPasswordLength {
		return nil, ErrInvalidInput
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, email, string(hash))
}

// Login authenticates a user by email and password and returns a signed
// stateless token bound to the user id.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || user == nil || user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.IssueToken(user.ID)
}

// ProvisionSSOUser returns the user for an identity-provider email, creating
// the record with an empty password hash on first login.
func (s *AuthService) ProvisionSSOUser(ctx context.Context, email string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.Create(ctx, email, "")
	if err != nil {
		// A concurrent first login may have won the insert.
		user, err = s.users.GetByEmail(ctx, email)
		if err != nil || user == nil {
			return nil, fmt.Errorf("provision sso user: %w", err)
		}
	}
	return user, nil
}

// UserByID resolves a token subject back to a user. Returns (nil, nil) when
// the id no longer exists.
func (s *AuthService) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

type tokenClaims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// IssueToken signs a stateless HS256 token carrying the user id.
func (s *AuthService) IssueToken(userID int64) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies a token and returns the embedded user id.
func (s *AuthService) ParseToken(raw string) (int64, error) {
	var claims tokenClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
