package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidToken       = "Invalid token"
	msgUserNotFound       = "User not found"
)

// UserStore persists accounts for the auth backend.
type UserStore interface {
	Create(ctx context.Context, acc models.Account) error
	GetByEmail(ctx context.Context, email string) (models.Account, error)
	GetByID(ctx context.Context, id string) (models.Account, error)
}

// Claims carried by the access token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users     UserStore
	Secret    []byte
	TokenTTL  time.Duration
	Now       func() time.Time
	RequestID string
	// HashCost defaults to bcrypt.DefaultCost.
	HashCost int
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) ttl() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return 24 * time.Hour
}

func (s AuthService) cost() int {
	if s.HashCost > 0 {
		return s.HashCost
	}
	return bcrypt.DefaultCost
}

// DemoAccount builds the seeded demo user with a bcrypt hash of password.
func DemoAccount(password string, cost int) (models.Account, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash demo password: %w", err)
	}
	return models.Account{
		ID:           "1",
		Name:         "Demo User",
		Email:        "user@example.com",
		Phone:        "+1234567890",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s AuthService) Login(ctx context.Context, in LoginInput) (models.AuthResult, error) {
	if err := ValidateInput(in); err != nil {
		return models.AuthResult{}, domain.AuthRejectedError{Status: 401, Msg: msgInvalidCredentials}
	}
	acc, err := s.Users.GetByEmail(ctx, utils.NormalizeEmail(in.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			utils.LogEvent(s.RequestID, "auth", "login", "unknown email")
			return models.AuthResult{}, domain.AuthRejectedError{Status: 401, Msg: msgInvalidCredentials}
		}
		return models.AuthResult{}, domain.InternalError{Msg: "failed to load account", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)); err != nil {
		utils.LogEvent(s.RequestID, "auth", "login", "password mismatch user_id="+acc.ID)
		return models.AuthResult{}, domain.AuthRejectedError{Status: 401, Msg: msgInvalidCredentials}
	}
	token, err := s.IssueToken(acc)
	if err != nil {
		return models.AuthResult{}, err
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+acc.ID)
	return models.AuthResult{Token: token, User: acc.ToPublic()}, nil
}

// Register creates an account and signs it in.
func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.AuthResult, error) {
	if err := ValidateInput(in); err != nil {
		return models.AuthResult{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return models.AuthResult{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	acc := models.Account{
		ID:           uuid.NewString(),
		Name:         utils.NormalizeSpace(in.FullName),
		Email:        utils.NormalizeEmail(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.Users.Create(ctx, acc); err != nil {
		if domain.IsConflict(err) {
			return models.AuthResult{}, err
		}
		return models.AuthResult{}, domain.InternalError{Msg: "failed to create account", Err: err}
	}
	token, err := s.IssueToken(acc)
	if err != nil {
		return models.AuthResult{}, err
	}
	utils.LogEvent(s.RequestID, "auth", "register", "user_id="+acc.ID)
	return models.AuthResult{Token: token, User: acc.ToPublic()}, nil
}

// IssueToken signs an HS256 token for acc.
func (s AuthService) IssueToken(acc models.Account) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: acc.ID,
		Email:  acc.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl())),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	return signed, nil
}

// ParseToken validates signature and expiry.
func (s AuthService) ParseToken(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, domain.AuthRejectedError{Status: 401, Msg: msgInvalidToken}
	}
	if claims.UserID == "" {
		return Claims{}, domain.AuthRejectedError{Status: 401, Msg: msgInvalidToken}
	}
	return claims, nil
}

// Verify resolves a token to the current user.
func (s AuthService) Verify(ctx context.Context, raw string) (models.User, error) {
	claims, err := s.ParseToken(strings.TrimSpace(raw))
	if err != nil {
		return models.User{}, err
	}
	acc, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, domain.AuthRejectedError{Status: 401, Msg: msgUserNotFound}
		}
		return models.User{}, domain.InternalError{Msg: "failed to load account", Err: err}
	}
	return acc.ToPublic(), nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("malformed authorization header")
	}
	return strings.TrimSpace(token), nil
}
