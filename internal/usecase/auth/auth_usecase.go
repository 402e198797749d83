package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuslink24/campuslink-backend/internal/config"
	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	jwtSecret   string
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	cfg config.JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   cfg.AccessSecret,
		accessTTL:   time.Duration(cfg.AccessExpiryMin) * time.Minute,
		refreshTTL:  time.Duration(cfg.RefreshExpiryDay) * 24 * time.Hour,
	}
}

// TokenPair is an access JWT plus an opaque refresh token backed by a
// redis session.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Login verifies credentials and issues a token pair.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := uc.IssueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// IssueTokens creates a fresh token pair for a user. Also used right after
// onboarding so a new user is logged in immediately.
func (uc *AuthUseCase) IssueTokens(ctx context.Context, userID int) (*TokenPair, error) {
	expiresAt := time.Now().Add(uc.accessTTL)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	session := &repository.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(uc.refreshTTL),
	}
	if err := uc.sessionRepo.Store(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: session.ID,
		ExpiresAt:    expiresAt,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// session.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	session, err := uc.sessionRepo.Get(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if err := uc.sessionRepo.Delete(ctx, refreshToken); err != nil {
		return nil, err
	}
	return uc.IssueTokens(ctx, session.UserID)
}

// Logout revokes the refresh session. The access token stays valid until
// its own expiry.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.sessionRepo.Delete(ctx, refreshToken)
}

// ParseAccessToken validates a JWT and returns the user ID it carries.
func (uc *AuthUseCase) ParseAccessToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(uc.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, domain.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, domain.ErrInvalidCredentials
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, domain.ErrInvalidCredentials
	}
	return int(sub), nil
}

// Me returns the authenticated user's record.
func (uc *AuthUseCase) Me(ctx context.Context, userID int) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}
