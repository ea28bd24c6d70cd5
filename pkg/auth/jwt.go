package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vetcita/internal/config"
	"vetcita/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongUse     = errors.New("token used for the wrong purpose")
)

type tokenUse string

const (
	useAccess  tokenUse = "access"
	useRefresh tokenUse = "refresh"
)

type jwtClaims struct {
	Email  string      `json:"email"`
	Nombre string      `json:"nombre"`
	Role   domain.Role `json:"role"`
	Use    tokenUse    `json:"use"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the HS256 token pairs the API uses for
// authentication.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		issuer:     cfg.Issuer,
	}
}

// IssuePair creates an access/refresh token pair for a user.
func (m *TokenManager) IssuePair(u *domain.User) (*domain.TokenPair, error) {
	now := time.Now()
	access, err := m.sign(u, useAccess, now, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(u, useRefresh, now, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(m.accessTTL),
		TokenType:    "Bearer",
	}, nil
}

func (m *TokenManager) sign(u *domain.User, use tokenUse, now time.Time, ttl time.Duration) (string, error) {
	claims := jwtClaims{
		Email:  u.Email,
		Nombre: u.Nombre,
		Role:   u.Role,
		Use:    use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyAccess validates an access token and returns its claims.
func (m *TokenManager) VerifyAccess(token string) (*domain.Claims, error) {
	return m.verify(token, useAccess)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (m *TokenManager) VerifyRefresh(token string) (*domain.Claims, error) {
	return m.verify(token, useRefresh)
}

func (m *TokenManager) verify(token string, use tokenUse) (*domain.Claims, error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Use != use {
		return nil, ErrWrongUse
	}

	var userID uint
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}
	return &domain.Claims{
		UserID: userID,
		Email:  claims.Email,
		Nombre: claims.Nombre,
		Role:   claims.Role,
	}, nil
}
