package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/assetline/inventory-api/internal/config"
	"github.com/assetline/inventory-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the custom claims carried in issued tokens
type Claims struct {
	Name   string `json:"name,omitempty"`
	Mobile string `json:"mobile,omitempty"`
	Role   string `json:"role,omitempty"`
	RoleID string `json:"role_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates locally signed access tokens
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a new token manager
func NewTokenManager(cfg *config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL(),
	}
}

// IssueToken creates a signed token for the user
func (m *TokenManager) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:   user.Name,
		Mobile: user.Mobile,
		Role:   string(user.LegacyRole),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	if user.RoleID != nil {
		claims.RoleID = user.RoleID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken validates a token and returns the user context
func (m *TokenManager) ValidateToken(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	userCtx := &UserContext{
		UserID:     userID,
		Name:       claims.Name,
		Mobile:     claims.Mobile,
		LegacyRole: domain.LegacyRole(claims.Role),
	}
	if claims.RoleID != "" {
		if roleID, err := uuid.Parse(claims.RoleID); err == nil {
			userCtx.RoleID = &roleID
		}
	}

	return userCtx, nil
}
