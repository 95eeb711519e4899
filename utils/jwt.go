package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mealyhq/mealy-api/config"
)

// Claims carried inside every access token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies access tokens with a single symmetric
// secret. Both operations are pure CPU work and safe for concurrent use.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secret:   cfg.JWTSecret,
		lifetime: cfg.TokenLifetime,
	}
}

// Issue mints a signed token for the given identity, valid for the
// configured lifetime from now.
func (ts *TokenService) Issue(userID uint, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.lifetime)),
			Issuer:    "mealy",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// Parse verifies a token string and returns its claims. The returned
// error wraps the jwt sentinel errors, so callers can tell an expired
// token (jwt.ErrTokenExpired) from a forged one
// (jwt.ErrTokenSignatureInvalid) or a malformed one
// (jwt.ErrTokenMalformed).
func (ts *TokenService) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return ts.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RemainingLifetime reports how long the claims stay valid. Never
// negative: claims past their expiry report zero.
func (ts *TokenService) RemainingLifetime(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}
