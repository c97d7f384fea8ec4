package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/khrees2412/hirepipe/pkg/models"
)

const (
	accessTTL  = time.Hour
	refreshTTL = 7 * 24 * time.Hour
	issuer     = "hirepipe"
)

// Claims are the JWT claims issued on login and registration
type Claims struct {
	jwt.RegisteredClaims
	Email   string      `json:"email"`
	Role    models.Role `json:"role"`
	Refresh bool        `json:"refresh,omitempty"`
}

// TokenIssuer signs and validates HS256 tokens
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &TokenIssuer{secret: []byte(secret), now: time.Now}, nil
}

// Issue creates the access and refresh token pair for user
func (t *TokenIssuer) Issue(user models.User) (access, refresh string, err error) {
	access, err = t.sign(user, accessTTL, false)
	if err != nil {
		return "", "", err
	}
	refresh, err = t.sign(user, refreshTTL, true)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (t *TokenIssuer) sign(user models.User, ttl time.Duration, isRefresh bool) (string, error) {
	now := t.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:   user.Email,
		Role:    user.Role,
		Refresh: isRefresh,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Validate parses an access token. Refresh tokens are not accepted.
func (t *TokenIssuer) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	if claims.Refresh {
		return nil, errors.New("refresh token used as access token")
	}
	return claims, nil
}

type claimsKey struct{}

func withClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFrom returns the authenticated caller of a request
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}
