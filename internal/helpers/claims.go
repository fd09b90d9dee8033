package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (c *CustomClaims) GetSafeRole() string {
	if c.Role == "" {
		return "guest"
	}
	return c.Role
}

// TokenValidator checks bearer tokens against either a remote JWKS or a
// shared HMAC secret.
type TokenValidator struct {
	jwks   *keyfunc.JWKS
	secret []byte
}

// NewJWKSValidator fetches the key set once and keeps it refreshed in the
// background until Close is called.
func NewJWKSValidator(ctx context.Context, jwksURL string, refresh time.Duration) (*TokenValidator, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:             ctx,
		RefreshInterval: refresh,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %v", jwksURL, err)
	}
	return &TokenValidator{jwks: jwks}, nil
}

func NewSecretValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret)}
}

func (v *TokenValidator) keyfunc(token *jwt.Token) (interface{}, error) {
	if v.jwks != nil {
		return v.jwks.Keyfunc(token)
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return v.secret, nil
}

func (v *TokenValidator) ValidateToken(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, v.keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func (v *TokenValidator) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
