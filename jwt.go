package main

import (
	"errors"
	"time"

	"github.com/Saparbek-4/task-manager-pro/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the token_type claim. A refresh token is never
// accepted where an access token is required and vice versa.
const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

// Validation failures surfaced by the codec. Callers at the HTTP boundary
// collapse all of these into a bare 401.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("bad token signature")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongTokenKind = errors.New("wrong token kind")
)

// TokenClaims is the signed payload of both access and refresh tokens.
// Subject holds the username.
type TokenClaims struct {
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func jwtKeyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrInvalidKeyType
	}
	return cfg.JWTSecret, nil
}

// mintToken signs a token of the given kind for the user. Access tokens get
// the short lifetime, refresh tokens the long one; both carry subject,
// issued-at, expiry and the kind discriminator.
func mintToken(user models.User, kind string) (string, error) {
	ttl := cfg.AccessTokenTTL
	if kind == tokenKindRefresh {
		ttl = cfg.RefreshTokenTTL
	}
	now := time.Now()
	claims := TokenClaims{
		Email:     user.Email,
		Role:      user.Role,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps two mints in the same second from colliding on the
			// store's unique value index.
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.JWTSecret)
}

// validateToken verifies signature, expiry and the kind discriminator.
// Expiry is checked with no leeway: a token is invalid at its encoded instant.
func validateToken(value, kind string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(value, claims, jwtKeyFunc)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformedToken
		}
	}
	if !token.Valid {
		return nil, ErrBadSignature
	}
	if claims.TokenType != kind {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}

// extractSubject returns the subject of a signed token without checking
// expiry, so an expired refresh token can still be traced to its owner.
// The signature is still verified.
func extractSubject(value string) (string, error) {
	claims := &TokenClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, err := parser.ParseWithClaims(value, claims, jwtKeyFunc); err != nil {
		return "", ErrMalformedToken
	}
	return claims.Subject, nil
}

// isTokenExpired reports whether a stored token value should be treated as
// dead: expiry in the past, or a value that does not parse/verify at all.
func isTokenExpired(value string) bool {
	_, err := jwt.ParseWithClaims(value, &TokenClaims{}, jwtKeyFunc)
	return err != nil
}
