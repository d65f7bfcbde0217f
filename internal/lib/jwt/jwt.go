package jwt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingAuthHeader     = errors.New("missing Authorization header")
	ErrInvalidAuthHeader     = errors.New("invalid Authorization header")
	ErrInvalidToken          = errors.New("invalid token")
	ErrMissingSubjectClaim   = errors.New("sub missing in token")
	ErrMissingPermission     = errors.New("permission missing in token")
	ErrPermissionsWrongShape = errors.New("permissions claim is not a list")
)

type JWTParser struct {
	Secret string
}

func New(secret string) *JWTParser {
	return &JWTParser{
		Secret: secret,
	}
}

// ParseToken returns the external user id (the identity provider subject)
// from a bearer token.
func (p *JWTParser) ParseToken(authHeader string) (string, error) {
	claims, err := p.parseClaims(authHeader)
	if err != nil {
		return "", err
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrMissingSubjectClaim
	}

	return sub, nil
}

// CheckPermission verifies that the token carries the named permission in
// its permissions claim. Token issuance stays with the identity provider.
func (p *JWTParser) CheckPermission(authHeader, permission string) error {
	claims, err := p.parseClaims(authHeader)
	if err != nil {
		return err
	}

	raw, ok := claims["permissions"].([]interface{})
	if !ok {
		return ErrPermissionsWrongShape
	}

	for _, item := range raw {
		if s, ok := item.(string); ok && s == permission {
			return nil
		}
	}

	return ErrMissingPermission
}

func (p *JWTParser) parseClaims(authHeader string) (jwt.MapClaims, error) {
	if authHeader == "" {
		return nil, ErrMissingAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, ErrInvalidAuthHeader
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(p.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
