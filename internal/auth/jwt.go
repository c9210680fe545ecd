package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoHost is returned for a well-signed token that names no host.
var ErrNoHost = errors.New("token carries no host")

// clockSkew is tolerated on exp, nbf and iat.
const clockSkew = 30 * time.Second

// HostClaims are the claims of the bearer tokens hosts and admins present.
// Tokens are issued by the account service; this service only verifies them.
// Older tokens carry the host only in "sub".
type HostClaims struct {
	HostID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// ParseHostToken verifies an HS256 token signed with secret and returns its
// claims. Tokens without an expiry are rejected.
func ParseHostToken(tokenString, secret string) (*HostClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	)

	claims := &HostClaims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}); err != nil {
		return nil, fmt.Errorf("failed to parse host token: %w", err)
	}

	if claims.HostID == "" {
		claims.HostID = claims.Subject
	}
	if claims.HostID == "" {
		return nil, ErrNoHost
	}
	return claims, nil
}
