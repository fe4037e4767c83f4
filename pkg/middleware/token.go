package middleware

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/configuration"
)

// IssueToken signs a bearer token for the given subject and role, valid
// for the configured token expiry. Used by the init tooling to mint the
// first administrator credential.
func IssueToken(subject string, role composables.Role) (string, error) {
	conf := configuration.Use()
	now := time.Now()
	claims := accessClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.Auth.TokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(conf.Auth.JWTSecret))
}
