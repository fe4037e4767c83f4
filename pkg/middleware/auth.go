package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/configuration"
	"github.com/iota-uz/org-portal/pkg/httpapi"
)

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate parses the bearer token and attaches the principal to the
// request context. Requests without a valid token proceed as guests so that
// read endpoints stay open inside the network perimeter.
func Authenticate() mux.MiddlewareFunc {
	secret := []byte(configuration.Use().Auth.JWTSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := composables.User{Role: composables.RoleGuest}

			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				claims := &accessClaims{}
				parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return secret, nil
				})
				if err != nil || !parsed.Valid {
					_ = httpapi.WriteError(w, http.StatusUnauthorized, "AUTH_INVALID_TOKEN", "invalid bearer token", nil)
					return
				}
				user = composables.User{
					Subject: claims.Subject,
					Role:    parseRole(claims.Role),
				}
			}

			next.ServeHTTP(w, r.WithContext(composables.WithUser(r.Context(), user)))
		})
	}
}

func parseRole(v string) composables.Role {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "admin":
		return composables.RoleAdmin
	case "member":
		return composables.RoleMember
	default:
		return composables.RoleGuest
	}
}

// RequireRole rejects requests whose principal ranks below the given role.
func RequireRole(role composables.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := composables.UseUser(r.Context())
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required", nil)
				return
			}
			if rank(user.Role) < rank(role) {
				_ = httpapi.WriteError(w, http.StatusForbidden, "AUTH_FORBIDDEN", "insufficient role", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rank(role composables.Role) int {
	switch role {
	case composables.RoleAdmin:
		return 2
	case composables.RoleMember:
		return 1
	default:
		return 0
	}
}
