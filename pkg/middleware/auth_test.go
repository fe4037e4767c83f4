package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/org-portal/pkg/composables"
)

func captureUser(t *testing.T, captured *composables.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := composables.UseUser(r.Context())
		require.NoError(t, err)
		*captured = user
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_IssuedTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("admin", composables.RoleAdmin)
	require.NoError(t, err)

	var user composables.User
	handler := Authenticate()(captureUser(t, &user))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/areas", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "admin", user.Subject)
	require.Equal(t, composables.RoleAdmin, user.Role)
}

func TestAuthenticate_NoTokenIsGuest(t *testing.T) {
	var user composables.User
	handler := Authenticate()(captureUser(t, &user))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/areas", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, composables.RoleGuest, user.Role)
}

func TestAuthenticate_MalformedTokenRejected(t *testing.T) {
	handler := Authenticate()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/areas", nil)
	r.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseRole(t *testing.T) {
	require.Equal(t, composables.RoleAdmin, parseRole(" Admin "))
	require.Equal(t, composables.RoleMember, parseRole("member"))
	require.Equal(t, composables.RoleGuest, parseRole("superuser"))
	require.Equal(t, composables.RoleGuest, parseRole(""))
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	run := func(user *composables.User, required composables.Role) int {
		handler := RequireRole(required)(ok)
		r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/areas", nil)
		if user != nil {
			r = r.WithContext(composables.WithUser(r.Context(), *user))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	require.Equal(t, http.StatusUnauthorized, run(nil, composables.RoleAdmin))
	require.Equal(t, http.StatusForbidden, run(&composables.User{Role: composables.RoleGuest}, composables.RoleAdmin))
	require.Equal(t, http.StatusForbidden, run(&composables.User{Role: composables.RoleMember}, composables.RoleAdmin))
	require.Equal(t, http.StatusNoContent, run(&composables.User{Role: composables.RoleAdmin}, composables.RoleAdmin))
	require.Equal(t, http.StatusNoContent, run(&composables.User{Role: composables.RoleAdmin}, composables.RoleMember))
}
