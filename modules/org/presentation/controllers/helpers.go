package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/httpapi"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

// APIPrefix is the mount point shared by all JSON controllers.
const APIPrefix = "/api/v1"

func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, serrors.Validation("INVALID_ID", "id must be a positive integer").WithField(name)
	}
	return uint(id), nil
}

func queryUint(r *http.Request, name string) (uint, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, serrors.Validation("INVALID_QUERY_PARAM", "must be a positive integer").WithField(name)
	}
	return uint(id), true, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid json", nil)
		return false
	}
	return true
}

// editor names the acting user for audit columns, falling back for
// unauthenticated callers that slipped past role checks in tests.
func editor(r *http.Request) string {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		return "unknown"
	}
	return u.Subject
}
