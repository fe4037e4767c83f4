package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iota-uz/org-portal/pkg/composables"
	"github.com/iota-uz/org-portal/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind serrors.Kind) int {
	switch kind {
	case serrors.KindValidation:
		return http.StatusBadRequest
	case serrors.KindConflict:
		return http.StatusConflict
	case serrors.KindNotFound:
		return http.StatusNotFound
	case serrors.KindAuth:
		return http.StatusForbidden
	case serrors.KindBatch:
		return http.StatusMultiStatus
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError renders err as a structured envelope. Internal errors are
// masked; their detail goes to the request logger only.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{}
	if id := composables.UseRequestID(r.Context()); id != "" {
		meta["request_id"] = id
	}

	kind := serrors.KindOf(err)
	status := StatusFor(kind)

	var batch *serrors.BatchError
	if errors.As(err, &batch) {
		composables.UseLogger(r.Context()).WithError(err).Error("batch failed")
		_ = WriteJSON(w, status, map[string]any{
			"code":    "BATCH_FAILED",
			"message": "the batch was rolled back",
			"applied": batch.Applied,
			"reports": batch.Reports,
			"meta":    meta,
		})
		return
	}

	if base := serrors.AsBase(err); base != nil && kind != serrors.KindInternal {
		if base.Field() != "" {
			meta["field"] = base.Field()
		}
		_ = WriteError(w, status, base.Code(), base.Message(), meta)
		return
	}

	composables.UseLogger(r.Context()).WithError(err).Error("request failed")
	_ = WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error", meta)
}
