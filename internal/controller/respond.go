package controller

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/restkit/internal/apperror"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
		}
	}
}

// writeError translates err into a RestError response.
// Errors without a client-visible kind are logged with a reference that is echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) *apperror.RestError {
	restErr := apperror.ToRestError(err)
	logger := zerolog.Ctx(r.Context())

	if restErr.Status >= http.StatusInternalServerError {
		ref := uuid.NewString()
		restErr.DeveloperInfo = "reference " + ref
		logger.Error().Err(err).Str("reference", ref).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", restErr.Status).Str("code", restErr.Code).Msg("request rejected")
	}

	writeJSON(w, r, restErr.Status, restErr)
	return restErr
}
