package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status    string `json:"status"`
	Datastore string `json:"datastore"`
	Error     string `json:"error,omitempty"`
}

func (a *API) rootHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := fmt.Fprintln(w, "restkit web service is running!"); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write response")
	}
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Datastore: "memory"}
	status := http.StatusOK

	if ds := a.opts.Datastore; ds != nil {
		resp.Datastore = ds.Driver()

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ds.Ping(ctx); err != nil {
			resp.Status = "unavailable"
			resp.Error = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode health response")
	}
}
