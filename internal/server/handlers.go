package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/titooo7/teamarr-sub001/internal/runner"
	"github.com/titooo7/teamarr-sub001/pkg/contracts"
)

// Pinger checks connectivity to a backing service
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the read-only introspection endpoints
type Handler struct {
	store   contracts.FingerprintStore
	runner  *runner.Runner
	pingers map[string]Pinger
}

// NewHandler creates the introspection handler. pingers maps a
// dependency name to its connectivity check for /healthz.
func NewHandler(store contracts.FingerprintStore, runner *runner.Runner, pingers map[string]Pinger) *Handler {
	return &Handler{
		store:   store,
		runner:  runner,
		pingers: pingers,
	}
}

// HealthCheck reports readiness of every backing dependency
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, pinger := range h.pingers {
		if err := pinger.Ping(ctx); err != nil {
			status[name] = err.Error()
			healthy = false
		} else {
			status[name] = "ok"
		}
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"healthy":      healthy,
		"dependencies": status,
	})
}

// Stats returns fingerprint cache statistics and the latest batch
// summary
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	response := map[string]interface{}{
		"cache": stats,
	}
	if last := h.runner.LastResult(); last != nil {
		response["last_run"] = map[string]interface{}{
			"run_id":          last.RunID,
			"generation":      last.Generation,
			"target_date":     last.TargetDate,
			"streams":         len(last.Results),
			"matched":         last.MatchedCount,
			"included":        last.IncludedCount,
			"excluded":        last.ExcludedCount,
			"unmatched":       last.UnmatchedCount,
			"exceptions":      last.ExceptionCount,
			"match_rate":      last.MatchRate,
			"cache_hits":      last.CacheHits,
			"cache_misses":    last.CacheMisses,
			"cache_hit_rate":  last.CacheHitRate,
			"purged_entries":  last.PurgedEntries,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// LastRun returns the full result list of the latest batch
func (h *Handler) LastRun(w http.ResponseWriter, r *http.Request) {
	last := h.runner.LastResult()
	if last == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no completed run yet"})
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
