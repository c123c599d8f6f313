package runs

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kilianp07/cargofleet/core/allocation/logging"
)

// NewLogHandler returns an HTTP handler exposing allocation runs via GET /api/runs.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
func NewLogHandler(store logging.LogStore, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		if store == nil {
			http.Error(w, "run log disabled", http.StatusNotFound)
			return
		}
		q := logging.LogQuery{
			VehicleID: r.URL.Query().Get("vehicle_id"),
			ClientID:  r.URL.Query().Get("client_id"),
		}
		for _, p := range []struct {
			key string
			dst *time.Time
		}{{"start", &q.Start}, {"end", &q.End}} {
			s := r.URL.Query().Get(p.key)
			if s == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, "invalid "+p.key, http.StatusBadRequest)
				return
			}
			*p.dst = t
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []logging.LogRecord{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
