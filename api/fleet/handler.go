package fleet

import (
	"encoding/json"
	"net/http"
	"strings"

	corefleet "github.com/kilianp07/cargofleet/core/fleet"
	"github.com/kilianp07/cargofleet/core/model"
	"github.com/kilianp07/cargofleet/core/report"
)

// NewHandler exposes the registry via GET /api/fleet and
// GET /api/fleet/vehicles/{id}. The listing accepts kind=airplane|van and
// available=true, which keeps vehicles with remaining capacity only.
func NewHandler(reg *corefleet.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/fleet"), "/")
		snap := report.NewSnapshot(reg, nil)
		switch {
		case path == "":
			vehicles, err := filter(snap.Vehicles, r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			snap.Vehicles = vehicles
			writeJSON(w, snap)
		case strings.HasPrefix(path, "vehicles/"):
			id := strings.TrimPrefix(path, "vehicles/")
			for _, v := range snap.Vehicles {
				if v.ID == id {
					writeJSON(w, v)
					return
				}
			}
			http.NotFound(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

func filter(vehicles []report.VehicleRecord, r *http.Request) ([]report.VehicleRecord, error) {
	kind := r.URL.Query().Get("kind")
	if kind != "" {
		k, err := model.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		kind = k.String()
	}
	available := r.URL.Query().Get("available") == "true"
	out := make([]report.VehicleRecord, 0, len(vehicles))
	for _, v := range vehicles {
		if kind != "" && v.Type != kind {
			continue
		}
		if available && v.Remaining <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
