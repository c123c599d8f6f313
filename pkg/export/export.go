// Package export writes a report.Snapshot to JSON, CSV or YAML.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/cargofleet/core/report"
)

// Formats lists the accepted values for Write.
var Formats = []string{"json", "csv", "yaml"}

// Write dispatches on format.
func Write(w io.Writer, format string, snap report.Snapshot) error {
	switch format {
	case "json":
		return WriteJSON(w, snap)
	case "csv":
		return WriteCSV(w, snap)
	case "yaml", "yml":
		return WriteYAML(w, snap)
	default:
		return fmt.Errorf("export: unknown format %q (want one of %v)", format, Formats)
	}
}

// WriteJSON writes the snapshot to w as indented JSON.
func WriteJSON(w io.Writer, snap report.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// WriteYAML writes the snapshot to w as YAML.
func WriteYAML(w io.Writer, snap report.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return enc.Close()
}

var csvHeader = []string{"record", "type", "id", "name", "capacity", "current_load", "altitude", "refrigerated", "weight", "vip", "vehicle_id"}

// WriteCSV writes one row per vehicle, then one row per client. Columns that
// do not apply to a row are left empty. vehicle_id is filled for clients
// placed by the snapshot's report.
func WriteCSV(w io.Writer, snap report.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, v := range snap.Vehicles {
		rec := []string{"vehicle", v.Type, v.ID, "", formatFloat(v.Capacity), formatFloat(v.CurrentLoad), "", "", "", "", ""}
		if v.Altitude != nil {
			rec[6] = formatFloat(*v.Altitude)
		}
		if v.Refrigerated != nil {
			rec[7] = strconv.FormatBool(*v.Refrigerated)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	placed := make(map[string]string)
	if snap.Report != nil {
		for _, a := range snap.Report.Distributed {
			placed[a.ClientID] = a.VehicleID
		}
	}
	for _, c := range snap.Clients {
		rec := []string{"client", "client", c.ID, c.Name, "", "", "", "", formatFloat(c.Weight), strconv.FormatBool(c.VIP), placed[c.ID]}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
