package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/fleet"
	"github.com/kilianp07/cargofleet/core/model"
	"github.com/kilianp07/cargofleet/core/report"
)

func snapshot(t *testing.T) report.Snapshot {
	t.Helper()
	seq := model.NewSequence()
	reg := fleet.NewRegistry("Aero-Trans", nil)
	plane, err := model.NewAirplane(20, 12000, model.WithIDSource(seq))
	require.NoError(t, err)
	van, err := model.NewVan(5, true, model.WithIDSource(seq))
	require.NoError(t, err)
	require.NoError(t, reg.RegisterVehicle(plane))
	require.NoError(t, reg.RegisterVehicle(van))
	ivanov, err := model.NewClient("Ivanov", 8.5, true, model.WithIDSource(seq))
	require.NoError(t, err)
	petrov, err := model.NewClient("Petrov", 30, false, model.WithIDSource(seq))
	require.NoError(t, err)
	require.NoError(t, reg.RegisterClient(ivanov))
	require.NoError(t, reg.RegisterClient(petrov))

	var rep allocation.Report
	reg.Exclusive(func(vs []*model.Vehicle, cs []*model.Client) {
		rep = allocation.FirstFit{}.Allocate(vs, cs)
	})
	return report.NewSnapshot(reg, &rep)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, snapshot(t)))

	var out struct {
		Clients []struct {
			Name   string  `json:"name"`
			Weight float64 `json:"weight"`
			VIP    bool    `json:"vip"`
		} `json:"clients"`
		Vehicles []map[string]any `json:"vehicles"`
		Report   struct {
			Stats allocation.Stats `json:"statistics"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Clients, 2)
	assert.Equal(t, "Ivanov", out.Clients[0].Name)
	assert.True(t, out.Clients[0].VIP)
	require.Len(t, out.Vehicles, 2)
	assert.Equal(t, "airplane", out.Vehicles[0]["type"])
	assert.Equal(t, 12000.0, out.Vehicles[0]["altitude"])
	assert.NotContains(t, out.Vehicles[0], "refrigerated")
	assert.Equal(t, "van", out.Vehicles[1]["type"])
	assert.Equal(t, true, out.Vehicles[1]["refrigerated"])
	assert.Equal(t, 1, out.Report.Stats.DistributedCount)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, snapshot(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"vehicle", "airplane", "V1", "", "20", "8.5", "12000", "", "", "", ""}, rows[1])
	assert.Equal(t, []string{"vehicle", "van", "V2", "", "5", "0", "", "true", "", "", ""}, rows[2])
	assert.Equal(t, []string{"client", "client", "C3", "Ivanov", "", "", "", "", "8.5", "true", "V1"}, rows[3])
	assert.Equal(t, []string{"client", "client", "C4", "Petrov", "", "", "", "", "30", "false", ""}, rows[4])
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, snapshot(t)))

	var out report.Snapshot
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "Aero-Trans", out.Company)
	require.Len(t, out.Vehicles, 2)
	assert.Equal(t, "airplane", out.Vehicles[0].Type)
	require.NotNil(t, out.Report)
	assert.Equal(t, "V1", out.Report.Distributed[0].VehicleID)
}

func TestWrite_Format(t *testing.T) {
	snap := snapshot(t)
	for _, f := range []string{"json", "csv", "yaml", "yml"} {
		var buf bytes.Buffer
		assert.NoError(t, Write(&buf, f, snap), f)
		assert.NotZero(t, buf.Len(), f)
	}
	assert.Error(t, Write(&bytes.Buffer{}, "xml", snap))
}
