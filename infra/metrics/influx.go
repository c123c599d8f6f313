package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/cargofleet/core/metrics"
	"github.com/kilianp07/cargofleet/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes allocation runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAllocation writes one allocation_run point.
func (s *InfluxSink) RecordAllocation(run coremetrics.AllocationRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("allocation_run").
		AddTag("run_id", run.RunID).
		AddTag("company", run.Company).
		AddTag("skipped", strconv.FormatBool(run.Skipped)).
		AddField("total_clients", run.TotalClients).
		AddField("distributed", run.Distributed).
		AddField("not_distributed", run.NotDistributed).
		AddField("vip_distributed", run.VIPDistributed).
		AddField("vip_not_distributed", run.VIPNotDistributed).
		AddField("vehicles_used", run.VehiclesUsed).
		AddField("total_vehicles", run.TotalVehicles).
		AddField("load_percentage", round3(run.LoadPercentage)).
		AddField("duration_ms", round3(run.Duration.Seconds()*1000)).
		SetTime(run.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordVehicleLoads writes one vehicle_load point per vehicle.
func (s *InfluxSink) RecordVehicleLoads(loads []coremetrics.VehicleLoad) error {
	if len(loads) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(loads))
	for _, l := range loads {
		points = append(points, write.NewPointWithMeasurement("vehicle_load").
			AddTag("vehicle_id", l.VehicleID).
			AddTag("kind", l.Kind).
			AddField("capacity", round3(l.Capacity)).
			AddField("load", round3(l.Load)).
			AddField("clients", l.Clients).
			SetTime(l.Time))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordPlacement writes a client_placement point.
func (s *InfluxSink) RecordPlacement(pl coremetrics.Placement) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("client_placement").
		AddTag("run_id", pl.RunID).
		AddTag("client_id", pl.ClientID).
		AddTag("vip", strconv.FormatBool(pl.VIP)).
		AddTag("placed", strconv.FormatBool(pl.Placed))
	if pl.VehicleID != "" {
		p = p.AddTag("vehicle_id", pl.VehicleID)
	}
	if pl.Reason != "" {
		p = p.AddField("reason", pl.Reason)
	}
	p = p.AddField("weight", round3(pl.Weight)).SetTime(pl.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close flushes and closes the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
