package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apifleet "github.com/kilianp07/cargofleet/api/fleet"
	"github.com/kilianp07/cargofleet/api/runs"
	"github.com/kilianp07/cargofleet/app/plugins"
	"github.com/kilianp07/cargofleet/config"
	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/allocation/logging"
	"github.com/kilianp07/cargofleet/core/fleet"
	coremetrics "github.com/kilianp07/cargofleet/core/metrics"
	coremon "github.com/kilianp07/cargofleet/core/monitoring"
	"github.com/kilianp07/cargofleet/infra/logger"
	"github.com/kilianp07/cargofleet/infra/metrics"
	"github.com/kilianp07/cargofleet/infra/monitoring"
	"github.com/kilianp07/cargofleet/infra/mqtt"
	"github.com/kilianp07/cargofleet/internal/eventbus"
)

// Service wires the registry, the allocation manager and its adapters.
type Service struct {
	Registry *fleet.Registry
	Manager  *allocation.Manager
	// Store is the run log, nil when disabled.
	Store logging.LogStore
	// Monitor receives side-effect failures, NopMonitor unless Sentry is configured.
	Monitor coremon.Monitor

	publisher     *mqtt.PahoPublisher
	log           logger.Logger
	promAddr      string
	apiToken      string
	stopCollector context.CancelFunc
	collectorDone <-chan struct{}
}

// BuildRegistry registers the configured fleet. Entries that fail
// validation or collide with an earlier id are logged and skipped; their
// errors are returned joined.
func BuildRegistry(cfg *config.Config, log logger.Logger) (*fleet.Registry, error) {
	reg := fleet.NewRegistry(cfg.Company, logger.New("registry"))
	if cfg.Fleet == nil {
		return reg, nil
	}
	ids := cfg.IDSource()
	var errs []error
	for i, vc := range cfg.Fleet.Vehicles {
		v, err := vc.Build(ids)
		if err == nil {
			err = reg.RegisterVehicle(v)
		}
		if err != nil {
			log.Warnf("vehicle %d skipped: %v", i, err)
			errs = append(errs, fmt.Errorf("vehicle %d: %w", i, err))
		}
	}
	for i, cc := range cfg.Fleet.Clients {
		c, err := cc.Build(ids)
		if err == nil {
			err = reg.RegisterClient(c)
		}
		if err != nil {
			log.Warnf("client %d skipped: %v", i, err)
			errs = append(errs, fmt.Errorf("client %d: %w", i, err))
		}
	}
	return reg, errors.Join(errs...)
}

// New creates a Service from the configuration. Invalid fleet entries do
// not fail construction; adapter errors do.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	reg, err := BuildRegistry(cfg, logg)
	if err != nil {
		logg.Warnf("fleet loaded with errors")
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	strategy, err := plugins.NewStrategy(cfg.Allocation.Strategy, nil)
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}

	bus := eventbus.New()
	manager, err := allocation.NewManager(reg, strategy, sink, bus, logger.New("allocation"))
	if err != nil {
		return nil, fmt.Errorf("allocation manager: %w", err)
	}
	manager.SetResetBeforeRun(cfg.Allocation.ResetBeforeRun)

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("sentry: %w", err)
	}
	manager.SetMonitor(mon)

	svc := &Service{Registry: reg, Manager: manager, Monitor: mon, log: logg, promAddr: cfg.Metrics.PrometheusAddr, apiToken: cfg.APIToken}

	store, err := logging.Open(cfg.Logging.Options())
	if err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("run log: %w", err)
	}
	if store != nil {
		manager.SetLogStore(store)
		svc.Store = store
	}

	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			_ = manager.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		manager.SetPublisher(pub)
		svc.publisher = pub
	}

	ctx, cancel := context.WithCancel(context.Background())
	svc.stopCollector = cancel
	svc.collectorDone = metrics.StartEventCollector(ctx, bus, sink)
	return svc, nil
}

// Allocate runs one allocation pass.
func (s *Service) Allocate(ctx context.Context) (allocation.Report, error) {
	return s.Manager.Run(ctx)
}

// Reset unloads every vehicle.
func (s *Service) Reset() { s.Manager.Reset() }

// Handler returns the HTTP surface: /metrics, /api/fleet and /api/runs.
func (s *Service) Handler() http.Handler {
	mux := metrics.NewHandler(nil)
	fh := apifleet.NewHandler(s.Registry)
	mux.Handle("/api/fleet", fh)
	mux.Handle("/api/fleet/", fh)
	mux.Handle("/api/runs", runs.NewLogHandler(s.Store, s.apiToken))
	return mux
}

// Serve runs the HTTP surface on addr, or on metrics.prometheus_addr when
// addr is empty, until ctx is canceled.
func (s *Service) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = s.promAddr
	}
	if addr == "" {
		return fmt.Errorf("serve: no listen address configured")
	}
	return metrics.Serve(ctx, addr, s.Handler())
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	err := s.Manager.Close()
	s.stopCollector()
	<-s.collectorDone
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	s.Monitor.Flush(2 * time.Second)
	return err
}
