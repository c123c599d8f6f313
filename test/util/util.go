// Package util holds the fixtures of the cargofleet integration tests: a
// throwaway Mosquitto broker, a probe that collects published allocation
// reports and a poller for the /metrics endpoint.
package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/cargofleet/core/allocation"
)

const (
	BrokerReadyTimeout = 5 * time.Second
	MetricTimeout      = 5 * time.Second

	pollInterval = 50 * time.Millisecond
)

const mosquittoConf = `listener 1883
allow_anonymous true
persistence false
log_dest stdout
`

// Broker is a Mosquitto container reachable at URL.
type Broker struct {
	URL  string
	cont tc.Container
}

// StartBroker runs eclipse-mosquitto with anonymous access and waits until
// an MQTT client can connect to it.
func StartBroker(ctx context.Context) (*Broker, error) {
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{{
			Reader:            strings.NewReader(mosquittoConf),
			ContainerFilePath: "/mosquitto/config/mosquitto.conf",
			FileMode:          0o644,
		}},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		return nil, err
	}
	b := &Broker{cont: cont}
	host, err := cont.Host(ctx)
	if err != nil {
		b.Close()
		return nil, err
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		b.Close()
		return nil, err
	}
	b.URL = fmt.Sprintf("tcp://%s:%s", host, port.Port())

	readyCtx, cancel := context.WithTimeout(ctx, BrokerReadyTimeout)
	defer cancel()
	if err := b.waitReady(readyCtx); err != nil {
		b.Close()
		return nil, fmt.Errorf("broker not ready: %w", err)
	}
	return b, nil
}

// Close terminates the container.
func (b *Broker) Close() {
	_ = b.cont.Terminate(context.Background())
}

func (b *Broker) waitReady(ctx context.Context) error {
	opts := paho.NewClientOptions().AddBroker(b.URL).SetClientID("cargofleet-probe")
	for {
		cli := paho.NewClient(opts)
		if tok := cli.Connect(); tok.Wait() && tok.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// ReportProbe collects allocation reports published under a topic filter.
type ReportProbe struct {
	cli     paho.Client
	reports chan allocation.Report
	errs    chan error
}

// NewReportProbe subscribes to filter on the broker.
func (b *Broker) NewReportProbe(filter string) (*ReportProbe, error) {
	p := &ReportProbe{reports: make(chan allocation.Report, 16), errs: make(chan error, 1)}
	opts := paho.NewClientOptions().AddBroker(b.URL).SetClientID(fmt.Sprintf("report-probe-%d", time.Now().UnixNano()))
	p.cli = paho.NewClient(opts)
	if tok := p.cli.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, tok.Error()
	}
	tok := p.cli.Subscribe(filter, 1, func(_ paho.Client, m paho.Message) {
		var rep allocation.Report
		if err := json.Unmarshal(m.Payload(), &rep); err != nil {
			select {
			case p.errs <- fmt.Errorf("decode %s: %w", m.Topic(), err):
			default:
			}
			return
		}
		select {
		case p.reports <- rep:
		default:
		}
	})
	if tok.Wait() && tok.Error() != nil {
		p.Close()
		return nil, tok.Error()
	}
	return p, nil
}

// Next returns the next received report.
func (p *ReportProbe) Next(ctx context.Context) (allocation.Report, error) {
	select {
	case rep := <-p.reports:
		return rep, nil
	case err := <-p.errs:
		return allocation.Report{}, err
	case <-ctx.Done():
		return allocation.Report{}, fmt.Errorf("no report received: %w", ctx.Err())
	}
}

// Close disconnects the probe.
func (p *ReportProbe) Close() { p.cli.Disconnect(100) }

// WaitForMetrics polls metricsURL until every name appears in the
// exposition, or ctx is done. The error lists the names still missing.
func WaitForMetrics(ctx context.Context, metricsURL string, names ...string) error {
	missing := names
	for {
		if body, err := scrape(ctx, metricsURL); err == nil {
			missing = missing[:0:0]
			for _, n := range names {
				if !strings.Contains(body, n) {
					missing = append(missing, n)
				}
			}
			if len(missing) == 0 {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("metrics %v not exposed: %w", missing, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

func scrape(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	return string(body), err
}
