package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/cargofleet/infra/logger"
)

// NewHandler returns a mux serving /metrics from g. A nil gatherer serves
// the default registry. Callers may mount further routes on the mux.
func NewHandler(g prometheus.Gatherer) *http.ServeMux {
	h := promhttp.Handler()
	if g != nil {
		h = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	return mux
}

// StartPromServer serves the default registry on addr until ctx is
// canceled.
func StartPromServer(ctx context.Context, addr string) error {
	return Serve(ctx, addr, NewHandler(nil))
}

// Serve runs an HTTP server for h on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	log := logger.New("http-server")
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("server shutdown: %v", err)
		}
	}()
	log.Infof("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
