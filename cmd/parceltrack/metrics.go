package main

import (
	"net/http"

	"github.com/cuemby/parceltrack/pkg/log"
	"github.com/cuemby/parceltrack/pkg/metrics"
	"github.com/spf13/cobra"
)

// addMetricsFlags adds the --metrics-addr flag shared by every command that
// runs long enough to be worth scraping (sorting-center, run). Grounded on
// the teacher's cmd/warren/main.go, which exposes the same /metrics,
// /health, /ready, /live quartet over its own listener.
func addMetricsFlags(cmd *cobra.Command) {
	cmd.Flags().String("metrics-addr", "", "address to serve /metrics, /health, /ready, /live on (empty disables)")
}

// startMetrics launches the Prometheus/health HTTP server in the
// background if --metrics-addr is set, registers b's three stores as
// healthy, and starts the backlog Collector. The returned stop func stops
// the Collector, and also closes the server if one was started.
func startMetrics(cmd *cobra.Command, b *backend) (stop func(), err error) {
	addr, _ := cmd.Flags().GetString("metrics-addr")

	metrics.RegisterComponent("eventstream", true, "")
	metrics.RegisterComponent("kvtable", true, "")
	metrics.RegisterComponent("coordstore", true, "")

	collector := metrics.NewCollector(b.coord)
	collector.Start()

	if addr == "" {
		return collector.Stop, nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server exited: %v", err)
		}
	}()

	return func() {
		collector.Stop()
		_ = srv.Close()
	}, nil
}
