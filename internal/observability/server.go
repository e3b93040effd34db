// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package observability provides HTTP endpoints for metrics and health checks.
package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// ReadinessChecker returns whether the plugin is enabled and serving.
type ReadinessChecker func() bool

// StatusFunc returns a JSON-encodable snapshot served at /status.
type StatusFunc func() any

// Registrar registers a package's collectors with the server registry,
// e.g. worlds.RegisterMetrics.
type Registrar func(prometheus.Registerer)

// commandOutputFailures is a package-level counter for failed sends to a command sender.
// This allows handlers to increment the metric without needing access to the Server instance.
var commandOutputFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worldgate_command_output_failures_total",
		Help: "Total number of command output write failures by command",
	},
	[]string{"command"},
)

// RecordCommandOutputFailure increments the command output failure counter.
// Called by command handlers when a send to the sender fails.
func RecordCommandOutputFailure(command string) {
	commandOutputFailures.WithLabelValues(command).Inc()
}

// Host event outcomes.
const (
	OutcomeHandled = "handled"
	OutcomeSkipped = "skipped"
)

// hostEvents counts host events delivered to the plugin.
var hostEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worldgate_host_events_total",
		Help: "Total number of host events by event type and outcome",
	},
	[]string{"event", "outcome"},
)

// RecordHostEvent increments the host event counter.
// Parameters:
//   - event: event kind (e.g., "portal", "join")
//   - outcome: OutcomeHandled when the plugin acted, OutcomeSkipped otherwise
func RecordHostEvent(event, outcome string) {
	hostEvents.WithLabelValues(event, outcome).Inc()
}

// Metrics contains process level Prometheus metrics for worldgate.
type Metrics struct {
	Enabled       prometheus.Gauge
	ConfigSaves   *prometheus.CounterVec
	commandOutput *prometheus.CounterVec
}

// NewMetrics creates and registers worldgate process metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Enabled: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "worldgate_plugin_enabled",
				Help: "1 while the plugin is enabled",
			},
		),
		ConfigSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worldgate_config_saves_total",
				Help: "Total number of config saves by status",
			},
			[]string{"status"},
		),
		commandOutput: commandOutputFailures,
	}

	reg.MustRegister(m.Enabled)
	reg.MustRegister(m.ConfigSaves)
	reg.MustRegister(m.commandOutput)
	reg.MustRegister(hostEvents)

	return m
}

// Server provides HTTP endpoints for observability (metrics and health probes).
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	registry   *prometheus.Registry
	metrics    *Metrics
	isReady    ReadinessChecker
	status     atomic.Pointer[StatusFunc]
	running    atomic.Bool
}

// NewServer creates a new observability server.
// addr: listen address in "host:port" format (e.g., "127.0.0.1:9100", ":9100" for all interfaces).
// Each registrar is called once with the server registry.
func NewServer(addr string, readinessChecker ReadinessChecker, registrars ...Registrar) *Server {
	// Create a new registry to avoid polluting the global one
	registry := prometheus.NewRegistry()

	// Register standard Go metrics
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Register custom metrics
	metrics := NewMetrics(registry)
	for _, register := range registrars {
		register(registry)
	}

	s := &Server{
		addr:     addr,
		registry: registry,
		metrics:  metrics,
		isReady:  readinessChecker,
	}

	return s
}

// Metrics returns the process metrics for recording plugin state.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// SetStatus installs the snapshot served at /status. Without one the
// endpoint answers 404.
func (s *Server) SetStatus(fn StatusFunc) {
	if fn == nil {
		s.status.Store(nil)
		return
	}
	s.status.Store(&fn)
}

// Start begins serving observability endpoints.
// It returns an error channel that will receive any errors from the HTTP server
// after it starts. The channel is closed when the server stops gracefully.
// Callers should monitor this channel to detect server failures.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Code("ALREADY_RUNNING").Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.Code("LISTEN_FAILED").With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	mux := http.NewServeMux()

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	// Kubernetes-style health probes
	mux.HandleFunc("/healthz/liveness", s.handleLiveness)
	mux.HandleFunc("/healthz/readiness", s.handleReadiness)
	mux.HandleFunc("/status", s.handleStatus)

	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	// Create buffered error channel so the goroutine doesn't block
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		// Use local httpSrv to avoid race with subsequent Start() calls
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("observability server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("observability server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the observability server.
func (s *Server) Stop(ctx context.Context) error {
	// Use CompareAndSwap to atomically transition from running to stopped.
	// This prevents a race where a concurrent Start() could succeed between
	// checking the running state and setting it to false.
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			// Restore running state on failure so the server can be stopped again
			s.running.Store(true)
			return oops.Code("SHUTDOWN_FAILED").Wrap(err)
		}
	}

	slog.Info("observability server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// handleLiveness returns 200 if the process is running.
// This is a simple check that the process is alive.
func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // health check write error is acceptable, client may disconnect
	w.Write([]byte("ok\n"))
}

// handleReadiness returns 200 if the service is ready to accept connections,
// or 503 if not ready.
func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if s.isReady == nil || s.isReady() {
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck // health check write error is acceptable, client may disconnect
		w.Write([]byte("ok\n"))
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	//nolint:errcheck // health check write error is acceptable, client may disconnect
	w.Write([]byte("not ready\n"))
}

// handleStatus writes the installed status snapshot as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	fn := s.status.Load()
	if fn == nil {
		http.NotFound(w, r)
		return
	}

	data, err := json.Marshal((*fn)())
	if err != nil {
		slog.Error("failed to encode status", "error", err)
		http.Error(w, "status unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // client may disconnect
	w.Write(data)
}
