// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package portal

import "github.com/prometheus/client_golang/prometheus"

// Resolutions counts portal resolutions by cause and status.
// Use RegisterMetrics to register this with a Prometheus registry.
var Resolutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worldgate_portal_resolutions_total",
		Help: "Total number of portal link resolutions",
	},
	[]string{"cause", "status"},
)

// RegisterMetrics registers portal metrics with the given Prometheus registry.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Resolutions)
}

// RecordResolution increments the resolution counter.
func RecordResolution(cause, status string) {
	Resolutions.WithLabelValues(cause, status).Inc()
}
