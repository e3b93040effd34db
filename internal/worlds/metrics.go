// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package worlds

import "github.com/prometheus/client_golang/prometheus"

// Operation names used as the "operation" metric label and event type.
const (
	OpCreate          = "create"
	OpLoad            = "load"
	OpUnload          = "unload"
	OpClone           = "clone"
	OpRemove          = "remove"
	OpImport          = "import"
	OpLink            = "link"
	OpTeleport        = "teleport"
	OpSetSpawn        = "set_spawn"
	OpResetSpawn      = "reset_spawn"
	OpAddForceLoad    = "force_load_add"
	OpRemoveForceLoad = "force_load_remove"
)

// WorldOperations counts registry operations by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var WorldOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worldgate_world_operations_total",
		Help: "Total number of world registry operations",
	},
	[]string{"operation", "result"},
)

// RegisteredWorlds reports the number of registered worlds.
// Use RegisterMetrics to register this with a Prometheus registry.
var RegisteredWorlds = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "worldgate_registered_worlds",
		Help: "Number of worlds currently registered",
	},
)

// RegisterMetrics registers worlds package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(WorldOperations)
	reg.MustRegister(RegisteredWorlds)
}

// RecordOperation increments the operation counter.
// Parameters:
//   - operation: one of the Op* constants
//   - result: the operation's result value
func RecordOperation(operation, result string) {
	WorldOperations.WithLabelValues(operation, result).Inc()
}
