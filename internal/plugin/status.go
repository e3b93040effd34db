// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"slices"

	"github.com/holomush/worldgate/internal/worlds"
)

// WorldStatus is one registered world as reported by Status.
type WorldStatus struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Environment  worlds.Environment `json:"environment"`
	Seed         int64              `json:"seed"`
	PortalNether string             `json:"portal_nether"`
	PortalEnd    string             `json:"portal_end"`
	Loaded       bool               `json:"loaded"`
	ForceLoad    bool               `json:"force_load"`
}

// SpawnStatus is the global spawn as reported by Status.
type SpawnStatus struct {
	World string  `json:"world"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float32 `json:"yaw"`
	Pitch float32 `json:"pitch"`
}

// Status is a point-in-time view of the plugin for operators.
type Status struct {
	Enabled       bool          `json:"enabled"`
	PortalLinking bool          `json:"portal_linking"`
	SpawnOverride bool          `json:"spawn_override"`
	Spawn         *SpawnStatus  `json:"spawn,omitempty"`
	Worlds        []WorldStatus `json:"worlds"`
}

// Status snapshots the registry. Toggles report the values in effect for
// the current enable cycle, not pending config edits.
func (p *Plugin) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	st := Status{Enabled: p.enabled, Worlds: []WorldStatus{}}
	if !p.enabled {
		return st
	}
	st.PortalLinking = p.portalLinking
	st.SpawnOverride = p.spawnOverride

	if spawn := p.state.Spawn(); !spawn.IsZero() {
		st.Spawn = &SpawnStatus{
			World: spawn.World,
			X:     spawn.X,
			Y:     spawn.Y,
			Z:     spawn.Z,
			Yaw:   spawn.Yaw,
			Pitch: spawn.Pitch,
		}
	}

	forced := p.state.ForceLoad()
	for _, cfg := range p.registry.Worlds() {
		st.Worlds = append(st.Worlds, WorldStatus{
			ID:           cfg.ID,
			Name:         cfg.DisplayName,
			Environment:  cfg.Environment,
			Seed:         cfg.Seed,
			PortalNether: cfg.PortalNether,
			PortalEnd:    cfg.PortalEnd,
			Loaded:       p.registry.CheckWorldLoaded(cfg.ID),
			ForceLoad:    slices.Contains(forced, cfg.ID),
		})
	}
	return st
}
