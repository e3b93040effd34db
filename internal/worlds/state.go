// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package worlds

import (
	"slices"
	"sync"
)

// State holds everything the plugin remembers between restarts: the world
// configurations in registration order, the force-load list, the global
// spawn and the feature toggles. One State exists per enabled plugin.
//
// Mutations are expected from the host's main thread only; the lock lets
// metric scrapes and status queries read from other goroutines.
type State struct {
	mu            sync.RWMutex
	configs       map[string]WorldConfig
	names         []string
	forceLoad     []string
	spawn         Location
	portalLinking bool
	spawnOverride bool
}

// NewState creates an empty state with both toggles enabled.
func NewState() *State {
	return &State{
		configs:       make(map[string]WorldConfig),
		portalLinking: true,
		spawnOverride: true,
	}
}

// Config returns the configuration registered under id.
func (s *State) Config(id string) (WorldConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[id]
	return cfg, ok
}

// Has reports whether id is registered.
func (s *State) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.configs[id]
	return ok
}

// Len returns the number of registered worlds.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.configs)
}

// Put records cfg, appending its ID to the ordered name list when new.
func (s *State) Put(cfg WorldConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.configs[cfg.ID]; !ok && !slices.Contains(s.names, cfg.ID) {
		s.names = append(s.names, cfg.ID)
	}
	s.configs[cfg.ID] = cfg
}

// SetPortalTarget rewrites one portal link of a registered world.
func (s *State) SetPortalTarget(id string, p PortalType, target string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.configs[id]
	if !ok {
		return false
	}
	switch p {
	case PortalNether:
		cfg.PortalNether = target
	case PortalEnd:
		cfg.PortalEnd = target
	}
	s.configs[id] = cfg
	return true
}

// Delete drops id from the configs, the name list and the force-load list.
func (s *State) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.configs, id)
	s.names = slices.DeleteFunc(s.names, func(n string) bool { return n == id })
	s.forceLoad = slices.DeleteFunc(s.forceLoad, func(n string) bool { return n == id })
}

// Names returns the registered identifiers in registration order.
func (s *State) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.names)
}

// Configs returns all registered configurations in registration order.
func (s *State) Configs() []WorldConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]WorldConfig, 0, len(s.names))
	for _, id := range s.names {
		if cfg, ok := s.configs[id]; ok {
			out = append(out, cfg)
		}
	}
	return out
}

// ForceLoad returns the identifiers loaded eagerly at startup.
func (s *State) ForceLoad() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.forceLoad)
}

// SetForceLoad replaces the force-load list, keeping the first occurrence
// of each id.
func (s *State) SetForceLoad(ids []string) {
	seen := make(map[string]struct{}, len(ids))
	list := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		list = append(list, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceLoad = list
}

// AddForceLoad appends id unless it is already listed.
func (s *State) AddForceLoad(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.forceLoad, id) {
		return false
	}
	s.forceLoad = append(s.forceLoad, id)
	return true
}

// RemoveForceLoad removes id and reports whether it was listed.
func (s *State) RemoveForceLoad(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.Index(s.forceLoad, id)
	if idx < 0 {
		return false
	}
	s.forceLoad = slices.Delete(s.forceLoad, idx, idx+1)
	return true
}

// Spawn returns the global spawn.
func (s *State) Spawn() Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spawn
}

// SetSpawn replaces the global spawn.
func (s *State) SetSpawn(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spawn = loc
}

// PortalLinking reports whether portal redirection is enabled.
func (s *State) PortalLinking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.portalLinking
}

// SetPortalLinking toggles portal redirection. Takes effect on next enable.
func (s *State) SetPortalLinking(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portalLinking = enabled
}

// SpawnOverride reports whether joining actors are sent to the global spawn.
func (s *State) SpawnOverride() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spawnOverride
}

// SetSpawnOverride toggles the join spawn override. Takes effect on next enable.
func (s *State) SetSpawnOverride(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spawnOverride = enabled
}
