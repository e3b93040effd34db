// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/worldgate/internal/worlds"
	"github.com/holomush/worldgate/pkg/errutil"
)

// Loader loads registered worlds.
type Loader interface {
	LoadWorld(ctx context.Context, name string) worlds.LoadResult
}

// Sync moves plugin state between a Store and a worlds.State: Load at
// enable, Save at disable.
type Sync struct {
	store  *Store
	state  *worlds.State
	engine worlds.Engine
	loader Loader
	logger *slog.Logger
}

// NewSync creates a Sync. The engine answers loaded-world lookups and the
// loader loads force-loaded and spawn worlds.
func NewSync(store *Store, state *worlds.State, engine worlds.Engine, loader Loader, logger *slog.Logger) *Sync {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sync{store: store, state: state, engine: engine, loader: loader, logger: logger}
}

// Load populates State from the store. Schema violations are logged and
// do not stop the load.
func (s *Sync) Load(ctx context.Context) error {
	migrated, err := Migrate(s.store)
	if err != nil {
		return oops.Code("CONFIG_MIGRATE_FAILED").With("path", s.store.Path()).Wrap(err)
	}
	if migrated {
		s.logger.InfoContext(ctx, "config migrated", "version", CurrentVersion)
	}
	if err := Validate(s.store.Raw()); err != nil {
		s.logger.WarnContext(ctx, "config does not match schema", "path", s.store.Path(), "error", err)
	}

	for _, id := range s.store.Strings(KeyWorldNames) {
		s.state.Put(s.readWorld(id))
	}

	forced := s.store.Strings(KeyForceLoad)
	s.state.SetForceLoad(forced)
	for _, id := range forced {
		if _, ok := s.engine.Lookup(id); ok {
			s.logger.InfoContext(ctx, "world already loaded", "world", id)
			continue
		}
		if res := s.loader.LoadWorld(ctx, id); res != worlds.LoadSuccess {
			s.logger.WarnContext(ctx, "force-load failed", "world", id, "result", res)
		}
	}

	s.state.SetPortalLinking(s.store.Bool(KeyPortalLinking))
	s.state.SetSpawnOverride(s.store.Bool(KeySpawnOverride))
	s.state.SetSpawn(s.readSpawn(ctx))
	return nil
}

func (s *Sync) readWorld(id string) worlds.WorldConfig {
	cfg := worlds.WorldConfig{
		ID:           id,
		DisplayName:  s.store.String(worldKey(id, "name")),
		Environment:  worlds.EnvironmentOrNormal(s.store.String(worldKey(id, "type"))),
		Seed:         s.store.Int64(worldKey(id, "seed")),
		PortalNether: s.store.String(worldKey(id, "portal-nether")),
		PortalEnd:    s.store.String(worldKey(id, "portal-end")),
	}
	if cfg.DisplayName == "" {
		cfg.DisplayName = id
	}
	if cfg.PortalNether == "" {
		cfg.PortalNether = worlds.DefaultNetherWorld
	}
	if cfg.PortalEnd == "" {
		cfg.PortalEnd = worlds.DefaultEndWorld
	}
	return cfg
}

// readSpawn resolves the persisted spawn. An explicit pose needs at least
// five numbers; anything else means the world's natural spawn. A spawn
// world that cannot be loaded falls back to the default world.
func (s *Sync) readSpawn(ctx context.Context) worlds.Location {
	name := s.store.String(KeySpawnWorld)
	if name == "" {
		name = worlds.DefaultWorld
	}

	w, ok := s.engine.Lookup(name)
	if !ok {
		s.loader.LoadWorld(ctx, name)
		w, ok = s.engine.Lookup(name)
	}
	if !ok {
		s.logger.WarnContext(ctx, "spawn world unavailable, using default world", "world", name)
		def, ok := s.engine.Lookup(worlds.DefaultWorld)
		if !ok {
			return worlds.Location{World: worlds.DefaultWorld}
		}
		return def.SpawnLocation()
	}

	if xyz, isList := s.store.Float64s(KeySpawnXYZ); isList && len(xyz) >= 5 {
		return worlds.Location{
			World: name,
			X:     xyz[0],
			Y:     xyz[1],
			Z:     xyz[2],
			Yaw:   float32(xyz[3]),
			Pitch: float32(xyz[4]),
		}
	} else if s.store.IsList(KeySpawnXYZ) {
		s.logger.WarnContext(ctx, "malformed spawn pose, using world spawn", "world", name)
	}
	return w.SpawnLocation()
}

// Save writes State back to the store and flushes the file. Entries for
// worlds no longer registered are dropped.
func (s *Sync) Save(ctx context.Context) error {
	ids := s.state.Names()
	for _, cfg := range s.state.Configs() {
		fields := []struct {
			field string
			value any
		}{
			{"name", cfg.DisplayName},
			{"type", cfg.Environment.String()},
			{"seed", cfg.Seed},
			{"portal-nether", cfg.PortalNether},
			{"portal-end", cfg.PortalEnd},
		}
		for _, f := range fields {
			if err := s.store.Set(worldKey(cfg.ID, f.field), f.value); err != nil {
				return err
			}
		}
	}
	for _, key := range s.store.MapKeys(KeyWorlds) {
		if !s.state.Has(key) {
			s.store.Delete(KeyWorlds + "." + key)
		}
	}

	spawn := s.state.Spawn()
	var xyz any = spawnDefault
	spawnWorld := spawn.World
	if spawnWorld == "" {
		spawnWorld = worlds.DefaultWorld
	} else {
		xyz = []float64{spawn.X, spawn.Y, spawn.Z, float64(spawn.Yaw), float64(spawn.Pitch)}
	}

	updates := []struct {
		key   string
		value any
	}{
		{KeyWorldNames, ids},
		{KeyForceLoad, s.state.ForceLoad()},
		{KeyPortalLinking, s.state.PortalLinking()},
		{KeySpawnOverride, s.state.SpawnOverride()},
		{KeySpawnWorld, spawnWorld},
		{KeySpawnXYZ, xyz},
		{KeyVersion, CurrentVersion},
	}
	for _, u := range updates {
		if err := s.store.Set(u.key, u.value); err != nil {
			return err
		}
	}

	if err := s.store.Save(); err != nil {
		errutil.LogError(s.logger, "saving config failed", err)
		return err
	}
	s.logger.InfoContext(ctx, "config saved", "path", s.store.Path(), "worlds", len(ids))
	return nil
}
