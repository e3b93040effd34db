// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package worlds

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/worldgate/pkg/errutil"
)

// Registry performs world lifecycle operations against the host engine and
// records their effect in State. Every entry point sanitizes its names.
//
// Expected failures are reported through the result enums; engine and
// filesystem errors are logged and collapsed into the matching result.
type Registry struct {
	engine Engine
	state  *State
	logger *slog.Logger
	now    func() time.Time
	subs   subscribers
}

// RegistryOption configures a Registry during construction.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for operation logs. Defaults to slog.Default.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a registry bound to engine and state.
// Returns an error if either is nil.
func NewRegistry(engine Engine, state *State, opts ...RegistryOption) (*Registry, error) {
	if engine == nil {
		return nil, oops.Code("NIL_ENGINE").Errorf("world engine is required")
	}
	if state == nil {
		return nil, oops.Code("NIL_STATE").Errorf("state is required")
	}
	r := &Registry{
		engine: engine,
		state:  state,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	RegisteredWorlds.Set(float64(state.Len()))
	return r, nil
}

// State returns the state the registry mutates.
func (r *Registry) State() *State {
	return r.state
}

// Engine returns the host engine the registry drives.
func (r *Registry) Engine() Engine {
	return r.engine
}

// Subscribe registers h for every completed operation and returns a
// function that removes it.
func (r *Registry) Subscribe(h EventHandler) func() {
	return r.subs.add(h)
}

func (r *Registry) record(op, id, result, detail string) {
	RecordOperation(op, result)
	RegisteredWorlds.Set(float64(r.state.Len()))
	r.subs.publish(Event{
		ID:        ulid.Make(),
		Operation: op,
		World:     id,
		Result:    result,
		Detail:    detail,
		Time:      r.now(),
	})
}

func (r *Registry) dir(id string) string {
	return filepath.Join(r.engine.Container(), id)
}

// CreateOption adjusts the parameters of CreateWorld.
type CreateOption func(*Spec)

// WithSeed fixes the generation seed.
func WithSeed(seed int64) CreateOption {
	return func(s *Spec) {
		s.Seed = &seed
	}
}

// WithEnvironment fixes the generation environment.
func WithEnvironment(env Environment) CreateOption {
	return func(s *Spec) {
		s.Environment = &env
	}
}

// CreateWorld creates, loads and registers a new world. Seed and
// environment default to the engine's choice unless set by opts.
func (r *Registry) CreateWorld(ctx context.Context, name string, opts ...CreateOption) CreateResult {
	id := Sanitize(name)
	result := r.createWorld(ctx, id, name, opts)
	r.record(OpCreate, id, result.String(), "")
	return result
}

func (r *Registry) createWorld(ctx context.Context, id, name string, opts []CreateOption) CreateResult {
	// A registered world always owns its directory, so registration is
	// checked first and FILE_EXISTS is left for foreign data.
	if r.state.Has(id) {
		return CreateWorldExists
	}
	if pathExists(r.dir(id)) {
		return CreateFileExists
	}

	spec := Spec{Name: id}
	for _, opt := range opts {
		opt(&spec)
	}

	r.logger.InfoContext(ctx, "creating world", "world", id)
	w, err := r.engine.CreateOrLoad(ctx, spec)
	if err != nil {
		errutil.LogError(r.logger, "world creation failed", oops.With("world", id).Wrap(err))
		return CreateCreationError
	}

	r.state.Put(newConfig(id, name, w.Environment(), w.Seed()))
	r.logger.InfoContext(ctx, "world created", "world", id, "environment", w.Environment(), "seed", w.Seed())
	return CreateSuccess
}

// LoadWorld loads a registered world with its recorded seed and environment.
// A directory on disk alone does not make a world loadable.
func (r *Registry) LoadWorld(ctx context.Context, name string) LoadResult {
	id := Sanitize(name)
	result := r.loadWorld(ctx, id)
	r.record(OpLoad, id, result.String(), "")
	return result
}

func (r *Registry) loadWorld(ctx context.Context, id string) LoadResult {
	cfg, ok := r.state.Config(id)
	if !ok {
		return LoadNonexistentWorld
	}

	r.logger.InfoContext(ctx, "loading world", "world", id)
	seed, env := cfg.Seed, cfg.Environment
	if _, err := r.engine.CreateOrLoad(ctx, Spec{Name: id, Seed: &seed, Environment: &env}); err != nil {
		errutil.LogError(r.logger, "world load failed", oops.With("world", id).Wrap(err))
		return LoadError
	}
	r.logger.InfoContext(ctx, "world loaded", "world", id)
	return LoadSuccess
}

// UnloadWorld saves and unloads a world. It returns the engine's answer
// unchanged and never touches the registry.
func (r *Registry) UnloadWorld(ctx context.Context, name string) bool {
	id := Sanitize(name)
	r.logger.InfoContext(ctx, "unloading world", "world", id)
	ok := r.engine.Unload(ctx, id, true)
	if ok {
		r.logger.InfoContext(ctx, "world unloaded", "world", id)
	}
	result := "SUCCESS"
	if !ok {
		result = "FAILED"
	}
	r.record(OpUnload, id, result, "")
	return ok
}

// CloneWorld copies the directory of a loaded, registered world under a new
// identifier, registers the copy with the source's configuration and loads it.
func (r *Registry) CloneWorld(ctx context.Context, source, dest string) CloneResult {
	srcID, dstID := Sanitize(source), Sanitize(dest)
	result := r.cloneWorld(ctx, srcID, dstID, dest)
	r.record(OpClone, dstID, result.String(), srcID)
	if result == CloneSuccess {
		if loaded := r.LoadWorld(ctx, dstID); loaded != LoadSuccess {
			r.logger.WarnContext(ctx, "cloned world could not be loaded",
				"world", dstID, "source", srcID, "result", loaded)
		}
		r.logger.InfoContext(ctx, "cloning finished", "world", dstID, "source", srcID)
	}
	return result
}

func (r *Registry) cloneWorld(ctx context.Context, srcID, dstID, dest string) CloneResult {
	dstDir := r.dir(dstID)
	if pathExists(dstDir) {
		return CloneDirectoryExists
	}
	cfg, ok := r.state.Config(srcID)
	if !ok {
		return CloneNonexistentWorld
	}
	if r.state.Has(dstID) {
		return CloneWorldExists
	}
	src, ok := r.engine.Lookup(srcID)
	if !ok {
		return CloneNonexistentWorld
	}

	r.logger.InfoContext(ctx, "cloning world", "source", srcID, "world", dstID)
	if err := src.Save(); err != nil {
		errutil.LogError(r.logger, "flushing clone source failed", oops.With("world", srcID).Wrap(err))
		return CloneCopyError
	}

	if err := copyDir(ctx, src.Dir(), dstDir); err != nil {
		if errors.Is(err, errDestinationExists) {
			return CloneDirectoryExists
		}
		errutil.LogError(r.logger, "copying world directory failed", err)
		if rmErr := os.RemoveAll(dstDir); rmErr != nil {
			r.logger.WarnContext(ctx, "removing partial copy failed", "dir", dstDir, "error", rmErr)
		}
		return CloneCopyError
	}
	if err := removeUID(dstDir); err != nil {
		errutil.LogError(r.logger, "removing copied identity marker failed", err)
	}

	cfg.ID = dstID
	cfg.DisplayName = dest
	r.state.Put(cfg)
	return CloneSuccess
}

// RemoveWorld unloads a registered world without saving, deletes its
// directory and drops it from the registry. A global spawn inside the
// removed world falls back to the default world.
func (r *Registry) RemoveWorld(ctx context.Context, name string) RemoveResult {
	id := Sanitize(name)
	result := r.removeWorld(ctx, id)
	r.record(OpRemove, id, result.String(), "")
	return result
}

func (r *Registry) removeWorld(ctx context.Context, id string) RemoveResult {
	if !r.state.Has(id) {
		return RemoveNonexistentWorld
	}

	r.logger.InfoContext(ctx, "removing world", "world", id)
	if _, loaded := r.engine.Lookup(id); loaded {
		if !r.engine.Unload(ctx, id, false) {
			r.logger.WarnContext(ctx, "world refused to unload", "world", id)
			return RemoveFileRemovalError
		}
	}

	if err := os.RemoveAll(r.dir(id)); err != nil {
		errutil.LogError(r.logger, "removing world directory failed",
			oops.Code("REMOVE_FAILED").With("world", id).Wrap(err))
		return RemoveFileRemovalError
	}

	r.state.Delete(id)
	if r.state.Spawn().World == id {
		r.state.SetSpawn(r.defaultSpawn())
		r.logger.InfoContext(ctx, "global spawn reset to default world", "removed", id)
	}
	r.logger.InfoContext(ctx, "world removed", "world", id)
	return RemoveSuccess
}

func (r *Registry) defaultSpawn() Location {
	if w, ok := r.engine.Lookup(DefaultWorld); ok {
		return w.SpawnLocation()
	}
	return Location{World: DefaultWorld}
}

// ImportWorld registers a world directory that exists in the container but
// is not yet managed. Seed and environment are taken from the loaded world.
func (r *Registry) ImportWorld(ctx context.Context, name string) ImportResult {
	id := Sanitize(name)
	result := r.importWorld(ctx, id, name)
	r.record(OpImport, id, result.String(), "")
	return result
}

func (r *Registry) importWorld(ctx context.Context, id, name string) ImportResult {
	r.logger.InfoContext(ctx, "importing world", "world", id)
	if r.state.Has(id) {
		return ImportAlreadyImported
	}

	dir := r.dir(id)
	info, err := os.Stat(dir)
	switch {
	case err != nil:
		return ImportNonexistentFolder
	case !info.IsDir():
		return ImportIsFile
	}

	if err := removeUID(dir); err != nil {
		errutil.LogError(r.logger, "removing identity marker failed", err)
	}

	w, err := r.engine.CreateOrLoad(ctx, Spec{Name: id})
	if err != nil {
		errutil.LogError(r.logger, "world import failed", oops.With("world", id).Wrap(err))
		return ImportImportingError
	}

	r.state.Put(newConfig(id, name, w.Environment(), w.Seed()))
	r.logger.InfoContext(ctx, "world imported", "world", id, "environment", w.Environment())
	return ImportSuccess
}

// LinkWorlds points one portal kind of source at dest.
func (r *Registry) LinkWorlds(ctx context.Context, source, dest string, portal PortalType) LinkResult {
	srcID, dstID := Sanitize(source), Sanitize(dest)
	result := LinkSuccess
	switch {
	case !r.state.Has(srcID):
		result = LinkNonexistentSource
	case !r.state.Has(dstID):
		result = LinkNonexistentDestination
	default:
		r.state.SetPortalTarget(srcID, portal, dstID)
		r.logger.InfoContext(ctx, "worlds linked", "source", srcID, "destination", dstID, "portal", portal)
	}
	r.record(OpLink, srcID, result.String(), portal.String()+":"+dstID)
	return result
}

// TeleportPlayerIntoWorld moves actor to the spawn of a registered, loaded world.
func (r *Registry) TeleportPlayerIntoWorld(ctx context.Context, actor Actor, name string) TeleportResult {
	id := Sanitize(name)
	result := TeleportSuccess
	if !r.state.Has(id) {
		result = TeleportNonexistentWorld
	} else if w, ok := r.engine.Lookup(id); !ok {
		result = TeleportUnloadedWorld
	} else if !actor.Teleport(w.SpawnLocation()) {
		r.logger.WarnContext(ctx, "host rejected teleport", "actor", actor.Name(), "world", id)
	}
	r.record(OpTeleport, id, result.String(), actor.Name())
	return result
}

type spawnPose struct {
	position   bool
	x, y, z    float64
	rotation   bool
	yaw, pitch float32
}

// SpawnOption refines the pose chosen by SetServerSpawn.
type SpawnOption func(*spawnPose)

// AtPosition places the spawn at explicit coordinates instead of the
// world's natural spawn.
func AtPosition(x, y, z float64) SpawnOption {
	return func(p *spawnPose) {
		p.position = true
		p.x, p.y, p.z = x, y, z
	}
}

// WithRotation sets the facing of the spawn.
func WithRotation(yaw, pitch float32) SpawnOption {
	return func(p *spawnPose) {
		p.rotation = true
		p.yaw, p.pitch = yaw, pitch
	}
}

// SetServerSpawn moves the global spawn into a registered, loaded world.
// Without options the world's natural spawn is used; an explicit position
// without rotation faces yaw 0, pitch 0.
func (r *Registry) SetServerSpawn(ctx context.Context, name string, opts ...SpawnOption) SpawnResult {
	id := Sanitize(name)
	result := r.setServerSpawn(ctx, id, opts)
	r.record(OpSetSpawn, id, result.String(), "")
	return result
}

func (r *Registry) setServerSpawn(ctx context.Context, id string, opts []SpawnOption) SpawnResult {
	if !r.state.Has(id) {
		return SpawnNonexistentWorld
	}
	w, ok := r.engine.Lookup(id)
	if !ok {
		return SpawnUnloadedWorld
	}

	var pose spawnPose
	for _, opt := range opts {
		opt(&pose)
	}

	loc := w.SpawnLocation()
	loc.World = id
	if pose.position {
		loc = Location{World: id, X: pose.x, Y: pose.y, Z: pose.z}
	}
	if pose.rotation {
		loc.Yaw, loc.Pitch = pose.yaw, pose.pitch
	}
	r.state.SetSpawn(loc)
	r.logger.InfoContext(ctx, "global spawn set", "world", id, "x", loc.X, "y", loc.Y, "z", loc.Z)
	return SpawnSuccess
}

// ResetServerSpawn moves the global spawn back to the default world's
// natural spawn.
func (r *Registry) ResetServerSpawn(ctx context.Context) SpawnResult {
	result := SpawnSuccess
	if w, ok := r.engine.Lookup(DefaultWorld); ok {
		r.state.SetSpawn(w.SpawnLocation())
		r.logger.InfoContext(ctx, "global spawn reset", "world", DefaultWorld)
	} else {
		result = SpawnUnloadedWorld
	}
	r.record(OpResetSpawn, DefaultWorld, result.String(), "")
	return result
}

// CheckWorldExists reports whether name is registered.
func (r *Registry) CheckWorldExists(name string) bool {
	return r.state.Has(Sanitize(name))
}

// CheckWorldLoaded reports whether the engine currently has name loaded.
// Registration is not required.
func (r *Registry) CheckWorldLoaded(name string) bool {
	_, ok := r.engine.Lookup(Sanitize(name))
	return ok
}

// AddForceLoad schedules a registered world to be loaded at every enable.
func (r *Registry) AddForceLoad(ctx context.Context, name string) ForceLoadResult {
	id := Sanitize(name)
	result := ForceLoadSuccess
	switch {
	case !r.state.Has(id):
		result = ForceLoadNonexistentWorld
	case !r.state.AddForceLoad(id):
		result = ForceLoadAlreadyListed
	default:
		r.logger.InfoContext(ctx, "world added to force-load", "world", id)
	}
	r.record(OpAddForceLoad, id, result.String(), "")
	return result
}

// RemoveForceLoad stops loading a world at enable.
func (r *Registry) RemoveForceLoad(ctx context.Context, name string) ForceLoadResult {
	id := Sanitize(name)
	result := ForceLoadSuccess
	if !r.state.RemoveForceLoad(id) {
		result = ForceLoadNotListed
	} else {
		r.logger.InfoContext(ctx, "world removed from force-load", "world", id)
	}
	r.record(OpRemoveForceLoad, id, result.String(), "")
	return result
}

// Worlds returns every registered configuration in registration order.
func (r *Registry) Worlds() []WorldConfig {
	return r.state.Configs()
}

// World returns the configuration registered under name.
func (r *Registry) World(name string) (WorldConfig, bool) {
	return r.state.Config(Sanitize(name))
}
