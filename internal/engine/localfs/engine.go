// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package localfs is a directory-backed world engine. Each world is a
// directory under the container holding level.dat and uid.dat; terrain is
// a flat surface whose height depends on the environment.
//
// It is the engine used by the standalone console host and by integration
// tests. Game servers embedding the plugin supply their own worlds.Engine.
package localfs

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/holomush/worldgate/internal/worlds"
)

// Surface heights of the flat terrain per environment.
var surfaceHeight = map[worlds.Environment]int{
	worlds.EnvironmentNormal: 63,
	worlds.EnvironmentNether: 31,
	worlds.EnvironmentTheEnd: 48,
}

// Engine implements worlds.Engine on the local filesystem.
// It is safe for concurrent use.
type Engine struct {
	container string
	logger    *slog.Logger
	seeds     func() int64
	now       func() time.Time

	mu     sync.Mutex
	loaded map[string]*World
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithSeedSource sets the generator for seeds of worlds created without one.
func WithSeedSource(next func() int64) Option {
	return func(e *Engine) {
		e.seeds = next
	}
}

// WithClock overrides the time source stamped into level files.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine rooted at container, creating the directory if
// needed.
func New(container string, opts ...Option) (*Engine, error) {
	if err := os.MkdirAll(container, 0o750); err != nil {
		return nil, oops.Code("CONTAINER_CREATE_FAILED").With("container", container).Wrap(err)
	}
	e := &Engine{
		container: container,
		logger:    slog.Default(),
		seeds:     rand.Int64,
		now:       time.Now,
		loaded:    make(map[string]*World),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Container implements worlds.Engine.
func (e *Engine) Container() string {
	return e.container
}

// CreateOrLoad implements worlds.Engine. An existing level.dat wins over
// the requested seed and environment.
func (e *Engine) CreateOrLoad(ctx context.Context, spec worlds.Spec) (worlds.World, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.Code("ENGINE_CANCELLED").Wrap(err)
	}
	if spec.Name == "" {
		return nil, oops.Code("INVALID_WORLD_NAME").Errorf("world name is empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if w, ok := e.loaded[spec.Name]; ok {
		return w, nil
	}

	dir := filepath.Join(e.container, spec.Name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, oops.Code("WORLD_CREATE_FAILED").With("world", spec.Name).Wrap(err)
	}

	lv, err := readLevel(dir)
	switch {
	case err == nil:
		e.logger.DebugContext(ctx, "level loaded", "world", spec.Name)
	case errors.Is(err, fs.ErrNotExist):
		lv = e.newLevel(spec)
		if err := writeLevel(dir, lv); err != nil {
			return nil, err
		}
		e.logger.InfoContext(ctx, "level generated", "world", spec.Name,
			"environment", lv.Data.Environment, "seed", lv.Data.WorldGenSettings.Seed)
	default:
		return nil, err
	}

	if err := ensureUID(dir); err != nil {
		return nil, err
	}

	w := &World{
		engine: e,
		name:   spec.Name,
		dir:    dir,
		level:  lv,
	}
	e.loaded[spec.Name] = w
	return w, nil
}

func (e *Engine) newLevel(spec worlds.Spec) level {
	env := worlds.EnvironmentNormal
	if spec.Environment != nil && spec.Environment.Valid() {
		env = *spec.Environment
	}
	var seed int64
	if spec.Seed != nil {
		seed = *spec.Seed
	} else {
		seed = e.seeds()
	}
	return level{Data: levelData{
		LevelName:   spec.Name,
		DataVersion: dataVersion,
		LastPlayed:  e.now().UnixMilli(),
		SpawnX:      0,
		SpawnY:      int32(surfaceHeight[env] + 1),
		SpawnZ:      0,
		Initialized: true,
		WorldGenSettings: worldGenSettings{
			Seed:             seed,
			GenerateFeatures: true,
		},
		Environment: env.String(),
	}}
}

// ensureUID writes a fresh identity marker unless one exists.
func ensureUID(dir string) error {
	path := filepath.Join(dir, worlds.UIDFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	id := uuid.New()
	if err := os.WriteFile(path, id[:], 0o600); err != nil {
		return oops.Code("UID_WRITE_FAILED").With("path", path).Wrap(err)
	}
	return nil
}

// Unload implements worlds.Engine.
func (e *Engine) Unload(ctx context.Context, name string, save bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, ok := e.loaded[name]
	if !ok {
		return false
	}
	if save {
		if err := w.save(); err != nil {
			e.logger.WarnContext(ctx, "saving world before unload failed", "world", name, "error", err)
			return false
		}
	}
	delete(e.loaded, name)
	return true
}

// Lookup implements worlds.Engine.
func (e *Engine) Lookup(name string) (worlds.World, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.loaded[name]
	if !ok {
		return nil, false
	}
	return w, true
}

// Loaded returns the identifiers of all loaded worlds.
func (e *Engine) Loaded() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.loaded))
	for name := range e.loaded {
		names = append(names, name)
	}
	return names
}

// Close saves and unloads every world.
func (e *Engine) Close(ctx context.Context) error {
	var errs []error
	for _, name := range e.Loaded() {
		if !e.Unload(ctx, name, true) {
			errs = append(errs, oops.Code("UNLOAD_FAILED").With("world", name).Errorf("world %q did not unload", name))
		}
	}
	return errors.Join(errs...)
}

// UUID reads the identity marker of the world directory.
func UUID(dir string) (uuid.UUID, error) {
	data, err := os.ReadFile(filepath.Join(dir, worlds.UIDFile)) //nolint:gosec // path is inside the world container
	if err != nil {
		return uuid.Nil, oops.Code("UID_READ_FAILED").With("dir", dir).Wrap(err)
	}
	id, err := uuid.FromBytes(data)
	if err != nil {
		return uuid.Nil, oops.Code("UID_READ_FAILED").With("dir", dir).Wrap(err)
	}
	return id, nil
}

// World is a loaded localfs world.
type World struct {
	engine *Engine
	name   string
	dir    string

	mu    sync.Mutex
	level level
}

// Name implements worlds.World.
func (w *World) Name() string { return w.name }

// Dir implements worlds.World.
func (w *World) Dir() string { return w.dir }

// Environment implements worlds.World.
func (w *World) Environment() worlds.Environment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return worlds.EnvironmentOrNormal(w.level.Data.Environment)
}

// Seed implements worlds.World.
func (w *World) Seed() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.level.Data.WorldGenSettings.Seed
}

// SpawnLocation implements worlds.World. The spawn sits at the centre of
// its block.
func (w *World) SpawnLocation() worlds.Location {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := w.level.Data
	return worlds.Location{
		World: w.name,
		X:     float64(d.SpawnX) + 0.5,
		Y:     float64(d.SpawnY),
		Z:     float64(d.SpawnZ) + 0.5,
		Yaw:   d.SpawnAngle,
	}
}

// HighestBlockYAt implements worlds.World.
func (w *World) HighestBlockYAt(_, _ int) int {
	return surfaceHeight[w.Environment()]
}

// Save implements worlds.World.
func (w *World) Save() error {
	return w.save()
}

func (w *World) save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.level.Data.LastPlayed = w.engine.now().UnixMilli()
	return writeLevel(w.dir, w.level)
}
