// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package worldstest provides in-memory implementations of the worlds host
// contracts for tests. Worlds are backed by real directories so that
// filesystem behaviour (clone, import, remove) is exercised.
package worldstest

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/worldgate/internal/worlds"
)

// DefaultSeed is the seed chosen when a spec leaves it unset.
const DefaultSeed int64 = 1337

// World is a fake loaded world.
type World struct {
	mu      sync.Mutex
	name    string
	env     worlds.Environment
	seed    int64
	dir     string
	spawn   worlds.Location
	highest int
	saves   int
	saveErr error
}

// Name implements worlds.World.
func (w *World) Name() string { return w.name }

// Environment implements worlds.World.
func (w *World) Environment() worlds.Environment { return w.env }

// Seed implements worlds.World.
func (w *World) Seed() int64 { return w.seed }

// Dir implements worlds.World.
func (w *World) Dir() string { return w.dir }

// SpawnLocation implements worlds.World.
func (w *World) SpawnLocation() worlds.Location {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spawn
}

// HighestBlockYAt implements worlds.World with a flat surface.
func (w *World) HighestBlockYAt(_, _ int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.highest
}

// Save implements worlds.World.
func (w *World) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.saveErr != nil {
		return w.saveErr
	}
	w.saves++
	return nil
}

// Saves returns how often Save succeeded.
func (w *World) Saves() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saves
}

// FailSave makes subsequent Save calls return err.
func (w *World) FailSave(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.saveErr = err
}

// SetSpawn changes the world's natural spawn.
func (w *World) SetSpawn(loc worlds.Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	loc.World = w.name
	w.spawn = loc
}

// SetHighestBlockY changes the surface height of every column.
func (w *World) SetHighestBlockY(y int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.highest = y
}

// Call records one CreateOrLoad invocation.
type Call struct {
	Name        string
	Seed        *int64
	Environment *worlds.Environment
}

// Engine is a fake worlds.Engine rooted in a container directory.
type Engine struct {
	mu        sync.Mutex
	container string
	loaded    map[string]*World
	failing   map[string]error
	sticky    map[string]bool
	calls     []Call
	unloads   []string
}

// NewEngine creates an engine whose worlds live under container.
func NewEngine(container string) *Engine {
	return &Engine{
		container: container,
		loaded:    make(map[string]*World),
		failing:   make(map[string]error),
		sticky:    make(map[string]bool),
	}
}

// Container implements worlds.Engine.
func (e *Engine) Container() string { return e.container }

// CreateOrLoad implements worlds.Engine. The world directory is created if
// missing and a uid marker is written.
func (e *Engine) CreateOrLoad(_ context.Context, spec worlds.Spec) (worlds.World, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call(spec))

	if err, ok := e.failing[spec.Name]; ok {
		return nil, err
	}
	if w, ok := e.loaded[spec.Name]; ok {
		return w, nil
	}

	dir := filepath.Join(e.container, spec.Name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, oops.With("world", spec.Name).Wrap(err)
	}
	if err := os.WriteFile(filepath.Join(dir, worlds.UIDFile), []byte(spec.Name), 0o600); err != nil {
		return nil, oops.With("world", spec.Name).Wrap(err)
	}

	w := &World{
		name:    spec.Name,
		env:     worlds.EnvironmentNormal,
		seed:    DefaultSeed,
		dir:     dir,
		spawn:   worlds.Location{World: spec.Name, X: 0.5, Y: 64, Z: 0.5},
		highest: 63,
	}
	if spec.Seed != nil {
		w.seed = *spec.Seed
	}
	if spec.Environment != nil {
		w.env = *spec.Environment
	}
	e.loaded[spec.Name] = w
	return w, nil
}

// Unload implements worlds.Engine.
func (e *Engine) Unload(_ context.Context, name string, _ bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unloads = append(e.unloads, name)
	if _, ok := e.loaded[name]; !ok || e.sticky[name] {
		return false
	}
	delete(e.loaded, name)
	return true
}

// Lookup implements worlds.Engine.
func (e *Engine) Lookup(name string) (worlds.World, bool) {
	w, ok := e.Loaded(name)
	if !ok {
		return nil, false
	}
	return w, true
}

// Loaded returns the concrete fake world when it is loaded.
func (e *Engine) Loaded(name string) (*World, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.loaded[name]
	return w, ok
}

// Fail makes CreateOrLoad return err for name.
func (e *Engine) Fail(name string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failing[name] = err
}

// RefuseUnload makes Unload return false for name.
func (e *Engine) RefuseUnload(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sticky[name] = true
}

// Calls returns every CreateOrLoad invocation in order.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// Unloads returns every name passed to Unload in order.
func (e *Engine) Unloads() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.unloads...)
}

// Actor is a fake worlds.Actor.
type Actor struct {
	mu     sync.Mutex
	name   string
	loc    worlds.Location
	refuse bool
	moves  []worlds.Location
}

// NewActor creates an actor standing at loc.
func NewActor(name string, loc worlds.Location) *Actor {
	return &Actor{name: name, loc: loc}
}

// Name implements worlds.Actor.
func (a *Actor) Name() string { return a.name }

// Location implements worlds.Actor.
func (a *Actor) Location() worlds.Location {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loc
}

// Teleport implements worlds.Actor.
func (a *Actor) Teleport(loc worlds.Location) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.refuse {
		return false
	}
	a.loc = loc
	a.moves = append(a.moves, loc)
	return true
}

// Refuse makes every later Teleport fail.
func (a *Actor) Refuse() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refuse = true
}

// Moves returns every accepted teleport destination.
func (a *Actor) Moves() []worlds.Location {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]worlds.Location(nil), a.moves...)
}
