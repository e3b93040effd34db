// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package worlds

import "context"

// UIDFile is the per-world identity marker the engine writes into every
// world directory. Copies must drop it so the engine assigns a new identity.
const UIDFile = "uid.dat"

// Spec describes a world to create or load. Nil fields select the engine's
// defaults.
type Spec struct {
	Name        string
	Seed        *int64
	Environment *Environment
}

// World is a live, loaded world owned by the host engine.
type World interface {
	// Name returns the world identifier.
	Name() string
	// Environment returns the generation kind.
	Environment() Environment
	// Seed returns the generation seed.
	Seed() int64
	// SpawnLocation returns the world's natural spawn point.
	SpawnLocation() Location
	// HighestBlockYAt returns the Y of the highest solid block in the column.
	HighestBlockYAt(x, z int) int
	// Dir returns the world's storage directory.
	Dir() string
	// Save flushes pending world data to Dir.
	Save() error
}

// Engine is the host capability that creates, loads and unloads worlds.
// Implementations are not required to be safe for concurrent use; the host
// serializes calls on its main thread.
type Engine interface {
	// CreateOrLoad creates the world if its directory is empty and loads it.
	CreateOrLoad(ctx context.Context, spec Spec) (World, error)

	// Unload unloads a loaded world, saving it first when save is true.
	// Returns false when the world was not unloaded.
	Unload(ctx context.Context, name string, save bool) bool

	// Lookup returns the world if it is currently loaded.
	Lookup(name string) (World, bool)

	// Container returns the directory that holds every world directory.
	Container() string
}

// Actor is a player or other entity that can be moved between worlds.
type Actor interface {
	Name() string
	Location() Location
	// Teleport moves the actor and reports whether the host accepted the move.
	Teleport(loc Location) bool
}
