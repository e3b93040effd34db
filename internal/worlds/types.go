// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package worlds contains the world registry: the table of managed world
// configurations and the lifecycle operations that act on it.
package worlds

import (
	"strings"

	"github.com/samber/oops"
)

// Environment identifies the generation kind of a world.
type Environment string

// Environments understood by the host world engine.
const (
	EnvironmentNormal Environment = "NORMAL"
	EnvironmentNether Environment = "NETHER"
	EnvironmentTheEnd Environment = "THE_END"
)

// String returns the persisted name of the environment.
func (e Environment) String() string {
	return string(e)
}

// Valid reports whether e is one of the known environments.
func (e Environment) Valid() bool {
	switch e {
	case EnvironmentNormal, EnvironmentNether, EnvironmentTheEnd:
		return true
	default:
		return false
	}
}

// ParseEnvironment parses an environment name. Matching is case-insensitive.
func ParseEnvironment(s string) (Environment, error) {
	env := Environment(strings.ToUpper(strings.TrimSpace(s)))
	if !env.Valid() {
		return "", oops.Code("INVALID_ENVIRONMENT").
			With("environment", s).
			Errorf("unknown environment %q", s)
	}
	return env, nil
}

// EnvironmentOrNormal parses s and falls back to NORMAL for unknown values.
// Used when reading persisted configuration written by older revisions.
func EnvironmentOrNormal(s string) Environment {
	env, err := ParseEnvironment(s)
	if err != nil {
		return EnvironmentNormal
	}
	return env
}

// PortalType selects which portal link of a world is addressed.
type PortalType uint8

// Portal link kinds.
const (
	PortalNether PortalType = iota
	PortalEnd
)

// String returns the lowercase name used on the command line.
func (p PortalType) String() string {
	switch p {
	case PortalNether:
		return "nether"
	case PortalEnd:
		return "end"
	default:
		return "unknown"
	}
}

// ParsePortalType parses "nether" or "end".
func ParsePortalType(s string) (PortalType, bool) {
	switch strings.ToLower(s) {
	case "nether":
		return PortalNether, true
	case "end":
		return PortalEnd, true
	default:
		return 0, false
	}
}

// Names of the worlds the host creates on its own. They are never registered.
const (
	DefaultWorld       = "world"
	DefaultNetherWorld = "world_nether"
	DefaultEndWorld    = "world_the_end"
)

// IsBuiltin reports whether id names one of the host's default worlds.
func IsBuiltin(id string) bool {
	switch id {
	case DefaultWorld, DefaultNetherWorld, DefaultEndWorld:
		return true
	default:
		return false
	}
}

// WorldConfig is the recorded configuration of a registered world.
// Seed and Environment are fixed at registration; only the portal
// targets change afterwards.
type WorldConfig struct {
	ID           string
	DisplayName  string
	Environment  Environment
	Seed         int64
	PortalNether string
	PortalEnd    string
}

// PortalTarget returns the link target for the given portal kind.
func (c WorldConfig) PortalTarget(p PortalType) string {
	if p == PortalEnd {
		return c.PortalEnd
	}
	return c.PortalNether
}

// newConfig builds a config with the default portal targets.
func newConfig(id, displayName string, env Environment, seed int64) WorldConfig {
	return WorldConfig{
		ID:           id,
		DisplayName:  displayName,
		Environment:  env,
		Seed:         seed,
		PortalNether: DefaultNetherWorld,
		PortalEnd:    DefaultEndWorld,
	}
}

// Location is a position and orientation inside a world.
type Location struct {
	World string
	X     float64
	Y     float64
	Z     float64
	Yaw   float32
	Pitch float32
}

// IsZero reports whether the location has not been set.
func (l Location) IsZero() bool {
	return l == Location{}
}
