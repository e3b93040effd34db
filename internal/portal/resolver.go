// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package portal decides where an actor crossing between worlds should land
// when the source world is managed by the registry.
package portal

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/worldgate/internal/worlds"
)

// Cause identifies the travel signal being resolved.
type Cause string

// Travel causes reported by the host.
const (
	// CauseNetherPortal is a crossing through a nether-class portal.
	CauseNetherPortal Cause = "nether_portal"
	// CauseWorldChanged fires after an actor left an End-type world.
	CauseWorldChanged Cause = "world_changed"
	// CauseEndPortal is a travel event caused by an end portal.
	CauseEndPortal Cause = "end_portal"
)

// Status describes the resolution outcome.
type Status string

// Resolution outcomes.
const (
	// StatusRedirected means Destination should replace the host's choice.
	StatusRedirected Status = "redirected"
	// StatusExempt means the source is a built-in world and the host's
	// own routing applies.
	StatusExempt Status = "exempt"
	// StatusIgnored means the signal does not concern portal linking,
	// e.g. a world change from a non-End world.
	StatusIgnored Status = "ignored"
	// StatusUnregisteredSource means the source world is not registered.
	// The actor is left on its original path.
	StatusUnregisteredSource Status = "unregistered_source"
	// StatusNoDestination means neither the link target nor the fallback
	// world could be resolved.
	StatusNoDestination Status = "no_destination"
)

// End portal landing column.
const (
	endLandingX = 20
	endLandingZ = 0
)

// Request describes a travel signal.
type Request struct {
	Cause Cause
	// Source is the world the actor is leaving.
	Source string
	// SourceEnvironment is the environment of Source.
	SourceEnvironment worlds.Environment
	// TargetEnvironment is the environment of the host's chosen
	// destination. Only consulted for nether portal crossings.
	TargetEnvironment worlds.Environment
}

// Outcome is the result of Resolve.
type Outcome struct {
	Status      Status
	Destination worlds.Location
	// Fallback is set when the link target could not be loaded and a
	// default world was used instead.
	Fallback bool
}

// Loader loads registered worlds on demand.
type Loader interface {
	LoadWorld(ctx context.Context, name string) worlds.LoadResult
}

// Resolver maps travel signals to destinations using the registered
// portal links.
type Resolver struct {
	state  *worlds.State
	engine worlds.Engine
	loader Loader
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a resolver reading links from state, looking worlds up
// in engine and loading unloaded targets through loader.
func NewResolver(state *worlds.State, engine worlds.Engine, loader Loader, opts ...Option) (*Resolver, error) {
	if state == nil || engine == nil || loader == nil {
		return nil, oops.Code("RESOLVER_INVALID").Errorf("state, engine and loader are required")
	}
	r := &Resolver{
		state:  state,
		engine: engine,
		loader: loader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve computes the landing location for req.
func (r *Resolver) Resolve(ctx context.Context, req Request) Outcome {
	out := r.resolve(ctx, req)
	RecordResolution(string(req.Cause), string(out.Status))
	return out
}

func (r *Resolver) resolve(ctx context.Context, req Request) Outcome {
	var portal worlds.PortalType
	var fallback string
	switch req.Cause {
	case CauseNetherPortal:
		if req.TargetEnvironment != worlds.EnvironmentNether && req.TargetEnvironment != worlds.EnvironmentNormal {
			return Outcome{Status: StatusIgnored}
		}
		if worlds.IsBuiltin(req.Source) {
			return Outcome{Status: StatusExempt}
		}
		portal, fallback = worlds.PortalNether, worlds.DefaultNetherWorld
	case CauseWorldChanged:
		if req.SourceEnvironment != worlds.EnvironmentTheEnd {
			return Outcome{Status: StatusIgnored}
		}
		portal, fallback = worlds.PortalEnd, worlds.DefaultNetherWorld
	case CauseEndPortal:
		if worlds.IsBuiltin(req.Source) {
			return Outcome{Status: StatusExempt}
		}
		portal, fallback = worlds.PortalEnd, worlds.DefaultEndWorld
	default:
		return Outcome{Status: StatusIgnored}
	}

	cfg, ok := r.state.Config(req.Source)
	if !ok {
		r.logger.WarnContext(ctx, "portal source world is not registered",
			"world", req.Source, "cause", req.Cause)
		return Outcome{Status: StatusUnregisteredSource}
	}

	target := cfg.PortalTarget(portal)
	dest, ok := r.engine.Lookup(target)
	usedFallback := false
	if !ok {
		r.loader.LoadWorld(ctx, target)
		dest, ok = r.engine.Lookup(target)
	}
	if !ok {
		r.logger.WarnContext(ctx, "linking error",
			"world", req.Source, "target", target, "fallback", fallback)
		usedFallback = true
		dest, ok = r.engine.Lookup(fallback)
		if !ok {
			r.logger.WarnContext(ctx, "fallback world is not loaded",
				"world", req.Source, "fallback", fallback)
			return Outcome{Status: StatusNoDestination, Fallback: true}
		}
	}

	loc := dest.SpawnLocation()
	if req.Cause == CauseEndPortal {
		loc = worlds.Location{
			World: dest.Name(),
			X:     endLandingX,
			Y:     float64(dest.HighestBlockYAt(endLandingX, endLandingZ) + 1),
			Z:     endLandingZ,
		}
	}
	return Outcome{Status: StatusRedirected, Destination: loc, Fallback: usedFallback}
}
