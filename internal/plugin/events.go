// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"context"

	"github.com/holomush/worldgate/internal/observability"
	"github.com/holomush/worldgate/internal/portal"
	"github.com/holomush/worldgate/internal/worlds"
)

// TeleportCause says why the host is moving an actor.
type TeleportCause string

// Teleport causes the plugin distinguishes.
const (
	TeleportEndPortal TeleportCause = "END_PORTAL"
	TeleportCommand   TeleportCause = "COMMAND"
	TeleportPlugin    TeleportCause = "PLUGIN"
	TeleportUnknown   TeleportCause = "UNKNOWN"
)

// PortalEvent is a pending nether portal crossing. Handlers may rewrite To.
type PortalEvent struct {
	Actor           worlds.Actor
	From            worlds.Location
	FromEnvironment worlds.Environment
	To              worlds.Location
	ToEnvironment   worlds.Environment
}

// TeleportEvent is a pending teleport. Handlers may rewrite To.
type TeleportEvent struct {
	Actor           worlds.Actor
	Cause           TeleportCause
	From            worlds.Location
	FromEnvironment worlds.Environment
	To              worlds.Location
}

// ChangedWorldEvent reports a completed move between worlds.
type ChangedWorldEvent struct {
	Actor           worlds.Actor
	From            string
	FromEnvironment worlds.Environment
}

// JoinEvent reports a player joining the server.
type JoinEvent struct {
	Actor worlds.Actor
}

// Event kinds used as metric labels.
const (
	eventPortal       = "portal"
	eventTeleport     = "teleport"
	eventChangedWorld = "changed_world"
	eventJoin         = "join"
)

// resolverIfLinking returns the resolver when portal linking was enabled at
// enable time.
func (p *Plugin) resolverIfLinking() *portal.Resolver {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.enabled || !p.portalLinking {
		return nil
	}
	return p.resolver
}

// OnPortal redirects nether portal crossings out of registered worlds to
// their linked nether target.
func (p *Plugin) OnPortal(ctx context.Context, ev *PortalEvent) {
	resolver := p.resolverIfLinking()
	if resolver == nil {
		observability.RecordHostEvent(eventPortal, observability.OutcomeSkipped)
		return
	}

	out := resolver.Resolve(ctx, portal.Request{
		Cause:             portal.CauseNetherPortal,
		Source:            ev.From.World,
		SourceEnvironment: ev.FromEnvironment,
		TargetEnvironment: ev.ToEnvironment,
	})
	if out.Status != portal.StatusRedirected {
		observability.RecordHostEvent(eventPortal, observability.OutcomeSkipped)
		return
	}
	ev.To = out.Destination
	observability.RecordHostEvent(eventPortal, observability.OutcomeHandled)
}

// OnTeleport redirects end portal teleports out of registered worlds to
// their linked end target.
func (p *Plugin) OnTeleport(ctx context.Context, ev *TeleportEvent) {
	resolver := p.resolverIfLinking()
	if resolver == nil || ev.Cause != TeleportEndPortal {
		observability.RecordHostEvent(eventTeleport, observability.OutcomeSkipped)
		return
	}

	out := resolver.Resolve(ctx, portal.Request{
		Cause:             portal.CauseEndPortal,
		Source:            ev.From.World,
		SourceEnvironment: ev.FromEnvironment,
	})
	if out.Status != portal.StatusRedirected {
		observability.RecordHostEvent(eventTeleport, observability.OutcomeSkipped)
		return
	}
	ev.To = out.Destination
	observability.RecordHostEvent(eventTeleport, observability.OutcomeHandled)
}

// OnChangedWorld sends an actor leaving a registered end world to that
// world's end link. The move has already happened, so the actor is
// teleported again.
func (p *Plugin) OnChangedWorld(ctx context.Context, ev *ChangedWorldEvent) {
	resolver := p.resolverIfLinking()
	if resolver == nil {
		observability.RecordHostEvent(eventChangedWorld, observability.OutcomeSkipped)
		return
	}

	out := resolver.Resolve(ctx, portal.Request{
		Cause:             portal.CauseWorldChanged,
		Source:            ev.From,
		SourceEnvironment: ev.FromEnvironment,
	})
	if out.Status != portal.StatusRedirected {
		observability.RecordHostEvent(eventChangedWorld, observability.OutcomeSkipped)
		return
	}
	if !ev.Actor.Teleport(out.Destination) {
		p.logger.WarnContext(ctx, "host rejected teleport", "actor", ev.Actor.Name(), "world", out.Destination.World)
	}
	observability.RecordHostEvent(eventChangedWorld, observability.OutcomeHandled)
}

// OnJoin moves joining players to the global spawn when spawn override was
// enabled at enable time.
func (p *Plugin) OnJoin(ctx context.Context, ev *JoinEvent) {
	p.mu.RLock()
	active := p.enabled && p.spawnOverride
	state := p.state
	p.mu.RUnlock()

	if !active {
		observability.RecordHostEvent(eventJoin, observability.OutcomeSkipped)
		return
	}

	spawn := state.Spawn()
	if spawn.World == "" {
		observability.RecordHostEvent(eventJoin, observability.OutcomeSkipped)
		return
	}
	if !ev.Actor.Teleport(spawn) {
		p.logger.WarnContext(ctx, "host rejected teleport", "actor", ev.Actor.Name(), "world", spawn.World)
	}
	observability.RecordHostEvent(eventJoin, observability.OutcomeHandled)
}
