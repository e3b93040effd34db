// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package plugin is the lifecycle controller that ties the world registry,
// the portal resolver, configuration sync, and the /swm command to a host
// game server.
package plugin

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/worldgate/internal/command"
	"github.com/holomush/worldgate/internal/command/handlers"
	"github.com/holomush/worldgate/internal/config"
	"github.com/holomush/worldgate/internal/observability"
	"github.com/holomush/worldgate/internal/portal"
	"github.com/holomush/worldgate/internal/worlds"
)

// ConfigFile is the name of the persisted configuration inside the data folder.
const ConfigFile = "config.yml"

// Host is the game server as seen by the plugin.
type Host interface {
	// Engine returns the host's world engine.
	Engine() worlds.Engine
	// PlayerExact finds an online player by exact name.
	PlayerExact(name string) (worlds.Actor, bool)
	// DataFolder is the directory holding the plugin's configuration.
	DataFolder() string
	// APIVersion is the host plugin API version, e.g. "1.20.4".
	APIVersion() string
}

// Plugin owns one enable/disable cycle of worldgate. The host calls its
// methods from a single goroutine.
type Plugin struct {
	host     Host
	manifest *Manifest
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu         sync.RWMutex
	enabled    bool
	state      *worlds.State
	registry   *worlds.Registry
	resolver   *portal.Resolver
	sync       *config.Sync
	dispatcher *command.Dispatcher

	// Listener toggles are read once at enable.
	portalLinking bool
	spawnOverride bool
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records enable state and config saves on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Plugin) {
		p.metrics = m
	}
}

// WithManifest replaces the embedded manifest.
func WithManifest(m *Manifest) Option {
	return func(p *Plugin) {
		if m != nil {
			p.manifest = m
		}
	}
}

// New creates a disabled plugin bound to host.
func New(host Host, opts ...Option) (*Plugin, error) {
	if host == nil {
		return nil, oops.Code("NIL_HOST").Errorf("host is nil")
	}
	p := &Plugin{
		host:     host,
		manifest: DefaultManifest(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Manifest returns the plugin manifest.
func (p *Plugin) Manifest() *Manifest {
	return p.manifest
}

// Enable loads configuration, force-loads worlds, and starts handling
// commands and events.
func (p *Plugin) Enable(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.enabled {
		return oops.Code("ALREADY_ENABLED").Errorf("plugin %s is already enabled", p.manifest.Name)
	}
	if err := p.manifest.CheckHost(p.host.APIVersion()); err != nil {
		return err
	}

	engine := p.host.Engine()
	if engine == nil {
		return oops.Code("NIL_ENGINE").Errorf("host returned no world engine")
	}

	store, err := config.Open(filepath.Join(p.host.DataFolder(), ConfigFile))
	if err != nil {
		return oops.With("plugin", p.manifest.Name).Wrap(err)
	}

	state := worlds.NewState()
	registry, err := worlds.NewRegistry(engine, state, worlds.WithLogger(p.logger))
	if err != nil {
		return err
	}

	cfgSync := config.NewSync(store, state, engine, registry, p.logger)
	if err := cfgSync.Load(ctx); err != nil {
		return err
	}

	resolver, err := portal.NewResolver(state, engine, registry, portal.WithLogger(p.logger))
	if err != nil {
		return err
	}

	commands := command.NewRegistry()
	handlers.RegisterAll(commands)
	dispatcher, err := command.NewDispatcher(commands, command.WithLogger(p.logger))
	if err != nil {
		return err
	}

	p.state = state
	p.registry = registry
	p.sync = cfgSync
	p.resolver = resolver
	p.dispatcher = dispatcher
	p.portalLinking = state.PortalLinking()
	p.spawnOverride = state.SpawnOverride()
	p.enabled = true

	if p.metrics != nil {
		p.metrics.Enabled.Set(1)
	}
	p.logger.InfoContext(ctx, "plugin enabled",
		"plugin", p.manifest.Name,
		"version", p.manifest.Version,
		"worlds", state.Len(),
		"portal_linking", p.portalLinking,
		"spawn_override", p.spawnOverride,
	)
	return nil
}

// Disable writes the configuration back and stops handling commands and
// events. Disabling a disabled plugin is a no-op.
func (p *Plugin) Disable(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return nil
	}
	p.enabled = false
	if p.metrics != nil {
		p.metrics.Enabled.Set(0)
	}

	err := p.sync.Save(ctx)
	p.recordSave(err)
	p.state, p.registry, p.sync, p.resolver, p.dispatcher = nil, nil, nil, nil, nil
	if err != nil {
		return oops.With("plugin", p.manifest.Name).Wrap(err)
	}

	p.logger.InfoContext(ctx, "plugin disabled", "plugin", p.manifest.Name)
	return nil
}

// Save writes the configuration without disabling.
func (p *Plugin) Save(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.enabled {
		return oops.Code("NOT_ENABLED").Errorf("plugin %s is not enabled", p.manifest.Name)
	}
	err := p.sync.Save(ctx)
	p.recordSave(err)
	return err
}

func (p *Plugin) recordSave(err error) {
	if p.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.metrics.ConfigSaves.WithLabelValues(status).Inc()
}

// Enabled reports whether the plugin is enabled. Used as the readiness check.
func (p *Plugin) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enabled
}

// Registry returns the world registry of the current enable cycle, or nil
// while disabled.
func (p *Plugin) Registry() *worlds.Registry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.registry
}

// State returns the state of the current enable cycle, or nil while disabled.
func (p *Plugin) State() *worlds.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Commands returns the subcommand registry, or nil while disabled.
func (p *Plugin) Commands() *command.Registry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.dispatcher == nil {
		return nil
	}
	return p.dispatcher.Registry()
}
