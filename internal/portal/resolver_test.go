// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package portal_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/holomush/worldgate/internal/portal"
	"github.com/holomush/worldgate/internal/worlds"
	"github.com/holomush/worldgate/internal/worlds/worldstest"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) LoadWorld(ctx context.Context, name string) worlds.LoadResult {
	args := m.Called(ctx, name)
	return args.Get(0).(worlds.LoadResult)
}

type env struct {
	engine   *worldstest.Engine
	state    *worlds.State
	registry *worlds.Registry
	resolver *portal.Resolver
	logs     *bytes.Buffer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		engine: worldstest.NewEngine(t.TempDir()),
		state:  worlds.NewState(),
		logs:   &bytes.Buffer{},
	}
	logger := slog.New(slog.NewTextHandler(e.logs, nil))
	reg, err := worlds.NewRegistry(e.engine, e.state, worlds.WithLogger(logger))
	require.NoError(t, err)
	e.registry = reg
	res, err := portal.NewResolver(e.state, e.engine, reg, portal.WithLogger(logger))
	require.NoError(t, err)
	e.resolver = res

	for _, name := range []string{worlds.DefaultWorld, worlds.DefaultNetherWorld, worlds.DefaultEndWorld} {
		_, err := e.engine.CreateOrLoad(context.Background(), worlds.Spec{Name: name})
		require.NoError(t, err)
	}
	return e
}

func (e *env) create(t *testing.T, name string, opts ...worlds.CreateOption) *worldstest.World {
	t.Helper()
	require.Equal(t, worlds.CreateSuccess, e.registry.CreateWorld(context.Background(), name, opts...))
	w, ok := e.engine.Loaded(name)
	require.True(t, ok)
	return w
}

func TestNewResolver_RequiresCollaborators(t *testing.T) {
	_, err := portal.NewResolver(nil, nil, nil)
	require.Error(t, err)
}

func TestResolve_NetherPortalToLinkedWorld(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.create(t, "overworld2")
	dest := e.create(t, "nether2", worlds.WithEnvironment(worlds.EnvironmentNether))
	dest.SetSpawn(worlds.Location{X: 8, Y: 40, Z: 8})
	require.Equal(t, worlds.LinkSuccess, e.registry.LinkWorlds(ctx, "overworld2", "nether2", worlds.PortalNether))

	out := e.resolver.Resolve(ctx, portal.Request{
		Cause:             portal.CauseNetherPortal,
		Source:            "overworld2",
		TargetEnvironment: worlds.EnvironmentNether,
	})

	assert.Equal(t, portal.StatusRedirected, out.Status)
	assert.False(t, out.Fallback)
	assert.Equal(t, worlds.Location{World: "nether2", X: 8, Y: 40, Z: 8}, out.Destination)
}

func TestResolve_LoadsUnloadedTarget(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.create(t, "src")
	e.create(t, "dst")
	require.Equal(t, worlds.LinkSuccess, e.registry.LinkWorlds(ctx, "src", "dst", worlds.PortalNether))
	require.True(t, e.registry.UnloadWorld(ctx, "dst"))

	out := e.resolver.Resolve(ctx, portal.Request{
		Cause:             portal.CauseNetherPortal,
		Source:            "src",
		TargetEnvironment: worlds.EnvironmentNormal,
	})

	assert.Equal(t, portal.StatusRedirected, out.Status)
	assert.Equal(t, "dst", out.Destination.World)
	assert.True(t, e.registry.CheckWorldLoaded("dst"))
}

func TestResolve_FallsBackWhenTargetCannotLoad(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.create(t, "src")
	e.create(t, "dst")
	require.Equal(t, worlds.LinkSuccess, e.registry.LinkWorlds(ctx, "src", "dst", worlds.PortalNether))
	require.True(t, e.registry.UnloadWorld(ctx, "dst"))

	loader := &mockLoader{}
	loader.On("LoadWorld", mock.Anything, "dst").Return(worlds.LoadError).Once()
	res, err := portal.NewResolver(e.state, e.engine, loader,
		portal.WithLogger(slog.New(slog.NewTextHandler(e.logs, nil))))
	require.NoError(t, err)

	out := res.Resolve(ctx, portal.Request{
		Cause:             portal.CauseNetherPortal,
		Source:            "src",
		TargetEnvironment: worlds.EnvironmentNether,
	})

	loader.AssertExpectations(t)
	assert.Equal(t, portal.StatusRedirected, out.Status)
	assert.True(t, out.Fallback)
	netherDefault, _ := e.engine.Loaded(worlds.DefaultNetherWorld)
	assert.Equal(t, netherDefault.SpawnLocation(), out.Destination)
	assert.Contains(t, e.logs.String(), "linking error")
}

func TestResolve_EndPortalLandsAboveSurface(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.create(t, "src")
	end := e.create(t, "myend", worlds.WithEnvironment(worlds.EnvironmentTheEnd))
	end.SetHighestBlockY(48)
	require.Equal(t, worlds.LinkSuccess, e.registry.LinkWorlds(ctx, "src", "myend", worlds.PortalEnd))

	out := e.resolver.Resolve(ctx, portal.Request{Cause: portal.CauseEndPortal, Source: "src"})

	assert.Equal(t, portal.StatusRedirected, out.Status)
	assert.Equal(t, worlds.Location{World: "myend", X: 20, Y: 49, Z: 0}, out.Destination)
}

func TestResolve_EndPortalFallback(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.create(t, "src")
	endDefault, _ := e.engine.Loaded(worlds.DefaultEndWorld)
	endDefault.SetHighestBlockY(60)
	e.create(t, "broken")
	require.True(t, e.registry.UnloadWorld(ctx, "broken"))
	e.engine.Fail("broken", errors.New("corrupt"))
	require.Equal(t, worlds.LinkSuccess, e.registry.LinkWorlds(ctx, "src", "broken", worlds.PortalEnd))

	out := e.resolver.Resolve(ctx, portal.Request{Cause: portal.CauseEndPortal, Source: "src"})

	assert.Equal(t, portal.StatusRedirected, out.Status)
	assert.True(t, out.Fallback)
	assert.Equal(t, worlds.Location{World: worlds.DefaultEndWorld, X: 20, Y: 61, Z: 0}, out.Destination)
}

func TestResolve_WorldChangedFromEnd(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.create(t, "myend", worlds.WithEnvironment(worlds.EnvironmentTheEnd))
	home := e.create(t, "home")
	require.Equal(t, worlds.LinkSuccess, e.registry.LinkWorlds(ctx, "myend", "home", worlds.PortalEnd))

	out := e.resolver.Resolve(ctx, portal.Request{
		Cause:             portal.CauseWorldChanged,
		Source:            "myend",
		SourceEnvironment: worlds.EnvironmentTheEnd,
	})

	assert.Equal(t, portal.StatusRedirected, out.Status)
	assert.Equal(t, home.SpawnLocation(), out.Destination)
}

func TestResolve_WorldChangedFallsBackToNether(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.create(t, "myend", worlds.WithEnvironment(worlds.EnvironmentTheEnd))
	e.create(t, "gone")
	require.Equal(t, worlds.LinkSuccess, e.registry.LinkWorlds(ctx, "myend", "gone", worlds.PortalEnd))
	require.True(t, e.registry.UnloadWorld(ctx, "gone"))
	e.engine.Fail("gone", errors.New("corrupt"))

	out := e.resolver.Resolve(ctx, portal.Request{
		Cause:             portal.CauseWorldChanged,
		Source:            "myend",
		SourceEnvironment: worlds.EnvironmentTheEnd,
	})

	assert.True(t, out.Fallback)
	assert.Equal(t, worlds.DefaultNetherWorld, out.Destination.World)
}

func TestResolve_NonRedirectingOutcomes(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	tests := []struct {
		name string
		req  portal.Request
		want portal.Status
	}{
		{
			name: "nether portal from builtin world",
			req:  portal.Request{Cause: portal.CauseNetherPortal, Source: worlds.DefaultWorld, TargetEnvironment: worlds.EnvironmentNether},
			want: portal.StatusExempt,
		},
		{
			name: "end portal from builtin world",
			req:  portal.Request{Cause: portal.CauseEndPortal, Source: worlds.DefaultNetherWorld},
			want: portal.StatusExempt,
		},
		{
			name: "nether-class crossing into an end world",
			req:  portal.Request{Cause: portal.CauseNetherPortal, Source: "x", TargetEnvironment: worlds.EnvironmentTheEnd},
			want: portal.StatusIgnored,
		},
		{
			name: "world change from a normal world",
			req:  portal.Request{Cause: portal.CauseWorldChanged, Source: "x", SourceEnvironment: worlds.EnvironmentNormal},
			want: portal.StatusIgnored,
		},
		{
			name: "world change from builtin end is not exempt",
			req:  portal.Request{Cause: portal.CauseWorldChanged, Source: worlds.DefaultEndWorld, SourceEnvironment: worlds.EnvironmentTheEnd},
			want: portal.StatusUnregisteredSource,
		},
		{
			name: "unregistered source",
			req:  portal.Request{Cause: portal.CauseEndPortal, Source: "stranger"},
			want: portal.StatusUnregisteredSource,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.resolver.Resolve(ctx, tt.req)
			assert.Equal(t, tt.want, out.Status)
			assert.True(t, out.Destination.IsZero())
		})
	}
}

func TestResolve_NoDestinationWhenFallbackUnloaded(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.create(t, "src")
	require.True(t, e.engine.Unload(ctx, worlds.DefaultNetherWorld, false))

	before := testutil.ToFloat64(portal.Resolutions.WithLabelValues("nether_portal", "no_destination"))
	out := e.resolver.Resolve(ctx, portal.Request{
		Cause:             portal.CauseNetherPortal,
		Source:            "src",
		TargetEnvironment: worlds.EnvironmentNether,
	})

	assert.Equal(t, portal.StatusNoDestination, out.Status)
	assert.Equal(t, before+1, testutil.ToFloat64(portal.Resolutions.WithLabelValues("nether_portal", "no_destination")))
}
