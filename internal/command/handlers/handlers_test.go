// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/worldgate/internal/command"
	"github.com/holomush/worldgate/internal/command/commandtest"
	"github.com/holomush/worldgate/internal/command/handlers"
	"github.com/holomush/worldgate/internal/worlds"
	"github.com/holomush/worldgate/internal/worlds/worldstest"
	"github.com/holomush/worldgate/pkg/errutil"
)

type env struct {
	dispatcher *command.Dispatcher
	registry   *worlds.Registry
	state      *worlds.State
	engine     *worldstest.Engine
	players    commandtest.Directory
}

func newEnv(t *testing.T) *env {
	t.Helper()
	engine := worldstest.NewEngine(t.TempDir())
	state := worlds.NewState()
	registry, err := worlds.NewRegistry(engine, state)
	require.NoError(t, err)

	commands := command.NewRegistry()
	handlers.RegisterAll(commands)
	dispatcher, err := command.NewDispatcher(commands)
	require.NoError(t, err)

	return &env{
		dispatcher: dispatcher,
		registry:   registry,
		state:      state,
		engine:     engine,
		players:    commandtest.Directory{},
	}
}

// run dispatches args as the given sender under the "swm" label.
func (e *env) run(t *testing.T, sender command.Sender, args ...string) error {
	t.Helper()
	exec := &command.CommandExecution{
		Sender: sender,
		Label:  "swm",
		Services: &command.Services{
			Registry: e.registry,
			State:    e.state,
			Players:  e.players,
			Commands: e.dispatcher.Registry(),
		},
	}
	return e.dispatcher.Dispatch(context.Background(), exec, args)
}

func (e *env) mustCreate(t *testing.T, name string, opts ...worlds.CreateOption) {
	t.Helper()
	require.Equal(t, worlds.CreateSuccess, e.registry.CreateWorld(context.Background(), name, opts...))
}

func TestRegisterAll_PermissionsAndAliases(t *testing.T) {
	reg := command.NewRegistry()
	handlers.RegisterAll(reg)

	for _, entry := range reg.All() {
		assert.NotNil(t, entry.Handler, entry.Name)
		assert.NotEmpty(t, entry.Usage, entry.Name)
		assert.Equal(t, "core", entry.Source)
		if entry.Name == "help" {
			assert.Empty(t, entry.Permission)
			continue
		}
		assert.Equal(t, handlers.PermissionPrefix+entry.Name, entry.Permission)
	}

	tp, ok := reg.Get("teleport")
	require.True(t, ok)
	assert.Equal(t, "tp", tp.Name)
}

func TestCreate(t *testing.T) {
	t.Run("plain name", func(t *testing.T) {
		e := newEnv(t)
		s := commandtest.NewSender("console")
		require.NoError(t, e.run(t, s, "create", "arena"))
		assert.Equal(t, []string{"Creating world", "World created"}, s.Messages())
		assert.True(t, e.registry.CheckWorldExists("arena"))
	})

	t.Run("seed only", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.run(t, commandtest.NewSender("c"), "create", "seeded", "42"))
		cfg, ok := e.registry.World("seeded")
		require.True(t, ok)
		assert.Equal(t, int64(42), cfg.Seed)
		assert.Equal(t, worlds.EnvironmentNormal, cfg.Environment)
	})

	t.Run("environment only", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.run(t, commandtest.NewSender("c"), "create", "hell", "NETHER"))
		cfg, ok := e.registry.World("hell")
		require.True(t, ok)
		assert.Equal(t, worlds.EnvironmentNether, cfg.Environment)
	})

	t.Run("seed and environment", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.run(t, commandtest.NewSender("c"), "create", "void", "-7", "THE_END"))
		cfg, ok := e.registry.World("void")
		require.True(t, ok)
		assert.Equal(t, int64(-7), cfg.Seed)
		assert.Equal(t, worlds.EnvironmentTheEnd, cfg.Environment)
	})

	t.Run("non numeric seed", func(t *testing.T) {
		e := newEnv(t)
		s := commandtest.NewSender("c")
		err := e.run(t, s, "create", "x", "banana")
		errutil.AssertErrorCode(t, err, command.CodeInvalidInput)
		assert.Equal(t, "Seeds can only be numeric", command.PlayerMessage(err))
		assert.Empty(t, s.Messages())
		assert.False(t, e.registry.CheckWorldExists("x"))
	})

	t.Run("unknown generator", func(t *testing.T) {
		e := newEnv(t)
		err := e.run(t, commandtest.NewSender("c"), "create", "x", "1", "MOON")
		errutil.AssertErrorCode(t, err, command.CodeInvalidInput)
		assert.Equal(t, "Generator with this name doesn't exist", command.PlayerMessage(err))
	})

	t.Run("duplicate", func(t *testing.T) {
		e := newEnv(t)
		e.mustCreate(t, "arena")
		s := commandtest.NewSender("c")
		require.NoError(t, e.run(t, s, "create", "arena"))
		assert.Equal(t, "A world with that name already exists", s.Last())
	})

	t.Run("foreign folder", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, os.MkdirAll(filepath.Join(e.engine.Container(), "taken"), 0o755))
		s := commandtest.NewSender("c")
		require.NoError(t, e.run(t, s, "create", "taken"))
		assert.Equal(t, "A folder with that name already exists", s.Last())
	})

	t.Run("too many args", func(t *testing.T) {
		e := newEnv(t)
		err := e.run(t, commandtest.NewSender("c"), "create", "a", "1", "NORMAL", "extra")
		assert.True(t, command.IsUsageError(err))
	})
}

func TestLoadAndUnload(t *testing.T) {
	e := newEnv(t)
	e.mustCreate(t, "arena")

	s := commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "unload", "arena"))
	assert.Equal(t, []string{"Unloading world", "World unloaded"}, s.Messages())
	assert.False(t, e.registry.CheckWorldLoaded("arena"))

	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "load", "arena"))
	assert.Equal(t, []string{"Loading world", "World loaded"}, s.Messages())
	assert.True(t, e.registry.CheckWorldLoaded("arena"))

	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "load", "ghost"))
	assert.Equal(t, "A world with that name doesn't exist", s.Last())

	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "unload", "ghost"))
	assert.Equal(t, "An error occurred while unloading world", s.Last())

	assert.True(t, command.IsUsageError(e.run(t, s, "load")))
	assert.True(t, command.IsUsageError(e.run(t, s, "unload", "a", "b")))
}

func TestClone(t *testing.T) {
	e := newEnv(t)
	e.mustCreate(t, "lobby", worlds.WithSeed(9))

	s := commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "clone", "lobby", "lobby2"))
	assert.Equal(t, []string{"Cloning world", "Cloning finished"}, s.Messages())
	cfg, ok := e.registry.World("lobby2")
	require.True(t, ok)
	assert.Equal(t, int64(9), cfg.Seed)

	// The directory check runs before the registry check, so the clone's
	// own directory would otherwise answer for lobby2.
	require.NoError(t, os.MkdirAll(filepath.Join(e.engine.Container(), "occupied"), 0o755))
	cases := []struct {
		args []string
		want string
	}{
		{args: []string{"clone", "ghost", "copy"}, want: "Source world does not exist"},
		{args: []string{"clone", "lobby", "occupied"}, want: "Destination directory already exists"},
		{args: []string{"clone", "lobby", "lobby2"}, want: "Destination directory already exists"},
	}
	for _, tc := range cases {
		s := commandtest.NewSender("c")
		require.NoError(t, e.run(t, s, tc.args...))
		assert.Equal(t, tc.want, s.Last(), tc.args)
	}

	require.NoError(t, os.RemoveAll(filepath.Join(e.engine.Container(), "lobby2")))
	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "clone", "lobby", "lobby2"))
	assert.Equal(t, "Destination world already exists", s.Last())
}

func TestRemove(t *testing.T) {
	e := newEnv(t)
	e.mustCreate(t, "doomed")

	s := commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "remove", "doomed"))
	assert.Equal(t, []string{
		`This will delete all data for the world "doomed"`,
		"You will lose all access to this world and it's contents.",
	}, s.Messages())
	assert.Equal(t, []commandtest.Suggestion{{Prefix: "To confirm run: ", Command: "/swm remove doomed confirm"}}, s.Suggestions())
	assert.True(t, e.registry.CheckWorldExists("doomed"), "warning must not remove")

	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "remove", "doomed", "confirm"))
	assert.Equal(t, []string{"Removing world", "World removed"}, s.Messages())
	assert.False(t, e.registry.CheckWorldExists("doomed"))

	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "remove", "doomed", "confirm"))
	assert.Equal(t, "A world with that name doesn't exist", s.Last())

	assert.True(t, command.IsUsageError(e.run(t, s, "remove", "doomed", "yes")))
}

func TestRemove_SuggestionUsesWorldID(t *testing.T) {
	e := newEnv(t)
	s := commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "remove", "my world"))
	require.Len(t, s.Suggestions(), 1)
	assert.Equal(t, "/swm remove myworld confirm", s.Suggestions()[0].Command)
}

func TestImport(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(e.engine.Container(), "legacy"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.engine.Container(), "afile"), []byte("x"), 0o600))

	s := commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "import", "legacy"))
	assert.Equal(t, []string{"Importing world", "NOTE: This is experimental and may break stuff", "World imported"}, s.Messages())

	cases := map[string]string{
		"legacy":  "The specified world is already imported",
		"afile":   "The specified world is a file",
		"missing": "The specified world folder doesn't exist",
	}
	for name, want := range cases {
		s := commandtest.NewSender("c")
		require.NoError(t, e.run(t, s, "import", name))
		assert.Equal(t, want, s.Last(), name)
	}
}

func TestTeleport(t *testing.T) {
	e := newEnv(t)
	e.mustCreate(t, "arena")
	e.mustCreate(t, "cold")
	require.True(t, e.registry.UnloadWorld(context.Background(), "cold"))

	alex := worldstest.NewActor("alex", worlds.Location{World: worlds.DefaultWorld})
	player := commandtest.NewPlayer(alex)
	require.NoError(t, e.run(t, player, "tp", "arena"))
	require.Len(t, alex.Moves(), 1)
	assert.Equal(t, "arena", alex.Moves()[0].World)
	assert.Empty(t, player.Messages())

	require.NoError(t, e.run(t, player, "teleport", "cold"))
	assert.Equal(t, "Destination world isn't loaded", player.Last())

	require.NoError(t, e.run(t, player, "tp", "ghost"))
	assert.Equal(t, "Destination world doesn't exist", player.Last())

	t.Run("console needs a target player", func(t *testing.T) {
		err := e.run(t, commandtest.NewSender("console"), "tp", "arena")
		errutil.AssertErrorCode(t, err, command.CodePlayerOnly)
	})

	t.Run("named player", func(t *testing.T) {
		steve := worldstest.NewActor("steve", worlds.Location{World: worlds.DefaultWorld})
		e.players["steve"] = steve
		require.NoError(t, e.run(t, commandtest.NewSender("console"), "tp", "steve", "arena"))
		require.Len(t, steve.Moves(), 1)

		err := e.run(t, commandtest.NewSender("console"), "tp", "nobody", "arena")
		errutil.AssertErrorCode(t, err, command.CodeNoSuchPlayer)
	})
}

func TestLinking(t *testing.T) {
	e := newEnv(t)
	s := commandtest.NewSender("c")

	require.NoError(t, e.run(t, s, "linking", "disable"))
	assert.False(t, e.state.PortalLinking())
	assert.Equal(t, []string{"Portal linking disabled", "Please restart the server for the changes to apply"}, s.Messages())

	require.NoError(t, e.run(t, s, "linking", "enable"))
	assert.True(t, e.state.PortalLinking())

	assert.True(t, command.IsUsageError(e.run(t, s, "linking", "maybe")))
}

func TestLink(t *testing.T) {
	e := newEnv(t)
	e.mustCreate(t, "sky")
	e.mustCreate(t, "sky_nether", worlds.WithEnvironment(worlds.EnvironmentNether))

	s := commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "link", "sky", "sky_nether", "nether"))
	assert.Equal(t, []string{"Linking worlds", "Worlds linked"}, s.Messages())
	cfg, _ := e.registry.World("sky")
	assert.Equal(t, "sky_nether", cfg.PortalNether)
	assert.Equal(t, worlds.DefaultEndWorld, cfg.PortalEnd)

	cases := map[string][]string{
		"Nonexistent link type":            {"link", "sky", "sky_nether", "aether"},
		"Source world does not exist":      {"link", "ghost", "sky", "end"},
		"Destination world does not exist": {"link", "sky", "ghost", "end"},
	}
	for want, args := range cases {
		s := commandtest.NewSender("c")
		require.NoError(t, e.run(t, s, args...))
		assert.Equal(t, want, s.Last(), args)
	}
}

func TestForceLoad(t *testing.T) {
	e := newEnv(t)
	e.mustCreate(t, "arena")
	s := commandtest.NewSender("c")

	require.NoError(t, e.run(t, s, "forceload", "add", "arena"))
	assert.Equal(t, []string{"Adding world to the forceload list", "World added"}, s.Messages())
	assert.Equal(t, []string{"arena"}, e.state.ForceLoad())

	require.NoError(t, e.run(t, s, "forceload", "add", "arena"))
	assert.Equal(t, "World already in the forceload list", s.Last())

	require.NoError(t, e.run(t, s, "forceload", "add", "ghost"))
	assert.Equal(t, "World with that name doesn't exist", s.Last())

	require.NoError(t, e.run(t, s, "forceload", "rem", "arena"))
	assert.Equal(t, "World removed", s.Last())
	assert.Empty(t, e.state.ForceLoad())

	require.NoError(t, e.run(t, s, "forceload", "remove", "arena"))
	assert.Equal(t, "World not in the forceload list", s.Last())

	assert.True(t, command.IsUsageError(e.run(t, s, "forceload", "toggle", "arena")))
}

func TestSpawn(t *testing.T) {
	ctx := context.Background()

	t.Run("override toggle", func(t *testing.T) {
		e := newEnv(t)
		s := commandtest.NewSender("c")
		require.NoError(t, e.run(t, s, "spawn", "override", "disable"))
		assert.False(t, e.state.SpawnOverride())
		assert.Equal(t, []string{"Spawn override disabled", "Please restart the server for the changes to apply"}, s.Messages())
		assert.True(t, command.IsUsageError(e.run(t, s, "spawn", "override")))
	})

	t.Run("reset", func(t *testing.T) {
		e := newEnv(t)
		s := commandtest.NewSender("c")
		require.NoError(t, e.run(t, s, "spawn", "reset"))
		assert.Equal(t, "World is not loaded", s.Last())

		_, err := e.engine.CreateOrLoad(ctx, worlds.Spec{Name: worlds.DefaultWorld})
		require.NoError(t, err)
		require.NoError(t, e.run(t, s, "spawn", "reset"))
		assert.Equal(t, "Spawn reset", s.Last())
		assert.Equal(t, worlds.DefaultWorld, e.state.Spawn().World)
	})

	t.Run("set default", func(t *testing.T) {
		e := newEnv(t)
		e.mustCreate(t, "hub")
		s := commandtest.NewSender("c")
		require.NoError(t, e.run(t, s, "spawn", "set", "hub", "default"))
		assert.Equal(t, "Spawn was successfully set", s.Last())
		assert.Equal(t, worlds.Location{World: "hub", X: 0.5, Y: 64, Z: 0.5}, e.state.Spawn())
	})

	t.Run("set position and rotation", func(t *testing.T) {
		e := newEnv(t)
		e.mustCreate(t, "hub")
		s := commandtest.NewSender("c")
		require.NoError(t, e.run(t, s, "spawn", "set", "hub", "10", "70.5", "-3"))
		assert.Equal(t, worlds.Location{World: "hub", X: 10, Y: 70.5, Z: -3}, e.state.Spawn())

		require.NoError(t, e.run(t, s, "spawn", "set", "hub", "1", "2", "3", "90", "-45"))
		assert.Equal(t, worlds.Location{World: "hub", X: 1, Y: 2, Z: 3, Yaw: 90, Pitch: -45}, e.state.Spawn())
	})

	t.Run("bad numbers", func(t *testing.T) {
		e := newEnv(t)
		e.mustCreate(t, "hub")
		s := commandtest.NewSender("c")
		cases := map[string][]string{
			"X must be a number":     {"spawn", "set", "hub", "x", "2", "3"},
			"Z must be a number":     {"spawn", "set", "hub", "1", "2", "z"},
			"Pitch must be a number": {"spawn", "set", "hub", "1", "2", "3", "4", "up"},
		}
		for want, args := range cases {
			assert.Equal(t, want, command.PlayerMessage(e.run(t, s, args...)), args)
		}
	})

	t.Run("set failures", func(t *testing.T) {
		e := newEnv(t)
		e.mustCreate(t, "cold")
		require.True(t, e.registry.UnloadWorld(ctx, "cold"))
		s := commandtest.NewSender("c")

		require.NoError(t, e.run(t, s, "spawn", "set", "cold", "default"))
		assert.Equal(t, "World is not loaded", s.Last())
		require.NoError(t, e.run(t, s, "spawn", "set", "ghost", "default"))
		assert.Equal(t, "World with that name doesn't exist", s.Last())

		assert.True(t, command.IsUsageError(e.run(t, s, "spawn", "set", "cold", "1")))
		assert.True(t, command.IsUsageError(e.run(t, s, "spawn", "set", "cold", "nope")))
		assert.True(t, command.IsUsageError(e.run(t, s, "spawn", "teleport")))
	})
}

func TestListAndInfo(t *testing.T) {
	e := newEnv(t)
	e.mustCreate(t, "sky_one", worlds.WithSeed(1))
	e.mustCreate(t, "sky_two", worlds.WithEnvironment(worlds.EnvironmentNether))
	e.mustCreate(t, "arena")
	require.True(t, e.registry.UnloadWorld(context.Background(), "sky_two"))

	s := commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "list"))
	assert.Equal(t, []string{
		"Worlds (3):",
		"- sky_one [NORMAL] loaded",
		"- sky_two [NETHER] unloaded",
		"- arena [NORMAL] loaded",
	}, s.Messages())

	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "list", "sky*"))
	assert.Len(t, s.Messages(), 3)

	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "list", "none*"))
	assert.Equal(t, []string{"No worlds found"}, s.Messages())

	assert.Equal(t, "Invalid pattern", command.PlayerMessage(e.run(t, s, "list", "[")))

	require.Equal(t, worlds.ForceLoadSuccess, e.registry.AddForceLoad(context.Background(), "sky_one"))
	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "info", "sky_one"))
	transcript := s.Transcript()
	assert.Contains(t, transcript, "World: sky_one")
	assert.Contains(t, transcript, "Seed: 1")
	assert.Contains(t, transcript, "Nether portal: world_nether")
	assert.Contains(t, transcript, "Loaded: yes")
	assert.Contains(t, transcript, "Force-load: yes")

	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "info", "ghost"))
	assert.Equal(t, "A world with that name doesn't exist", s.Last())
}

func TestHelp(t *testing.T) {
	e := newEnv(t)
	s := commandtest.NewSender("alex")
	s.Allow("worldgate.list", "worldgate.tp")

	require.NoError(t, e.run(t, s, "help"))
	assert.Equal(t, []string{
		"/swm help [subcommand] - Show available subcommands",
		"/swm list [pattern] - List registered worlds",
		"/swm tp [player] <world> - Teleport to a world's spawn",
	}, s.Messages())

	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "help", "spawn"))
	assert.Equal(t, "## Spawn", s.Messages()[0])

	s = commandtest.NewSender("c")
	require.NoError(t, e.run(t, s, "help", "load"))
	assert.Equal(t, []string{"/swm load <world> - Load a registered world"}, s.Messages())

	assert.Equal(t, "Unknown subcommand", command.PlayerMessage(e.run(t, s, "help", "fly")))
}

func TestPermissionDeniedBeforeHandler(t *testing.T) {
	e := newEnv(t)
	s := commandtest.NewSender("alex")
	s.Allow()

	err := e.run(t, s, "create", "sneaky")
	errutil.AssertErrorCode(t, err, command.CodePermissionDenied)
	assert.False(t, e.registry.CheckWorldExists("sneaky"))
}
