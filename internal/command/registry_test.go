// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/worldgate/pkg/errutil"
)

func noop(context.Context, *CommandExecution) error { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(CommandEntry{Name: "tp", Aliases: []string{"teleport"}, Handler: noop, Source: "core"}))

	entry, ok := reg.Get("tp")
	require.True(t, ok)
	assert.Equal(t, "tp", entry.Name)

	byAlias, ok := reg.Get("teleport")
	require.True(t, ok)
	assert.Equal(t, "tp", byAlias.Name)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestCheckName(t *testing.T) {
	valid := []string{"create", "tp", "forceload", "spawn-set", "a1", strings.Repeat("a", MaxNameLength)}
	for _, name := range valid {
		assert.NoError(t, checkName("command", name), name)
	}

	invalid := []string{"", "  ", " tp", "Create", "1tp", "-tp", "with space", "under_score", strings.Repeat("a", MaxNameLength+1)}
	for _, name := range invalid {
		errutil.AssertErrorCode(t, checkName("command", name), CodeInvalidName)
	}
	errutil.AssertErrorContext(t, checkName("alias", "Tele"), "kind", "alias")
}

func TestRegistry_RejectsInvalidNames(t *testing.T) {
	reg := NewRegistry()
	errutil.AssertErrorCode(t, reg.Register(CommandEntry{Name: "Bad Name", Handler: noop}), CodeInvalidName)
	errutil.AssertErrorCode(t, reg.Register(CommandEntry{Name: "ok", Aliases: []string{"BAD"}, Handler: noop}), CodeInvalidName)
	assert.Empty(t, reg.All())
}

func TestRegistry_OverwriteDropsOldAliases(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(CommandEntry{Name: "forceload", Aliases: []string{"fl"}, Handler: noop, Source: "core"}))
	require.NoError(t, reg.Register(CommandEntry{Name: "forceload", Handler: noop, Source: "test"}))

	_, ok := reg.Get("fl")
	assert.False(t, ok)
	entry, ok := reg.Get("forceload")
	require.True(t, ok)
	assert.Equal(t, "test", entry.Source)
}

func TestRegistry_AllIsSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"unload", "create", "list"} {
		require.NoError(t, reg.Register(CommandEntry{Name: name, Handler: noop}))
	}

	all := reg.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"create", "list", "unload"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func TestRegistry_NameConflicts(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(CommandEntry{Name: "tp", Aliases: []string{"teleport"}, Handler: noop}))
	require.NoError(t, reg.Register(CommandEntry{Name: "list", Handler: noop}))

	tests := []struct {
		name  string
		entry CommandEntry
	}{
		{"command shadows alias", CommandEntry{Name: "teleport", Handler: noop}},
		{"alias shadows command", CommandEntry{Name: "ls", Aliases: []string{"list"}, Handler: noop}},
		{"alias owned elsewhere", CommandEntry{Name: "warp", Aliases: []string{"teleport"}, Handler: noop}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errutil.AssertErrorCode(t, reg.Register(tt.entry), CodeNameConflict)
		})
	}

	entry, ok := reg.Get("teleport")
	require.True(t, ok)
	assert.Equal(t, "tp", entry.Name)
	require.NoError(t, reg.Register(CommandEntry{Name: "tp", Aliases: []string{"teleport"}, Handler: noop}),
		"re-registering keeps its own alias")
}
