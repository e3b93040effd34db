// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/holomush/worldgate/internal/command"
)

const (
	listUsage = "list [pattern]"
	infoUsage = "info <world>"
	helpUsage = "help [subcommand]"
)

// ListHandler lists registered worlds, optionally filtered by a glob
// matched against the id and the display name.
func ListHandler(ctx context.Context, exec *command.CommandExecution) error {
	var pattern glob.Glob
	switch len(exec.Args) {
	case 0:
	case 1:
		g, err := glob.Compile(exec.Args[0])
		if err != nil {
			return command.InputError("Invalid pattern", err)
		}
		pattern = g
	default:
		return usageError(exec, listUsage)
	}

	registry := exec.Services.Registry
	var lines []string
	for _, cfg := range registry.Worlds() {
		if pattern != nil && !pattern.Match(cfg.ID) && !pattern.Match(cfg.DisplayName) {
			continue
		}
		state := "unloaded"
		if registry.CheckWorldLoaded(cfg.ID) {
			state = "loaded"
		}
		lines = append(lines, "- "+cfg.ID+" ["+cfg.Environment.String()+"] "+state)
	}

	if len(lines) == 0 {
		reply(ctx, exec, "No worlds found")
		return nil
	}
	replyf(ctx, exec, "Worlds (%d):", len(lines))
	for _, line := range lines {
		reply(ctx, exec, line)
	}
	return nil
}

// InfoHandler shows the recorded configuration of one world.
func InfoHandler(ctx context.Context, exec *command.CommandExecution) error {
	if len(exec.Args) != 1 {
		return usageError(exec, infoUsage)
	}

	registry := exec.Services.Registry
	cfg, ok := registry.World(exec.Args[0])
	if !ok {
		reply(ctx, exec, "A world with that name doesn't exist")
		return nil
	}

	replyf(ctx, exec, "World: %s", cfg.ID)
	replyf(ctx, exec, "Name: %s", cfg.DisplayName)
	replyf(ctx, exec, "Environment: %s", cfg.Environment)
	replyf(ctx, exec, "Seed: %d", cfg.Seed)
	replyf(ctx, exec, "Nether portal: %s", cfg.PortalNether)
	replyf(ctx, exec, "End portal: %s", cfg.PortalEnd)
	replyf(ctx, exec, "Loaded: %s", yesNo(registry.CheckWorldLoaded(cfg.ID)))
	replyf(ctx, exec, "Force-load: %s", yesNo(slices.Contains(exec.Services.State.ForceLoad(), cfg.ID)))
	return nil
}

// HelpHandler lists subcommands the sender may run, or shows the detailed
// help of one subcommand.
func HelpHandler(ctx context.Context, exec *command.CommandExecution) error {
	commands := exec.Services.Commands
	if commands == nil {
		return command.ErrNilServices()
	}

	switch len(exec.Args) {
	case 0:
		for _, entry := range commands.All() {
			if entry.Permission != "" && !exec.Sender.HasPermission(entry.Permission) {
				continue
			}
			replyf(ctx, exec, "/%s %s - %s", exec.Label, entry.Usage, entry.Help)
		}
	case 1:
		entry, ok := commands.Get(strings.ToLower(exec.Args[0]))
		if !ok {
			return command.InputError("Unknown subcommand", nil)
		}
		if entry.HelpText == "" {
			replyf(ctx, exec, "/%s %s - %s", exec.Label, entry.Usage, entry.Help)
			return nil
		}
		for _, line := range strings.Split(entry.HelpText, "\n") {
			reply(ctx, exec, line)
		}
	default:
		return usageError(exec, helpUsage)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
