// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"

	"github.com/holomush/worldgate/internal/command"
	"github.com/holomush/worldgate/internal/worlds"
)

const (
	teleportUsage = "tp [player] <world>"
	linkingUsage  = "linking enable|disable"
	linkUsage     = "link <source> <destination> nether|end"
)

// TeleportHandler moves the sender, or a named player, to a world's spawn.
func TeleportHandler(ctx context.Context, exec *command.CommandExecution) error {
	var (
		actor  worlds.Actor
		target string
	)

	switch len(exec.Args) {
	case 1:
		self, ok := exec.Actor()
		if !ok {
			return command.ErrPlayerOnly(exec.Name)
		}
		actor, target = self, exec.Args[0]
	case 2:
		if exec.Services.Players == nil {
			return command.ErrNoSuchPlayer(exec.Args[0])
		}
		player, ok := exec.Services.Players.PlayerExact(exec.Args[0])
		if !ok {
			return command.ErrNoSuchPlayer(exec.Args[0])
		}
		actor, target = player, exec.Args[1]
	default:
		return usageError(exec, teleportUsage)
	}

	switch exec.Services.Registry.TeleportPlayerIntoWorld(ctx, actor, target) {
	case worlds.TeleportUnloadedWorld:
		reply(ctx, exec, "Destination world isn't loaded")
	case worlds.TeleportNonexistentWorld:
		reply(ctx, exec, "Destination world doesn't exist")
	case worlds.TeleportSuccess:
	}
	return nil
}

// LinkingHandler toggles portal redirection. The change applies after a restart.
func LinkingHandler(ctx context.Context, exec *command.CommandExecution) error {
	if len(exec.Args) != 1 {
		return usageError(exec, linkingUsage)
	}

	switch exec.Args[0] {
	case "enable":
		exec.Services.State.SetPortalLinking(true)
		reply(ctx, exec, "Portal linking enabled")
	case "disable":
		exec.Services.State.SetPortalLinking(false)
		reply(ctx, exec, "Portal linking disabled")
	default:
		return usageError(exec, linkingUsage)
	}
	reply(ctx, exec, "Please restart the server for the changes to apply")
	return nil
}

// LinkHandler points one portal kind of a world at another world.
func LinkHandler(ctx context.Context, exec *command.CommandExecution) error {
	if len(exec.Args) != 3 {
		return usageError(exec, linkUsage)
	}

	reply(ctx, exec, "Linking worlds")
	portal, ok := worlds.ParsePortalType(exec.Args[2])
	if !ok {
		reply(ctx, exec, "Nonexistent link type")
		return nil
	}

	switch exec.Services.Registry.LinkWorlds(ctx, exec.Args[0], exec.Args[1], portal) {
	case worlds.LinkSuccess:
		reply(ctx, exec, "Worlds linked")
	case worlds.LinkNonexistentSource:
		reply(ctx, exec, "Source world does not exist")
	case worlds.LinkNonexistentDestination:
		reply(ctx, exec, "Destination world does not exist")
	}
	return nil
}
