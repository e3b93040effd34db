// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"

	"github.com/holomush/worldgate/internal/command"
	"github.com/holomush/worldgate/internal/worlds"
)

const forceLoadUsage = "forceload add|remove <world>"

// ForceLoadHandler edits the list of worlds loaded at every enable.
func ForceLoadHandler(ctx context.Context, exec *command.CommandExecution) error {
	if len(exec.Args) != 2 {
		return usageError(exec, forceLoadUsage)
	}
	registry := exec.Services.Registry

	switch exec.Args[0] {
	case "add":
		reply(ctx, exec, "Adding world to the forceload list")
		switch registry.AddForceLoad(ctx, exec.Args[1]) {
		case worlds.ForceLoadNonexistentWorld:
			reply(ctx, exec, "World with that name doesn't exist")
		case worlds.ForceLoadAlreadyListed:
			reply(ctx, exec, "World already in the forceload list")
		default:
			reply(ctx, exec, "World added")
		}
	case "remove", "rem":
		reply(ctx, exec, "Removing world from forceload list")
		if registry.RemoveForceLoad(ctx, exec.Args[1]) == worlds.ForceLoadNotListed {
			reply(ctx, exec, "World not in the forceload list")
		} else {
			reply(ctx, exec, "World removed")
		}
	default:
		return usageError(exec, forceLoadUsage)
	}
	return nil
}
