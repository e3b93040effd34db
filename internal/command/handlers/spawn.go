// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"strconv"

	"github.com/holomush/worldgate/internal/command"
	"github.com/holomush/worldgate/internal/worlds"
)

const (
	spawnUsage         = "spawn override|reset|set ..."
	spawnOverrideUsage = "spawn override enable|disable"
	spawnSetUsage      = "spawn set <world> default|<x> <y> <z> [yaw pitch]"
)

// SpawnHandler manages the global spawn point and its override toggle.
func SpawnHandler(ctx context.Context, exec *command.CommandExecution) error {
	if len(exec.Args) == 0 {
		return usageError(exec, spawnUsage)
	}

	switch exec.Args[0] {
	case "override":
		return spawnOverride(ctx, exec)
	case "reset":
		if exec.Services.Registry.ResetServerSpawn(ctx) != worlds.SpawnSuccess {
			reply(ctx, exec, "World is not loaded")
			return nil
		}
		reply(ctx, exec, "Spawn reset")
		return nil
	case "set":
		return spawnSet(ctx, exec)
	default:
		return usageError(exec, spawnUsage)
	}
}

func spawnOverride(ctx context.Context, exec *command.CommandExecution) error {
	if len(exec.Args) != 2 {
		return usageError(exec, spawnOverrideUsage)
	}

	switch exec.Args[1] {
	case "enable":
		exec.Services.State.SetSpawnOverride(true)
		reply(ctx, exec, "Spawn override enabled")
	case "disable":
		exec.Services.State.SetSpawnOverride(false)
		reply(ctx, exec, "Spawn override disabled")
	default:
		return usageError(exec, spawnOverrideUsage)
	}
	reply(ctx, exec, "Please restart the server for the changes to apply")
	return nil
}

// spawnSet handles `set <world> default`, `set <world> x y z` and
// `set <world> x y z yaw pitch`.
func spawnSet(ctx context.Context, exec *command.CommandExecution) error {
	args := exec.Args
	var opts []worlds.SpawnOption

	switch {
	case len(args) == 3 && args[2] == "default":
	case len(args) == 5 || len(args) == 7:
		coords, err := parseNumbers(args[2:5], []string{"X", "Y", "Z"}, 64)
		if err != nil {
			return err
		}
		opts = append(opts, worlds.AtPosition(coords[0], coords[1], coords[2]))
		if len(args) == 7 {
			rot, err := parseNumbers(args[5:7], []string{"Yaw", "Pitch"}, 32)
			if err != nil {
				return err
			}
			opts = append(opts, worlds.WithRotation(float32(rot[0]), float32(rot[1])))
		}
	default:
		return usageError(exec, spawnSetUsage)
	}

	switch exec.Services.Registry.SetServerSpawn(ctx, args[1], opts...) {
	case worlds.SpawnSuccess:
		reply(ctx, exec, "Spawn was successfully set")
	case worlds.SpawnUnloadedWorld:
		reply(ctx, exec, "World is not loaded")
	case worlds.SpawnNonexistentWorld:
		reply(ctx, exec, "World with that name doesn't exist")
	}
	return nil
}

// parseNumbers parses each value as a float of the given bit size. The
// first failure names its label in the returned input error.
func parseNumbers(values, labels []string, bitSize int) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		n, err := strconv.ParseFloat(v, bitSize)
		if err != nil {
			return nil, command.InputError(labels[i]+" must be a number", err)
		}
		out[i] = n
	}
	return out, nil
}
