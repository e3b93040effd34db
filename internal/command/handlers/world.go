// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/holomush/worldgate/internal/command"
	"github.com/holomush/worldgate/internal/worlds"
)

const (
	createUsage = "create <name> [seed|environment] [seed environment]"
	loadUsage   = "load <world>"
	unloadUsage = "unload <world>"
	cloneUsage  = "clone <source> <destination>"
	removeUsage = "remove <world> [confirm]"
	importUsage = "import <world>"
)

// CreateHandler registers and generates a new world.
// A single option is a numeric seed or an environment name.
func CreateHandler(ctx context.Context, exec *command.CommandExecution) error {
	args := exec.Args
	var opts []worlds.CreateOption

	switch len(args) {
	case 1:
	case 2:
		seed, seedErr := strconv.ParseInt(args[1], 10, 64)
		if seedErr == nil {
			opts = append(opts, worlds.WithSeed(seed))
			break
		}
		env, envErr := worlds.ParseEnvironment(args[1])
		if envErr != nil {
			return command.InputError("Seeds can only be numeric", seedErr)
		}
		opts = append(opts, worlds.WithEnvironment(env))
	case 3:
		seed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return command.InputError("Seeds can only be numeric", err)
		}
		env, err := worlds.ParseEnvironment(args[2])
		if err != nil {
			return command.InputError("Generator with this name doesn't exist", err)
		}
		opts = append(opts, worlds.WithSeed(seed), worlds.WithEnvironment(env))
	default:
		return usageError(exec, createUsage)
	}

	reply(ctx, exec, "Creating world")
	switch exec.Services.Registry.CreateWorld(ctx, args[0], opts...) {
	case worlds.CreateSuccess:
		reply(ctx, exec, "World created")
	case worlds.CreateWorldExists:
		reply(ctx, exec, "A world with that name already exists")
	case worlds.CreateFileExists:
		reply(ctx, exec, "A folder with that name already exists")
	default:
		reply(ctx, exec, "An unknown error occurred while creating the world")
	}
	return nil
}

// LoadHandler loads a registered world.
func LoadHandler(ctx context.Context, exec *command.CommandExecution) error {
	if len(exec.Args) != 1 {
		return usageError(exec, loadUsage)
	}

	reply(ctx, exec, "Loading world")
	switch exec.Services.Registry.LoadWorld(ctx, exec.Args[0]) {
	case worlds.LoadSuccess:
		reply(ctx, exec, "World loaded")
	case worlds.LoadNonexistentWorld:
		reply(ctx, exec, "A world with that name doesn't exist")
	default:
		reply(ctx, exec, "An error occurred while loading the world")
	}
	return nil
}

// UnloadHandler saves and unloads a world.
func UnloadHandler(ctx context.Context, exec *command.CommandExecution) error {
	if len(exec.Args) != 1 {
		return usageError(exec, unloadUsage)
	}

	reply(ctx, exec, "Unloading world")
	if exec.Services.Registry.UnloadWorld(ctx, exec.Args[0]) {
		reply(ctx, exec, "World unloaded")
	} else {
		reply(ctx, exec, "An error occurred while unloading world")
	}
	return nil
}

// CloneHandler copies a registered world under a new name.
func CloneHandler(ctx context.Context, exec *command.CommandExecution) error {
	if len(exec.Args) != 2 {
		return usageError(exec, cloneUsage)
	}

	reply(ctx, exec, "Cloning world")
	switch exec.Services.Registry.CloneWorld(ctx, exec.Args[0], exec.Args[1]) {
	case worlds.CloneSuccess:
		reply(ctx, exec, "Cloning finished")
	case worlds.CloneNonexistentWorld:
		reply(ctx, exec, "Source world does not exist")
	case worlds.CloneWorldExists:
		reply(ctx, exec, "Destination world already exists")
	case worlds.CloneDirectoryExists:
		reply(ctx, exec, "Destination directory already exists")
	default:
		reply(ctx, exec, "Error occurred while copying world folder")
	}
	return nil
}

// RemoveHandler deletes a world. The first call only warns and suggests
// the confirming command line.
func RemoveHandler(ctx context.Context, exec *command.CommandExecution) error {
	args := exec.Args
	switch {
	case len(args) == 1:
		replyf(ctx, exec, "This will delete all data for the world %q", args[0])
		reply(ctx, exec, "You will lose all access to this world and it's contents.")
		suggest(ctx, exec, "To confirm run: ",
			fmt.Sprintf("/%s remove %s confirm", exec.Label, worlds.Sanitize(args[0])))
		return nil
	case len(args) == 2 && args[1] == "confirm":
	default:
		return usageError(exec, removeUsage)
	}

	reply(ctx, exec, "Removing world")
	switch exec.Services.Registry.RemoveWorld(ctx, args[0]) {
	case worlds.RemoveSuccess:
		reply(ctx, exec, "World removed")
	case worlds.RemoveNonexistentWorld:
		reply(ctx, exec, "A world with that name doesn't exist")
	default:
		reply(ctx, exec, "An error occurred while removing the world")
	}
	return nil
}

// ImportHandler registers a world folder that already exists in the container.
func ImportHandler(ctx context.Context, exec *command.CommandExecution) error {
	if len(exec.Args) != 1 {
		return usageError(exec, importUsage)
	}

	reply(ctx, exec, "Importing world")
	reply(ctx, exec, "NOTE: This is experimental and may break stuff")
	switch exec.Services.Registry.ImportWorld(ctx, exec.Args[0]) {
	case worlds.ImportSuccess:
		reply(ctx, exec, "World imported")
	case worlds.ImportAlreadyImported:
		reply(ctx, exec, "The specified world is already imported")
	case worlds.ImportIsFile:
		reply(ctx, exec, "The specified world is a file")
	case worlds.ImportNonexistentFolder:
		reply(ctx, exec, "The specified world folder doesn't exist")
	default:
		reply(ctx, exec, "An error occurred while importing")
	}
	return nil
}
