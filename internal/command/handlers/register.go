// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package handlers implements the /swm subcommands.
package handlers

import (
	"github.com/holomush/worldgate/internal/command"
)

// PermissionPrefix prefixes every subcommand permission node.
const PermissionPrefix = "worldgate."

// RegisterAll registers all core subcommand handlers with the registry.
// Panics if any registration fails (indicates a programming error).
func RegisterAll(reg *command.Registry) {
	mustRegister := func(entry command.CommandEntry) {
		if entry.Permission == "" && entry.Name != "help" {
			entry.Permission = PermissionPrefix + entry.Name
		}
		entry.Source = "core"
		if err := reg.Register(entry); err != nil {
			panic("failed to register core command " + entry.Name + ": " + err.Error())
		}
	}

	// World lifecycle
	mustRegister(command.CommandEntry{
		Name:    "create",
		Handler: CreateHandler,
		Help:    "Create and generate a new world",
		Usage:   createUsage,
		HelpText: `## Create

Register a new world and generate it.

### Usage

- ` + "`create <name>`" + ` - Random seed, NORMAL environment
- ` + "`create <name> <seed>`" + ` - Numeric seed
- ` + "`create <name> <environment>`" + ` - NORMAL, NETHER or THE_END
- ` + "`create <name> <seed> <environment>`" + `

The world id is the name with every character outside letters, digits and underscore removed.`,
	})

	mustRegister(command.CommandEntry{
		Name:    "load",
		Handler: LoadHandler,
		Help:    "Load a registered world",
		Usage:   loadUsage,
	})

	mustRegister(command.CommandEntry{
		Name:    "unload",
		Handler: UnloadHandler,
		Help:    "Save and unload a world",
		Usage:   unloadUsage,
	})

	mustRegister(command.CommandEntry{
		Name:    "clone",
		Handler: CloneHandler,
		Help:    "Copy a world under a new name",
		Usage:   cloneUsage,
		HelpText: `## Clone

Copy the folder of a registered world and register the copy with the same
environment, seed and portal links. The source is saved first.

### Examples

- ` + "`clone lobby lobby_backup`",
	})

	mustRegister(command.CommandEntry{
		Name:    "remove",
		Handler: RemoveHandler,
		Help:    "Delete a world and all of its data",
		Usage:   removeUsage,
		HelpText: `## Remove

Unload a world, delete its folder and forget its configuration.
Run once to see the warning, then again with ` + "`confirm`" + `.`,
	})

	mustRegister(command.CommandEntry{
		Name:    "import",
		Handler: ImportHandler,
		Help:    "Register an existing world folder",
		Usage:   importUsage,
	})

	// Travel and portals
	mustRegister(command.CommandEntry{
		Name:    "tp",
		Aliases: []string{"teleport"},
		Handler: TeleportHandler,
		Help:    "Teleport to a world's spawn",
		Usage:   teleportUsage,
		HelpText: `## Teleport

Move yourself, or a named online player, to the spawn of a loaded world.

### Usage

- ` + "`tp <world>`" + ` - Players only
- ` + "`tp <player> <world>`",
	})

	mustRegister(command.CommandEntry{
		Name:    "linking",
		Handler: LinkingHandler,
		Help:    "Enable or disable portal linking",
		Usage:   linkingUsage,
	})

	mustRegister(command.CommandEntry{
		Name:    "link",
		Handler: LinkHandler,
		Help:    "Point a world's portal at another world",
		Usage:   linkUsage,
		HelpText: `## Link

Set where nether or end portals in the source world lead.

### Examples

- ` + "`link skyblock skyblock_nether nether`" + `
- ` + "`link skyblock skyblock_end end`",
	})

	// Spawn and startup
	mustRegister(command.CommandEntry{
		Name:    "forceload",
		Handler: ForceLoadHandler,
		Help:    "Load a world at every start",
		Usage:   forceLoadUsage,
	})

	mustRegister(command.CommandEntry{
		Name:    "spawn",
		Handler: SpawnHandler,
		Help:    "Manage the global spawn point",
		Usage:   spawnUsage,
		HelpText: `## Spawn

### Usage

- ` + "`spawn override enable|disable`" + ` - Send joining players to the global spawn
- ` + "`spawn reset`" + ` - Use the default world's spawn
- ` + "`spawn set <world> default`" + ` - Use that world's spawn
- ` + "`spawn set <world> <x> <y> <z> [yaw pitch]`" + ` - Explicit position`,
	})

	// Queries
	mustRegister(command.CommandEntry{
		Name:    "list",
		Handler: ListHandler,
		Help:    "List registered worlds",
		Usage:   listUsage,
		HelpText: `## List

List registered worlds and whether they are loaded.

### Examples

- ` + "`list`" + `
- ` + "`list sky*`" + ` - Only worlds whose id or name matches the pattern`,
	})

	mustRegister(command.CommandEntry{
		Name:    "info",
		Handler: InfoHandler,
		Help:    "Show a world's configuration",
		Usage:   infoUsage,
	})

	mustRegister(command.CommandEntry{
		Name:    "help",
		Handler: HelpHandler,
		Help:    "Show available subcommands",
		Usage:   helpUsage,
	})
}
