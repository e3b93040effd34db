// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package command provides the subcommand registry, parser, and dispatch
// system behind the /swm command.
package command

import (
	"context"

	"github.com/holomush/worldgate/internal/worlds"
)

// CommandHandler is the function signature for subcommand handlers.
//
//nolint:revive // CommandHandler reads better at call sites than command.Handler
type CommandHandler func(ctx context.Context, exec *CommandExecution) error

// CommandEntry represents a registered subcommand.
//
//nolint:revive // see CommandHandler
type CommandEntry struct {
	Name       string         // canonical name (e.g., "create")
	Aliases    []string       // alternative names (e.g., "teleport" for "tp")
	Handler    CommandHandler // Go handler
	Permission string         // required permission node, empty for none
	Help       string         // short description (one line)
	Usage      string         // usage pattern without the label (e.g., "load <world>")
	HelpText   string         // detailed markdown help
	Source     string         // "core" or the registering component
}

// Sender is whoever issued a command: a player or the console.
type Sender interface {
	Name() string
	SendMessage(msg string) error
	// SendSuggestion sends prefix followed by a clickable command that,
	// when clicked, is placed into the sender's input line.
	SendSuggestion(prefix, command string) error
	HasPermission(permission string) bool
}

// PlayerDirectory finds online players by exact name.
type PlayerDirectory interface {
	PlayerExact(name string) (worlds.Actor, bool)
}

// CommandExecution provides context for command execution.
//
//nolint:revive // see CommandHandler
type CommandExecution struct {
	Sender   Sender
	Label    string   // label the host invoked, e.g. "swm"
	Name     string   // resolved subcommand name, set by the dispatcher
	Args     []string // arguments after the subcommand, set by the dispatcher
	Services *Services
}

// Actor returns the sender as an in-world actor when it is one.
func (e *CommandExecution) Actor() (worlds.Actor, bool) {
	a, ok := e.Sender.(worlds.Actor)
	return a, ok
}

// Services provides access to plugin services for command handlers.
// Handlers MUST NOT store references to services beyond execution.
type Services struct {
	Registry *worlds.Registry // world lifecycle operations
	State    *worlds.State    // toggles and spawn
	Players  PlayerDirectory  // online player lookup
	Commands *Registry        // registered subcommands, for help
}
