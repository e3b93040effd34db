// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"github.com/samber/oops"
)

// Error codes for command dispatch failures.
const (
	CodeUnknownCommand   = "UNKNOWN_COMMAND"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeInvalidArgs      = "INVALID_ARGS"
	CodeInvalidInput     = "INVALID_INPUT"
	CodePlayerOnly       = "PLAYER_ONLY"
	CodeNoSuchPlayer     = "NO_SUCH_PLAYER"
	CodeNilServices      = "NIL_SERVICES"
	CodeInvalidName      = "INVALID_NAME"
	CodeNameConflict     = "NAME_CONFLICT"
	CodeParseFailed      = "PARSE_FAILED"
)

// ErrUnknownCommand creates an error for an unknown subcommand.
func ErrUnknownCommand(cmd string) error {
	return oops.Code(CodeUnknownCommand).
		With("command", cmd).
		Errorf("unknown command: %s", cmd)
}

// ErrPermissionDenied creates an error for permission denial.
func ErrPermissionDenied(cmd, permission string) error {
	return oops.Code(CodePermissionDenied).
		With("command", cmd).
		With("permission", permission).
		Errorf("permission denied for command %s", cmd)
}

// ErrInvalidArgs creates an error for invalid arguments. The host shows
// the usage line in response.
func ErrInvalidArgs(cmd, usage string) error {
	return oops.Code(CodeInvalidArgs).
		With("command", cmd).
		With("usage", usage).
		Errorf("invalid arguments")
}

// InputError creates an error for malformed input with a player-facing
// message. The cause is recorded as text only, so a coded cause cannot
// replace CodeInvalidInput in the chain.
func InputError(message string, cause error) error {
	builder := oops.Code(CodeInvalidInput).With("message", message)
	if cause != nil {
		builder = builder.With("cause", cause.Error())
	}
	return builder.Errorf("%s", message)
}

// ErrPlayerOnly creates an error for a player-only command run from the console.
func ErrPlayerOnly(cmd string) error {
	return oops.Code(CodePlayerOnly).
		With("command", cmd).
		Errorf("command %s requires a player", cmd)
}

// ErrNoSuchPlayer creates an error when a named player is not online.
func ErrNoSuchPlayer(name string) error {
	return oops.Code(CodeNoSuchPlayer).
		With("player", name).
		Errorf("player %q is not online", name)
}

// ErrNilServices creates an error when an execution has no services.
func ErrNilServices() error {
	return oops.Code(CodeNilServices).
		Errorf("command execution has no services")
}

// IsUsageError reports whether err means the command line itself was
// wrong and the host should print usage instead of a message.
func IsUsageError(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	switch oopsErr.Code() {
	case CodeInvalidArgs, CodeUnknownCommand:
		return true
	default:
		return false
	}
}

// PlayerMessage extracts a player-facing message from an error.
func PlayerMessage(err error) string {
	if err == nil {
		return "An unknown error occurred"
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "An unknown error occurred"
	}

	switch oopsErr.Code() {
	case CodeUnknownCommand:
		return "Unknown subcommand"
	case CodePermissionDenied:
		return "You don't have permission to do that"
	case CodeInvalidArgs:
		if usage, ok := oopsErr.Context()["usage"].(string); ok && usage != "" {
			return "Usage: " + usage
		}
		return "Invalid usage"
	case CodeInvalidInput:
		if msg, ok := oopsErr.Context()["message"].(string); ok {
			return msg
		}
		return "Invalid usage"
	case CodePlayerOnly:
		return "This command can be run only as a player"
	case CodeNoSuchPlayer:
		return "Specified player doesn't exist"
	default:
		return "An unknown error occurred"
	}
}
