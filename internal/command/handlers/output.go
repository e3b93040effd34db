// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/holomush/worldgate/internal/command"
	"github.com/holomush/worldgate/internal/observability"
)

// logOutputError logs a send failure at warn level with structured context
// and increments the command output failure metric.
// A sender that has gone away must not fail the command.
func logOutputError(ctx context.Context, cmd, sender string, err error) {
	slog.WarnContext(ctx, "failed to write command output",
		"command", cmd,
		"sender", sender,
		"error", err,
	)
	observability.RecordCommandOutputFailure(cmd)
}

// reply sends a message to the command sender and logs any errors.
func reply(ctx context.Context, exec *command.CommandExecution, msg string) {
	if err := exec.Sender.SendMessage(msg); err != nil {
		logOutputError(ctx, exec.Name, exec.Sender.Name(), err)
	}
}

// replyf sends a formatted message to the command sender and logs any errors.
func replyf(ctx context.Context, exec *command.CommandExecution, format string, args ...any) {
	reply(ctx, exec, fmt.Sprintf(format, args...))
}

// suggest sends prefix followed by a clickable command line.
func suggest(ctx context.Context, exec *command.CommandExecution, prefix, line string) {
	if err := exec.Sender.SendSuggestion(prefix, line); err != nil {
		logOutputError(ctx, exec.Name, exec.Sender.Name(), err)
	}
}

// usageError returns the invalid-arguments error for the executing
// subcommand, with pattern rendered under the invoked label.
func usageError(exec *command.CommandExecution, pattern string) error {
	return command.ErrInvalidArgs(exec.Name, "/"+exec.Label+" "+pattern)
}
