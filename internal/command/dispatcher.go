// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/holomush/worldgate/internal/logging"
	"github.com/holomush/worldgate/pkg/errutil"
)

var tracer = otel.Tracer("worldgate/command")

// ErrNilRegistry is returned when a dispatcher is built without a registry.
var ErrNilRegistry = oops.Code("NIL_REGISTRY").Errorf("command registry is nil")

// Dispatcher resolves subcommands, checks permissions, and runs handlers.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	now      func() time.Time
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for failed executions.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a new command dispatcher with the given registry.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	d := &Dispatcher{
		registry: registry,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Registry returns the registry the dispatcher resolves against.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// DispatchLine parses a full command line such as `/swm load "my world"`
// and dispatches everything after the label.
func (d *Dispatcher) DispatchLine(ctx context.Context, exec *CommandExecution, line string) error {
	parsed, err := Parse(line)
	if err != nil {
		return err
	}
	exec.Label = parsed.Name
	return d.Dispatch(ctx, exec, parsed.Args)
}

// Dispatch runs the subcommand named by args[0] with the remaining args.
func (d *Dispatcher) Dispatch(ctx context.Context, exec *CommandExecution, args []string) (err error) {
	if exec.Services == nil {
		return ErrNilServices()
	}
	if len(args) == 0 {
		return ErrInvalidArgs("", exec.Label+" <subcommand>")
	}

	name := strings.ToLower(args[0])
	start := d.now()

	ctx, span := tracer.Start(ctx, "command.execute")
	span.SetAttributes(
		attribute.String("command.name", name),
		attribute.String("command.label", exec.Label),
		attribute.String("command.sender", exec.Sender.Name()),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	entry, ok := d.registry.Get(name)
	if !ok {
		RecordCommandExecution(name, StatusNotFound)
		err = ErrUnknownCommand(name)
		return err
	}
	span.SetAttributes(attribute.String("command.source", entry.Source))

	if entry.Permission != "" && !exec.Sender.HasPermission(entry.Permission) {
		RecordCommandExecution(entry.Name, StatusPermissionDenied)
		err = ErrPermissionDenied(entry.Name, entry.Permission)
		return err
	}

	exec.Name = entry.Name
	exec.Args = args[1:]
	err = entry.Handler(logging.ContextWithAttrs(ctx, "command", entry.Name, "sender", exec.Sender.Name()), exec)
	RecordCommandDuration(entry.Name, d.now().Sub(start))

	switch {
	case err == nil:
		RecordCommandExecution(entry.Name, StatusSuccess)
	case isExpected(err):
		RecordCommandExecution(entry.Name, StatusInvalidArgs)
	default:
		RecordCommandExecution(entry.Name, StatusError)
		errutil.LogErrorContext(ctx, d.logger, slog.LevelWarn, "command execution failed", err,
			"command", entry.Name,
			"sender", exec.Sender.Name(),
		)
	}
	return err
}

// isExpected reports whether err is a user mistake rather than a failure
// worth logging.
func isExpected(err error) bool {
	switch errutil.Code(err) {
	case CodeInvalidArgs, CodeUnknownCommand, CodeInvalidInput, CodePlayerOnly, CodeNoSuchPlayer:
		return true
	default:
		return false
	}
}
