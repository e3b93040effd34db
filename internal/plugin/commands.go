// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"context"

	"github.com/holomush/worldgate/internal/command"
)

// OnCommand runs a /swm invocation. args are the words after the label.
// It returns false when the host should print the command's usage line.
func (p *Plugin) OnCommand(ctx context.Context, sender command.Sender, label string, args []string) bool {
	p.mu.RLock()
	enabled := p.enabled
	dispatcher := p.dispatcher
	services := &command.Services{
		Registry: p.registry,
		State:    p.state,
		Players:  p.host,
	}
	p.mu.RUnlock()

	if !enabled {
		if err := sender.SendMessage(p.manifest.Name + " is not enabled"); err != nil {
			p.logger.WarnContext(ctx, "failed to write command output", "sender", sender.Name(), "error", err)
		}
		return true
	}
	services.Commands = dispatcher.Registry()

	exec := &command.CommandExecution{
		Sender:   sender,
		Label:    label,
		Services: services,
	}
	err := dispatcher.Dispatch(ctx, exec, args)
	if err == nil {
		return true
	}
	if command.IsUsageError(err) {
		return false
	}
	if sendErr := sender.SendMessage(command.PlayerMessage(err)); sendErr != nil {
		p.logger.WarnContext(ctx, "failed to write command output", "sender", sender.Name(), "error", sendErr)
	}
	return true
}
