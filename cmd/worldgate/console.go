// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/worldgate/internal/command"
	"github.com/holomush/worldgate/internal/engine/localfs"
	"github.com/holomush/worldgate/internal/plugin"
	"github.com/holomush/worldgate/internal/worlds"
	"github.com/holomush/worldgate/pkg/errutil"
)

// consoleName is the sender name used for console input.
const consoleName = "CONSOLE"

// consoleHost is a plugin host with a directory-backed engine and no
// connected players.
type consoleHost struct {
	engine     *localfs.Engine
	dataFolder string
	apiVersion string
}

func (h *consoleHost) Engine() worlds.Engine { return h.engine }
func (h *consoleHost) DataFolder() string    { return h.dataFolder }
func (h *consoleHost) APIVersion() string    { return h.apiVersion }

func (h *consoleHost) PlayerExact(string) (worlds.Actor, bool) {
	return nil, false
}

// consoleSender writes command output to the operator's terminal. The
// console holds every permission.
type consoleSender struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *consoleSender) Name() string { return consoleName }

func (s *consoleSender) HasPermission(string) bool { return true }

func (s *consoleSender) SendMessage(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.out, msg); err != nil {
		return oops.Code("CONSOLE_WRITE_FAILED").Wrap(err)
	}
	return nil
}

func (s *consoleSender) SendSuggestion(prefix, line string) error {
	return s.SendMessage(prefix + line)
}

// console reads command lines and routes the plugin's labels to it.
type console struct {
	plugin *plugin.Plugin
	sender *consoleSender
}

// run processes lines until in is exhausted, a stop line is read, or ctx is
// cancelled. It reports whether the operator asked to stop.
func (c *console) run(ctx context.Context, in io.Reader) (bool, error) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return false, nil
		}
		if stop := c.handle(ctx, scanner.Text()); stop {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, oops.Code("CONSOLE_READ_FAILED").Wrap(err)
	}
	return false, nil
}

func (c *console) handle(ctx context.Context, line string) bool {
	parsed, err := command.Parse(line)
	if err != nil {
		if errutil.Code(err) == "EMPTY_INPUT" {
			return false
		}
		c.print("Invalid input: " + err.Error())
		return false
	}

	label := strings.ToLower(parsed.Name)
	switch label {
	case "stop", "exit", "quit":
		return true
	}

	cmd, ok := lookupCommand(c.plugin.Manifest(), label)
	if !ok {
		c.print(`Unknown command. Type "swm help" for help.`)
		return false
	}
	if !c.plugin.OnCommand(ctx, c.sender, label, parsed.Args) {
		c.print("Usage: " + strings.ReplaceAll(cmd.Usage, "<command>", label))
	}
	return false
}

func (c *console) print(msg string) {
	//nolint:errcheck // nothing left to report a console write failure to
	_ = c.sender.SendMessage(msg)
}

// lookupCommand finds the manifest command declared under label or one of
// its aliases.
func lookupCommand(m *plugin.Manifest, label string) (plugin.Command, bool) {
	if cmd, ok := m.Commands[label]; ok {
		return cmd, true
	}
	for _, cmd := range m.Commands {
		for _, alias := range cmd.Aliases {
			if alias == label {
				return cmd, true
			}
		}
	}
	return plugin.Command{}, false
}
