// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package commandtest provides a recording command sender for tests.
package commandtest

import (
	"strings"
	"sync"

	"github.com/holomush/worldgate/internal/worlds"
)

// Suggestion is one clickable suggestion sent to a Sender.
type Suggestion struct {
	Prefix  string
	Command string
}

// Sender records messages and grants permissions from an allow list.
// A nil allow list grants everything.
type Sender struct {
	name string

	mu          sync.Mutex
	messages    []string
	suggestions []Suggestion
	allowed     map[string]bool
	sendErr     error
}

// NewSender creates a console-like sender that holds every permission.
func NewSender(name string) *Sender {
	return &Sender{name: name}
}

// Name implements command.Sender.
func (s *Sender) Name() string { return s.name }

// SendMessage implements command.Sender.
func (s *Sender) SendMessage(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.messages = append(s.messages, msg)
	return nil
}

// SendSuggestion implements command.Sender.
func (s *Sender) SendSuggestion(prefix, command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.suggestions = append(s.suggestions, Suggestion{Prefix: prefix, Command: command})
	return nil
}

// HasPermission implements command.Sender.
func (s *Sender) HasPermission(permission string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allowed == nil {
		return true
	}
	return s.allowed[permission]
}

// Allow restricts the sender to the given permissions.
func (s *Sender) Allow(permissions ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowed = make(map[string]bool, len(permissions))
	for _, p := range permissions {
		s.allowed[p] = true
	}
}

// FailSends makes every subsequent send return err.
func (s *Sender) FailSends(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = err
}

// Messages returns a copy of the messages received so far.
func (s *Sender) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

// Last returns the most recent message, or "" when none was sent.
func (s *Sender) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return ""
	}
	return s.messages[len(s.messages)-1]
}

// Transcript joins all messages with newlines.
func (s *Sender) Transcript() string {
	return strings.Join(s.Messages(), "\n")
}

// Suggestions returns a copy of the suggestions received so far.
func (s *Sender) Suggestions() []Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Suggestion(nil), s.suggestions...)
}

// Player is a Sender that is also an in-world actor.
type Player struct {
	*Sender
	actor worlds.Actor
}

// NewPlayer wraps actor so it can issue commands.
func NewPlayer(actor worlds.Actor) *Player {
	return &Player{Sender: NewSender(actor.Name()), actor: actor}
}

// Location implements worlds.Actor.
func (p *Player) Location() worlds.Location { return p.actor.Location() }

// Teleport implements worlds.Actor.
func (p *Player) Teleport(loc worlds.Location) bool { return p.actor.Teleport(loc) }

// Directory is an in-memory command.PlayerDirectory.
type Directory map[string]worlds.Actor

// PlayerExact implements command.PlayerDirectory.
func (d Directory) PlayerExact(name string) (worlds.Actor, bool) {
	a, ok := d[name]
	return a, ok
}
