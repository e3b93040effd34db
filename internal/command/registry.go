// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"cmp"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"sync"

	"github.com/samber/oops"
)

// MaxNameLength bounds subcommand names and aliases.
const MaxNameLength = 20

// Subcommand names and aliases are typed after "/swm", so they are kept to
// lowercase words that need no quoting.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// checkName reports why name cannot be used as a subcommand name or alias.
func checkName(kind, name string) error {
	switch {
	case name == "":
		return oops.Code(CodeInvalidName).With("kind", kind).
			Errorf("%s name cannot be empty", kind)
	case len(name) > MaxNameLength:
		return oops.Code(CodeInvalidName).With("kind", kind).With("name", name).With("max", MaxNameLength).
			Errorf("%s name %q is longer than %d characters", kind, name, MaxNameLength)
	case !namePattern.MatchString(name):
		return oops.Code(CodeInvalidName).With("kind", kind).With("name", name).
			Errorf("%s name %q must be a lowercase word (letters, digits and -)", kind, name)
	}
	return nil
}

// Registry maps subcommand names and aliases onto entries. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]CommandEntry
	aliases  map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandEntry),
		aliases:  make(map[string]string),
	}
}

// Register adds entry. Re-registering a name replaces the previous entry
// and its aliases; an alias may not shadow another command's name or alias.
func (r *Registry) Register(entry CommandEntry) error {
	if err := checkName("command", entry.Name); err != nil {
		return err
	}
	for _, alias := range entry.Aliases {
		if err := checkName("alias", alias); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.aliases[entry.Name]; ok && owner != entry.Name {
		return oops.Code(CodeNameConflict).With("name", entry.Name).With("owner", owner).
			Errorf("command %q is already an alias of %q", entry.Name, owner)
	}
	for _, alias := range entry.Aliases {
		if _, taken := r.commands[alias]; taken && alias != entry.Name {
			return oops.Code(CodeNameConflict).With("name", alias).
				Errorf("alias %q is already a command", alias)
		}
		if owner, ok := r.aliases[alias]; ok && owner != entry.Name {
			return oops.Code(CodeNameConflict).With("name", alias).With("owner", owner).
				Errorf("alias %q already belongs to %q", alias, owner)
		}
	}

	if existing, ok := r.commands[entry.Name]; ok {
		slog.Warn("replacing subcommand",
			"command", entry.Name,
			"previous_source", existing.Source,
			"source", entry.Source)
		for _, alias := range existing.Aliases {
			delete(r.aliases, alias)
		}
	}

	r.commands[entry.Name] = entry
	for _, alias := range entry.Aliases {
		r.aliases[alias] = entry.Name
	}
	return nil
}

// Get resolves name, which may be an alias.
func (r *Registry) Get(name string) (CommandEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	entry, ok := r.commands[name]
	return entry, ok
}

// All returns a copy of every entry, sorted by name.
func (r *Registry) All() []CommandEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.SortedFunc(maps.Values(r.commands), func(a, b CommandEntry) int {
		return cmp.Compare(a.Name, b.Name)
	})
}
