// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	_ "embed"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

//go:embed plugin.yaml
var embeddedManifest []byte

// Manifest represents a plugin.yaml file.
type Manifest struct {
	Name        string                `yaml:"name" json:"name" jsonschema:"pattern=^[a-z]([a-z0-9-]*[a-z0-9])?$,maxLength=64"`
	Version     string                `yaml:"version" json:"version"`
	Main        string                `yaml:"main" json:"main"`
	APIVersion  string                `yaml:"api-version" json:"api-version"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Authors     []string              `yaml:"authors,omitempty" json:"authors,omitempty"`
	Commands    map[string]Command    `yaml:"commands" json:"commands"`
	Permissions map[string]Permission `yaml:"permissions,omitempty" json:"permissions,omitempty"`
}

// Command declares a top-level command the host routes to the plugin.
type Command struct {
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Usage       string   `yaml:"usage,omitempty" json:"usage,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Permission  string   `yaml:"permission,omitempty" json:"permission,omitempty"`
}

// Permission declares a permission node and who holds it by default.
type Permission struct {
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Default     string          `yaml:"default,omitempty" json:"default,omitempty" jsonschema:"enum=op,enum=not op,enum=true,enum=false"`
	Children    map[string]bool `yaml:"children,omitempty" json:"children,omitempty"`
}

// maxNameLength is the maximum allowed length for plugin names.
const maxNameLength = 64

// namePattern validates plugin names: must start with lowercase letter,
// followed by lowercase letters, digits, or hyphens.
// Cannot end with a hyphen. Single character names are allowed.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// DefaultManifest returns the manifest compiled into the binary.
func DefaultManifest() *Manifest {
	m, err := ParseManifest(embeddedManifest)
	if err != nil {
		panic("embedded plugin.yaml is invalid: " + err.Error())
	}
	return m
}

// ParseManifest parses and validates a plugin.yaml file.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, oops.Code("MANIFEST_EMPTY").Errorf("manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, oops.Code("MANIFEST_INVALID_YAML").Wrap(err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks manifest constraints.
func (m *Manifest) Validate() error {
	invalid := oops.Code("MANIFEST_INVALID").With("plugin", m.Name)

	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return invalid.Errorf("name %q must start with a-z, contain only a-z, 0-9, hyphens, and not end with a hyphen", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return invalid.Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if _, err := semver.StrictNewVersion(m.Version); err != nil {
		return invalid.With("version", m.Version).Wrapf(err, "version must be strict semver")
	}
	if _, err := semver.NewVersion(m.APIVersion); err != nil {
		return invalid.With("api_version", m.APIVersion).Wrapf(err, "api-version is not a version")
	}
	if m.Main == "" {
		return invalid.Errorf("main is required")
	}

	if len(m.Commands) == 0 {
		return invalid.Errorf("at least one command is required")
	}
	for name := range m.Commands {
		if !namePattern.MatchString(name) {
			return invalid.With("command", name).Errorf("command name %q is invalid", name)
		}
	}

	return nil
}

// CheckHost reports an error when the host API is older than the one the
// plugin was built against.
func (m *Manifest) CheckHost(hostAPI string) error {
	host, err := semver.NewVersion(hostAPI)
	if err != nil {
		return oops.Code("API_VERSION_INVALID").With("host_api", hostAPI).Wrap(err)
	}
	constraint, err := semver.NewConstraint(">= " + m.APIVersion)
	if err != nil {
		return oops.Code("API_VERSION_INVALID").With("api_version", m.APIVersion).Wrap(err)
	}
	if !constraint.Check(host) {
		return oops.Code("API_VERSION_MISMATCH").
			With("host_api", hostAPI).
			With("api_version", m.APIVersion).
			Errorf("host API %s is older than required %s", hostAPI, m.APIVersion)
	}
	return nil
}
