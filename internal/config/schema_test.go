// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/holomush/worldgate/pkg/errutil"
)

func decodeYAML(t *testing.T, src string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return doc
}

func TestSchema_IsValidJSON(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, SchemaID, parsed["$id"])
	assert.Contains(t, string(data), "config-version")
	assert.Contains(t, string(data), "portal-nether")
}

func TestValidate_DefaultConfig(t *testing.T) {
	assert.NoError(t, Validate(decodeYAML(t, string(DefaultConfig()))))
}

func TestValidate_PopulatedConfig(t *testing.T) {
	doc := decodeYAML(t, `
config-version: 2
enable-portal-linking: true
override-spawn: false
global-spawn:
  world: lobby
  xyz: [0.5, 64, 0.5, 90, 0]
world-names: [lobby]
force-load: [lobby]
worlds:
  lobby:
    name: Lobby
    type: NETHER
    seed: -42
    portal-nether: world_nether
    portal-end: world_the_end
`)
	assert.NoError(t, Validate(doc))
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing version", "world-names: []\n"},
		{"seed not a number", "config-version: 2\nworlds: {a: {seed: abc}}\n"},
		{"unknown environment", "config-version: 2\nworlds: {a: {seed: 1, type: PLAID}}\n"},
		{"world names not a list", "config-version: 2\nworld-names: lobby\n"},
		{"spawn pose wrong type", "config-version: 2\nglobal-spawn: {world: w, xyz: 5}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(decodeYAML(t, tt.doc))
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
		})
	}
}
