// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin_test

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/worldgate/internal/plugin"
	"github.com/holomush/worldgate/pkg/errutil"
)

const minimalManifest = `
name: worldgate
version: 1.0.0
main: example.com/worldgate
api-version: "1.20"
commands:
  swm: {}
`

func TestValidateSchema_Accepts(t *testing.T) {
	embedded, err := os.ReadFile("plugin.yaml")
	require.NoError(t, err)

	tests := map[string][]byte{
		"minimal":  []byte(minimalManifest),
		"embedded": embedded,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, plugin.ValidateSchema(data))
		})
	}
}

func TestValidateSchema_Violations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"name too long", strings.Replace(minimalManifest, "name: worldgate",
			"name: a2345678901234567890123456789012345678901234567890123456789012345", 1)},
		{"missing name", strings.Replace(minimalManifest, "name: worldgate\n", "", 1)},
		{"missing version", strings.Replace(minimalManifest, "version: 1.0.0\n", "", 1)},
		{"missing main", strings.Replace(minimalManifest, "main: example.com/worldgate\n", "", 1)},
		{"missing api-version", strings.Replace(minimalManifest, "api-version: \"1.20\"\n", "", 1)},
		{"missing commands", strings.Replace(minimalManifest, "commands:\n  swm: {}\n", "", 1)},
		{"unknown permission default", minimalManifest + "permissions:\n  worldgate.use:\n    default: sometimes\n"},
		{"unknown top-level field", minimalManifest + "type: lua\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := plugin.ValidateSchema([]byte(tt.doc))
			errutil.AssertErrorCode(t, err, "MANIFEST_SCHEMA_VIOLATION")
			assert.NotEmpty(t, plugin.FormatSchemaError(err))
		})
	}
}

func TestValidateSchema_InputErrors(t *testing.T) {
	errutil.AssertErrorCode(t, plugin.ValidateSchema(nil), "MANIFEST_EMPTY")
	errutil.AssertErrorCode(t, plugin.ValidateSchema([]byte{}), "MANIFEST_EMPTY")
	errutil.AssertErrorCode(t, plugin.ValidateSchema([]byte("name: x\ncommands: [invalid")), "MANIFEST_INVALID_YAML")
}

func TestGenerateSchema(t *testing.T) {
	data, err := plugin.GenerateSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, plugin.SchemaID, schema["$id"])
	assert.Equal(t, "worldgate Plugin Manifest", schema["title"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{"name", "version", "main", "api-version", "commands", "permissions"} {
		assert.Contains(t, props, field)
	}
}

func TestResetSchemaCache(t *testing.T) {
	require.NoError(t, plugin.ValidateSchema([]byte(minimalManifest)))
	plugin.ResetSchemaCache()
	assert.NoError(t, plugin.ValidateSchema([]byte(minimalManifest)))
}

func TestFormatSchemaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"plain error", errors.New("disk full"), "disk full"},
		{"schema violation", oops.Errorf("schema validation failed: missing property 'main'"), "missing property 'main'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plugin.FormatSchemaError(tt.err))
		})
	}
}
