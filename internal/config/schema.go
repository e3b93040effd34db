// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaID is the identifier of the generated config schema.
const SchemaID = "https://holomush.dev/schemas/worldgate-config.schema.json"

// Document describes the persisted config file. It exists to generate the
// JSON schema; the Store reads keys directly.
type Document struct {
	ConfigVersion       int                   `json:"config-version" jsonschema:"minimum=1,description=Config file revision"`
	EnablePortalLinking bool                  `json:"enable-portal-linking,omitempty" jsonschema:"description=Redirect portals of managed worlds"`
	OverrideSpawn       bool                  `json:"override-spawn,omitempty" jsonschema:"description=Send joining actors to the global spawn"`
	GlobalSpawn         *GlobalSpawn          `json:"global-spawn,omitempty"`
	WorldNames          []string              `json:"world-names,omitempty" jsonschema:"description=Registered world identifiers in registration order"`
	ForceLoad           []string              `json:"force-load,omitempty" jsonschema:"description=Worlds loaded at startup"`
	Worlds              map[string]WorldEntry `json:"worlds,omitempty"`
}

// GlobalSpawn is the persisted global spawn.
type GlobalSpawn struct {
	World string `json:"world" jsonschema:"minLength=1"`
	// XYZ is either "default" or [x, y, z, yaw, pitch].
	XYZ any `json:"xyz,omitempty" jsonschema:"oneof_type=string;array"`
}

// WorldEntry is the persisted configuration of one world.
type WorldEntry struct {
	Name         string `json:"name,omitempty"`
	Type         string `json:"type,omitempty" jsonschema:"enum=NORMAL,enum=NETHER,enum=THE_END"`
	Seed         int64  `json:"seed"`
	PortalNether string `json:"portal-nether,omitempty"`
	PortalEnd    string `json:"portal-end,omitempty"`
}

var (
	compiledOnce   sync.Once
	compiledSchema *jschema.Schema
	compileErr     error
)

// Schema returns the JSON schema of the config file.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	schema := r.Reflect(&Document{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "worldgate configuration"
	schema.Description = "Schema for the worldgate config.yaml file"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("SCHEMA_GENERATE_FAILED").Wrap(err)
	}
	return data, nil
}

func compiled() (*jschema.Schema, error) {
	compiledOnce.Do(func() {
		data, err := Schema()
		if err != nil {
			compileErr = err
			return
		}
		doc, err := jschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
			return
		}
		c := jschema.NewCompiler()
		if err := c.AddResource(SchemaID, doc); err != nil {
			compileErr = oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
			return
		}
		compiledSchema, compileErr = c.Compile(SchemaID)
		if compileErr != nil {
			compileErr = oops.Code("SCHEMA_COMPILE_FAILED").Wrap(compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks a decoded config document against the schema.
func Validate(doc map[string]any) error {
	sch, err := compiled()
	if err != nil {
		return err
	}

	// Round trip through JSON so numbers and nested maps have the types
	// the validator expects.
	data, err := json.Marshal(doc)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	inst, err := jschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if err := sch.Validate(inst); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return nil
}
