// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Command gen-schema writes the plugin manifest and config JSON Schema files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/holomush/worldgate/internal/config"
	"github.com/holomush/worldgate/internal/plugin"
)

func main() {
	outputs := []struct {
		file     string
		generate func() ([]byte, error)
	}{
		{"plugin.schema.json", plugin.GenerateSchema},
		{"config.schema.json", config.Schema},
	}

	if err := os.MkdirAll("schemas", 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	for _, out := range outputs {
		schema, err := out.generate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", out.file, err)
			os.Exit(1)
		}

		outPath := filepath.Join("schemas", out.file)
		if err := os.WriteFile(outPath, schema, 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outPath)
	}
}
