// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"text/tabwriter"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/worldgate/internal/config"
	"github.com/holomush/worldgate/internal/plugin"
	"github.com/holomush/worldgate/internal/worlds"
	"github.com/holomush/worldgate/internal/xdg"
)

// configPathFlags selects the plugin config file to inspect.
type configPathFlags struct {
	dataDir string
	file    string
}

func (f *configPathFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dataDir, "data-dir", xdg.DataDir(), "data directory used by serve")
	cmd.Flags().StringVar(&f.file, "file", "", "plugin config file (default: <data-dir>/plugins/worldgate/config.yml)")
}

func (f *configPathFlags) path() string {
	if f.file != "" {
		return f.file
	}
	return filepath.Join(f.dataDir, "plugins", "worldgate", plugin.ConfigFile)
}

// openExisting opens a config file without writing defaults for a missing one.
func openExisting(path string) (*config.Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("CONFIG_NOT_FOUND").With("path", path).Errorf("no config file at %s", path)
		}
		return nil, oops.Code("CONFIG_READ_FAILED").With("path", path).Wrap(err)
	}
	return config.Open(path)
}

// NewListCmd creates the list subcommand.
func NewListCmd() *cobra.Command {
	var paths configPathFlags

	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "List worlds registered in a config file",
		Long: `List the worlds recorded in a worldgate config file, in registration
order. An optional glob pattern (e.g. "arena*") filters by world id.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pattern glob.Glob
			if len(args) == 1 {
				g, err := glob.Compile(args[0])
				if err != nil {
					return oops.Code("INVALID_PATTERN").With("pattern", args[0]).Wrap(err)
				}
				pattern = g
			}
			store, err := openExisting(paths.path())
			if err != nil {
				return err
			}
			return printWorlds(cmd, store, pattern)
		},
	}
	paths.bind(cmd)

	return cmd
}

func printWorlds(cmd *cobra.Command, store *config.Store, pattern glob.Glob) error {
	forced := store.Strings(config.KeyForceLoad)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSEED\tNETHER\tEND\tFORCE-LOAD")

	shown := 0
	for _, id := range store.Strings(config.KeyWorldNames) {
		if pattern != nil && !pattern.Match(id) {
			continue
		}
		prefix := config.KeyWorlds + "." + id + "."
		force := "no"
		if slices.Contains(forced, id) {
			force = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			id,
			store.String(prefix+"name"),
			worlds.EnvironmentOrNormal(store.String(prefix+"type")),
			store.Int64(prefix+"seed"),
			store.String(prefix+"portal-nether"),
			store.String(prefix+"portal-end"),
			force,
		)
		shown++
	}
	if err := tw.Flush(); err != nil {
		return oops.Code("OUTPUT_FAILED").Wrap(err)
	}
	if shown == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No worlds found")
	}
	return nil
}

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	var (
		paths    configPathFlags
		manifest string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a config file against the schema",
		Long: `Validate a worldgate config file. Older revisions are migrated in memory
first, so a file the server would upgrade on start is checked as upgraded.
The file is never modified. With --manifest, a plugin.yaml is checked against
the manifest schema instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if manifest != "" {
				return validateManifest(cmd, manifest)
			}
			path := paths.path()
			store, err := openExisting(path)
			if err != nil {
				return err
			}
			problems, err := validateConfig(store)
			if err != nil {
				return err
			}
			for _, p := range problems {
				fmt.Fprintln(cmd.OutOrStdout(), "- "+p)
			}
			if len(problems) > 0 {
				return oops.Code("CONFIG_INVALID").With("path", path).With("problems", len(problems)).
					Errorf("%s: %d problem(s) found", path, len(problems))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", path)
			return nil
		},
	}
	paths.bind(cmd)
	cmd.Flags().StringVar(&manifest, "manifest", "", "validate a plugin.yaml manifest instead of a config file")

	return cmd
}

func validateManifest(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return oops.Code("MANIFEST_READ_FAILED").With("path", path).Wrap(err)
	}
	if err := plugin.ValidateSchema(data); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "- "+plugin.FormatSchemaError(err))
		return oops.With("path", path).Wrap(err)
	}
	m, err := plugin.ParseManifest(data)
	if err != nil {
		return oops.With("path", path).Wrap(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%s %s, api %s)\n", path, m.Name, m.Version, m.APIVersion)
	return nil
}

// validateConfig returns human-readable problems with the document. The
// error return is reserved for failures to perform the check.
func validateConfig(store *config.Store) ([]string, error) {
	if _, err := config.Migrate(store); err != nil {
		return nil, err
	}

	var problems []string
	if err := config.Validate(store.Raw()); err != nil {
		problems = append(problems, "schema: "+err.Error())
	}

	names := store.Strings(config.KeyWorldNames)
	for _, id := range names {
		if !store.Exists(config.KeyWorlds + "." + id) {
			problems = append(problems, fmt.Sprintf("world %q is listed in %s but has no entry under %s",
				id, config.KeyWorldNames, config.KeyWorlds))
			continue
		}
		if raw := store.String(config.KeyWorlds + "." + id + ".type"); raw != "" {
			if _, err := worlds.ParseEnvironment(raw); err != nil {
				problems = append(problems, fmt.Sprintf("world %q has unknown type %q", id, raw))
			}
		}
	}
	for _, id := range store.Strings(config.KeyForceLoad) {
		if !slices.Contains(names, id) && !worlds.IsBuiltin(id) {
			problems = append(problems, fmt.Sprintf("force-load entry %q is not a registered world", id))
		}
	}
	return problems, nil
}

// NewSchemaCmd creates the schema subcommand.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema {plugin|config}",
		Short:     "Print a JSON Schema",
		Long:      `Print the JSON Schema for the plugin manifest or the plugin config file.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"plugin", "config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			switch args[0] {
			case "plugin":
				data, err = plugin.GenerateSchema()
			default:
				data, err = config.Schema()
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
