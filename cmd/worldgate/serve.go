// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/holomush/worldgate/internal/command"
	"github.com/holomush/worldgate/internal/engine/localfs"
	"github.com/holomush/worldgate/internal/logging"
	"github.com/holomush/worldgate/internal/observability"
	"github.com/holomush/worldgate/internal/plugin"
	"github.com/holomush/worldgate/internal/portal"
	"github.com/holomush/worldgate/internal/worlds"
	"github.com/holomush/worldgate/internal/xdg"
	"github.com/holomush/worldgate/pkg/errutil"
)

// Default values for serve command flags.
const (
	defaultMetricsAddr = "127.0.0.1:9100"
	defaultAPIVersion  = "1.20.4"
	defaultLogFormat   = "json"
	defaultLogLevel    = "info"

	shutdownTimeout = 5 * time.Second
)

// serveConfig holds configuration for the serve command. Values come from
// the CLI config file, overridden by explicitly set flags.
type serveConfig struct {
	DataDir     string `koanf:"data-dir"`
	WorldsDir   string `koanf:"worlds-dir"`
	MetricsAddr string `koanf:"metrics-addr"`
	APIVersion  string `koanf:"api-version"`
	LogFormat   string `koanf:"log-format"`
	LogLevel    string `koanf:"log-level"`
}

// Validate checks that the configuration is valid.
func (cfg *serveConfig) Validate() error {
	if cfg.DataDir == "" {
		return oops.Code("INVALID_CONFIG").Errorf("data-dir is required")
	}
	if cfg.APIVersion == "" {
		return oops.Code("INVALID_CONFIG").Errorf("api-version is required")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return oops.Code("INVALID_CONFIG").With("log_format", cfg.LogFormat).
			Errorf("log-format must be 'json' or 'text', got %q", cfg.LogFormat)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return oops.Code("INVALID_CONFIG").With("log_level", cfg.LogLevel).
			Errorf("log-level: %v", err)
	}
	return nil
}

// worldsDir is the world container, data-dir/worlds unless set.
func (cfg *serveConfig) worldsDir() string {
	if cfg.WorldsDir != "" {
		return cfg.WorldsDir
	}
	return filepath.Join(cfg.DataDir, "worlds")
}

// pluginDir is the plugin data folder holding config.yml.
func (cfg *serveConfig) pluginDir() string {
	return filepath.Join(cfg.DataDir, "plugins", "worldgate")
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run worldgate with an interactive console",
		Long: `Run worldgate against world directories on disk. Lines read from
standard input are dispatched as console commands, e.g. "swm create arena".
Type "stop" or send SIGINT/SIGTERM to save and exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServeConfig(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("data-dir", xdg.DataDir(), "data directory for worlds and plugin config")
	flags.String("worlds-dir", "", "world container directory (default: <data-dir>/worlds)")
	flags.String("metrics-addr", defaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("api-version", defaultAPIVersion, "host plugin API version reported to the plugin")
	flags.String("log-format", defaultLogFormat, "log format (json or text)")
	flags.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	return cmd
}

// loadServeConfig merges the CLI config file with the command's flags.
// An explicit path must exist; the XDG default is read only when present.
func loadServeConfig(flags *pflag.FlagSet, path string) (*serveConfig, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = xdg.ConfigFile()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CLI_CONFIG_INVALID").With("path", path).Wrap(err)
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Code("CLI_CONFIG_NOT_FOUND").With("path", path).Wrap(err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, oops.Code("CLI_CONFIG_INVALID").Wrap(err)
	}

	var cfg serveConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CLI_CONFIG_INVALID").Wrap(err)
	}
	return &cfg, nil
}

// runServe enables the plugin over a localfs engine and feeds it console
// input until stop, EOF, or ctx cancellation.
func runServe(ctx context.Context, cfg *serveConfig, in io.Reader, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return oops.Wrapf(err, "invalid configuration")
	}

	level, _ := logging.ParseLevel(cfg.LogLevel) //nolint:errcheck // checked by Validate
	logger := logging.SetDefault("worldgate", version, cfg.LogFormat, level)

	logger.Info("starting worldgate",
		"data_dir", cfg.DataDir,
		"worlds_dir", cfg.worldsDir(),
		"api_version", cfg.APIVersion,
	)

	for _, dir := range []string{cfg.worldsDir(), cfg.pluginDir()} {
		if err := xdg.EnsureDir(dir); err != nil {
			return err
		}
	}

	engine, err := localfs.New(cfg.worldsDir(), localfs.WithLogger(logger))
	if err != nil {
		return oops.Wrapf(err, "failed to open world container")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := engine.Close(closeCtx); err != nil {
			errutil.LogError(logger, "error closing world engine", err)
		}
	}()

	// The host owns the built-in worlds; they are loaded before the plugin.
	for _, name := range []string{worlds.DefaultWorld, worlds.DefaultNetherWorld, worlds.DefaultEndWorld} {
		if _, err := engine.CreateOrLoad(ctx, worlds.Spec{Name: name}); err != nil {
			return oops.With("world", name).Wrapf(err, "failed to load built-in world")
		}
	}

	host := &consoleHost{
		engine:     engine,
		dataFolder: cfg.pluginDir(),
		apiVersion: cfg.APIVersion,
	}

	var p *plugin.Plugin
	var obsServer *observability.Server
	opts := []plugin.Option{plugin.WithLogger(logger)}
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr,
			func() bool { return p != nil && p.Enabled() },
			worlds.RegisterMetrics,
			portal.RegisterMetrics,
			command.RegisterMetrics,
		)
		opts = append(opts, plugin.WithMetrics(obsServer.Metrics()))
	}

	p, err = plugin.New(host, opts...)
	if err != nil {
		return err
	}
	if err := p.Enable(ctx); err != nil {
		return oops.Wrapf(err, "failed to enable plugin")
	}
	defer func() {
		if err := p.Disable(context.Background()); err != nil {
			errutil.LogError(logger, "error disabling plugin", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsErrChan <-chan error
	if obsServer != nil {
		obsServer.SetStatus(func() any { return p.Status() })
		obsErrChan, err = obsServer.Start()
		if err != nil {
			return oops.Wrapf(err, "failed to start observability server")
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stopCancel()
			if err := obsServer.Stop(stopCtx); err != nil {
				logger.Warn("error stopping observability server", "error", err)
			}
		}()
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	con := &console{plugin: p, sender: &consoleSender{out: out}}
	consoleDone := make(chan error, 1)
	go func() {
		stopped, err := con.run(ctx, in)
		if err == nil && !stopped {
			logger.Info("console input closed")
		}
		consoleDone <- err
	}()

	logger.Info("worldgate ready", "worlds", len(p.Registry().Worlds()))

	select {
	case err := <-consoleDone:
		if err != nil {
			return err
		}
	case err, ok := <-obsErrChan:
		if ok && err != nil {
			return oops.Wrapf(err, "observability server error")
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	logger.Info("shutting down")
	return nil
}
