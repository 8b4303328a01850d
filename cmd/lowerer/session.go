package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lowerer/internal/config"
	"lowerer/internal/prof"
	"lowerer/internal/version"
)

// session holds per-invocation state shared by subcommands.
var session struct {
	cfg         config.Config
	cfgPath     string
	cleanupFunc func()
	profiling   *prof.Session
}

// setupSession runs before every subcommand: colors, configuration, tracing.
func setupSession(cmd *cobra.Command, _ []string) error {
	if err := applyColorFlag(cmd); err != nil {
		return err
	}
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.CheckVersion(version.Version); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	session.cfg = cfg
	session.cfgPath = path

	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	session.cleanupFunc = cleanup

	profiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	session.profiling = profiling
	return nil
}

func teardownSession(*cobra.Command, []string) error {
	if session.cleanupFunc != nil {
		session.cleanupFunc()
		session.cleanupFunc = nil
	}
	err := session.profiling.Stop()
	session.profiling = nil
	return err
}

// loadConfig reads --config or the nearest lowerer.toml. Path is empty when no file was found.
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	var path string
	if explicit != "" {
		cfg, err = config.Load(explicit)
		if err != nil {
			return config.Config{}, "", err
		}
		path = explicit
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return config.Config{}, "", wdErr
		}
		project, ok, err := config.Discover(wd)
		if err != nil {
			return config.Config{}, "", err
		}
		if !ok {
			return config.Default(), "", nil
		}
		cfg, path = project.Config, project.Path
	}
	return cfg, path, nil
}
