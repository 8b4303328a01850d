// Package config loads lowerer.toml, the per-project configuration of the lowerer CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	semver "github.com/Masterminds/semver/v3"

	"lowerer/internal/diag"
	"lowerer/internal/lower"
	"lowerer/internal/trace"
)

// FileName is the configuration file looked up from the working directory upwards.
const FileName = "lowerer.toml"

type Config struct {
	// Requires is a semver constraint on the tool version, e.g. ">= 0.1.0".
	Requires string       `toml:"requires"`
	Lower    LowerConfig  `toml:"lower"`
	Output   OutputConfig `toml:"output"`
	Cache    CacheConfig  `toml:"cache"`
	Trace    TraceConfig  `toml:"trace"`
}

type LowerConfig struct {
	Mode string `toml:"mode"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Jobs   int    `toml:"jobs"` // 0 means GOMAXPROCS
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// Project is a loaded configuration together with its location.
type Project struct {
	Path   string
	Root   string
	Config Config
}

// Error reports an invalid configuration file.
type Error struct {
	Code diag.Code
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return e.Path + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) DiagCode() diag.Code { return e.Code }

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Lower:  LowerConfig{Mode: lower.Concise.String()},
		Output: OutputConfig{Format: "text"},
		Trace:  TraceConfig{Level: "off", Mode: "ring"},
	}
}

// Find walks up from startDir looking for lowerer.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest lowerer.toml. ok is false when none exists.
func Discover(startDir string) (*Project, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return &Project{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// Load decodes path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, &Error{Code: diag.PrjBadConfig, Path: path, Msg: "failed to parse TOML: " + err.Error(), Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, &Error{Code: diag.PrjBadConfig, Path: path, Msg: "unknown keys: " + strings.Join(keys, ", ")}
	}
	if meta.IsDefined("requires") && strings.TrimSpace(cfg.Requires) == "" {
		return Config{}, &Error{Code: diag.PrjBadConfig, Path: path, Msg: "requires must not be empty"}
	}
	if err := cfg.Validate(); err != nil {
		var cfgErr *Error
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values and the requires constraint syntax.
func (c Config) Validate() error {
	bad := func(msg string, err error) error {
		return &Error{Code: diag.PrjBadConfig, Msg: msg, Err: err}
	}
	if _, err := lower.ParseMode(c.Lower.Mode); err != nil {
		return bad("[lower].mode: "+err.Error(), err)
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return bad(fmt.Sprintf("[output].format: unknown format %q (expected text|json)", c.Output.Format), nil)
	}
	if c.Output.Jobs < 0 {
		return bad(fmt.Sprintf("[output].jobs: must be >= 0, got %d", c.Output.Jobs), nil)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return bad("[trace].level: "+err.Error(), err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return bad("[trace].mode: "+err.Error(), err)
	}
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return bad(fmt.Sprintf("requires: invalid constraint %q: %v", c.Requires, err), err)
		}
	}
	return nil
}

// CheckVersion verifies toolVersion against Requires. An empty Requires accepts any version.
func (c Config) CheckVersion(toolVersion string) error {
	if c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return &Error{Code: diag.PrjBadConfig, Msg: fmt.Sprintf("requires: invalid constraint %q", c.Requires), Err: err}
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return &Error{Code: diag.PrjVersionMismatch, Msg: fmt.Sprintf("tool version %q is not a semantic version", toolVersion), Err: err}
	}
	// pre-release builds of a satisfying release are accepted
	if !constraint.Check(v) {
		release, relErr := v.SetPrerelease("")
		if relErr != nil || !constraint.Check(&release) {
			return &Error{Code: diag.PrjVersionMismatch, Msg: fmt.Sprintf("tool version %s does not satisfy requires %q", v, c.Requires)}
		}
	}
	return nil
}

// Mode returns the configured lowering mode.
func (c Config) Mode() lower.Mode {
	m, err := lower.ParseMode(c.Lower.Mode)
	if err != nil {
		return lower.Concise
	}
	return m
}

// CacheDir returns the configured cache directory or the user cache default.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "lowerer"), nil
}
