package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lowerer/internal/diag"
	"lowerer/internal/lower"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
requires = ">= 0.1.0"

[lower]
mode = "accurate"

[output]
jobs = 4

[cache]
enabled = true
dir = "cache"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	project, ok, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if !ok {
		t.Fatalf("expected %s to be found", FileName)
	}
	wantRoot, _ := filepath.Abs(root)
	if project.Root != wantRoot {
		t.Fatalf("root = %q, want %q", project.Root, wantRoot)
	}
	cfg := project.Config
	if cfg.Mode() != lower.Accurate {
		t.Fatalf("mode = %v, want accurate", cfg.Mode())
	}
	if cfg.Output.Jobs != 4 || cfg.Output.Format != "text" {
		t.Fatalf("output = %+v", cfg.Output)
	}
	if !cfg.Cache.Enabled {
		t.Fatalf("cache should be enabled")
	}
	if dir, err := cfg.CacheDir(); err != nil || dir != "cache" {
		t.Fatalf("cache dir = %q, %v", dir, err)
	}
	if cfg.Trace.Mode != "ring" || cfg.Trace.Level != "off" {
		t.Fatalf("trace defaults lost: %+v", cfg.Trace)
	}
}

func TestDiscoverMissing(t *testing.T) {
	// TempDir lives under the system temp dir, which has no lowerer.toml above it
	project, ok, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if ok || project != nil {
		t.Fatalf("expected no project, got %+v", project)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"syntax", "[lower\nmode = 1"},
		{"unknown key", "[lower]\nmode = \"concise\"\nstyle = \"x\""},
		{"bad mode", "[lower]\nmode = \"verbose\""},
		{"bad format", "[output]\nformat = \"xml\""},
		{"negative jobs", "[output]\njobs = -1"},
		{"bad trace level", "[trace]\nlevel = \"loud\""},
		{"bad trace mode", "[trace]\nmode = \"disk\""},
		{"bad constraint", "requires = \">>> 1\""},
		{"empty requires", "requires = \"\""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tc.content)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if cfgErr.Code != diag.PrjBadConfig {
				t.Fatalf("code = %v, want %v", cfgErr.Code, diag.PrjBadConfig)
			}
			if cfgErr.Path != path {
				t.Fatalf("path = %q, want %q", cfgErr.Path, path)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	cases := []struct {
		requires string
		version  string
		ok       bool
	}{
		{"", "anything", true},
		{">= 0.1.0", "0.1.0", true},
		{">= 0.1.0", "0.1.0-dev", true},
		{">= 0.2.0", "0.1.0-dev", false},
		{"^1.2", "1.4.0", true},
		{"^1.2", "2.0.0", false},
		{">= 0.1.0", "not-a-version", false},
	}
	for _, tc := range cases {
		cfg := Default()
		cfg.Requires = tc.requires
		err := cfg.CheckVersion(tc.version)
		if tc.ok && err != nil {
			t.Errorf("%q vs %q: unexpected error %v", tc.requires, tc.version, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("%q vs %q: expected mismatch", tc.requires, tc.version)
				continue
			}
			if d := diag.FromError(FileName, err); d.Code != diag.PrjVersionMismatch {
				t.Errorf("%q vs %q: code = %v", tc.requires, tc.version, d.Code)
			}
		}
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if Default().Mode() != lower.Concise {
		t.Fatalf("default mode should be concise")
	}
}
