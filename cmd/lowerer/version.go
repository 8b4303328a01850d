package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lowerer/internal/config"
	"lowerer/internal/driver"
	"lowerer/internal/lower"
	"lowerer/internal/treedoc"
	"lowerer/internal/version"
)

// versionReport describes what this build can do. Config is set when a lowerer.toml was found.
type versionReport struct {
	Tool        string        `json:"tool"`
	Version     string        `json:"version"`
	Rules       int           `json:"rules"`
	Modes       []string      `json:"modes"`
	Formats     []string      `json:"formats"`
	CacheSchema uint16        `json:"cache_schema"`
	Config      *configReport `json:"config,omitempty"`
	Build       *buildReport  `json:"build,omitempty"`
}

type configReport struct {
	Path      string `json:"path"`
	Requires  string `json:"requires,omitempty"`
	Satisfied bool   `json:"satisfied"`
	Problem   string `json:"problem,omitempty"`
}

type buildReport struct {
	Commit  string `json:"commit"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

var (
	versionFormat    string
	versionShowBuild bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionShowBuild, "build", false, "include commit and build date")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show lowerer version, supported modes and formats",
	// a project whose requires rejects this build must still be able to ask for the version
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return applyColorFlag(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(versionFormat)
		if format != "pretty" && format != "json" {
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}

		cfg, path, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		report := collectVersionReport(cfg, path, versionShowBuild)
		if format == "json" {
			return renderVersionJSON(cmd.OutOrStdout(), report)
		}
		renderVersionPretty(cmd.OutOrStdout(), report)
		return nil
	},
}

func collectVersionReport(cfg config.Config, cfgPath string, withBuild bool) versionReport {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	r := versionReport{
		Tool:        "lowerer",
		Version:     v,
		Rules:       lower.Revision,
		CacheSchema: driver.CacheSchemaVersion,
	}
	for _, m := range lower.Modes {
		r.Modes = append(r.Modes, m.String())
	}
	for _, f := range treedoc.Formats {
		r.Formats = append(r.Formats, f.String())
	}
	if cfgPath != "" {
		cr := &configReport{Path: cfgPath, Requires: cfg.Requires, Satisfied: true}
		if err := cfg.CheckVersion(version.Version); err != nil {
			cr.Satisfied = false
			cr.Problem = err.Error()
		}
		r.Config = cr
	}
	if withBuild {
		r.Build = &buildReport{
			Commit:  valueOrUnknown(version.GitCommit),
			Message: valueOrUnknown(version.GitMessage),
			Date:    valueOrUnknown(version.BuildDate),
		}
	}
	return r
}

func renderVersionPretty(out io.Writer, r versionReport) {
	fmt.Fprintf(out, "lowerer %s (rules r%d)\n", version.Pretty(), r.Rules)
	fmt.Fprintf(out, "modes:   %s\n", strings.Join(r.Modes, ", "))
	fmt.Fprintf(out, "formats: %s\n", strings.Join(r.Formats, ", "))
	fmt.Fprintf(out, "cache:   schema %d\n", r.CacheSchema)
	if c := r.Config; c != nil {
		requires := c.Requires
		if requires == "" {
			requires = "any version"
		}
		status := color.GreenString("ok")
		if !c.Satisfied {
			status = color.RedString("not satisfied")
		}
		fmt.Fprintf(out, "config:  %s (requires %s: %s)\n", c.Path, requires, status)
	}
	if b := r.Build; b != nil {
		fmt.Fprintf(out, "commit:  %s\n", b.Commit)
		fmt.Fprintf(out, "message: %s\n", b.Message)
		fmt.Fprintf(out, "built:   %s\n", b.Date)
	}
}

func renderVersionJSON(out io.Writer, r versionReport) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func valueOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
