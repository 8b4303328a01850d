package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lowerer/internal/driver"
	"lowerer/internal/lower"
	"lowerer/internal/observ"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <path> [path...]",
	Short: "Lower tree documents to text",
	Long: `Lower every tree document (.json, .yaml, .yml, .msgpack, .mp) given directly or found
under the given directories. Concise mode is the default; --accurate parenthesizes every
operand, --both prints the two renderings one after another.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLower,
}

func init() {
	lowerCmd.Flags().Bool("accurate", false, "render in accurate mode")
	lowerCmd.Flags().Bool("both", false, "render in concise and accurate mode")
	lowerCmd.Flags().String("format", "", "output format (text|json); default from lowerer.toml or text")
	lowerCmd.Flags().Bool("cache", false, "reuse results from the disk cache")
	lowerCmd.Flags().String("cache-dir", "", "disk cache directory (default: user cache dir)")
	lowerCmd.Flags().Int("jobs", -1, "max parallel workers (0=auto, default from lowerer.toml)")
	lowerCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	lowerCmd.Flags().String("diagnostics-format", "pretty", "diagnostics format on stderr for text output (pretty|json|sarif)")
}

func runLower(cmd *cobra.Command, args []string) error {
	cfg := session.cfg

	modes, err := readModes(cmd)
	if err != nil {
		return err
	}

	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if outputFormat == "" {
		outputFormat = cfg.Output.Format
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("lower: unsupported output format %q", outputFormat)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs < 0 {
		jobs = cfg.Output.Jobs
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	diagFormat, err := cmd.Flags().GetString("diagnostics-format")
	if err != nil {
		return fmt.Errorf("failed to get diagnostics-format flag: %w", err)
	}
	switch diagFormat {
	case "pretty", "json", "sarif":
	default:
		return fmt.Errorf("lower: unsupported diagnostics format %q", diagFormat)
	}

	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer cache.Close()

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}
	opts := driver.LowerOptions{
		Modes:          modes,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
		Timer:          timer,
	}

	ctx := cmd.Context()
	files, err := driver.CollectDocuments(ctx, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return driver.ErrNoDocuments
	}

	var results []driver.LowerResult
	if outputFormat == "text" && !quiet && shouldUseTUI(mode, len(files)) {
		results, err = runLowerWithUI(ctx, "lowering", files, opts)
	} else {
		results, err = driver.LowerPaths(ctx, files, opts)
	}
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json":
		if err := renderLowerJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	default:
		renderLowerText(cmd.OutOrStdout(), results, modes, quiet)
		if err := renderDiagnostics(cmd.ErrOrStderr(), results, maxDiagnostics, diagFormat, args); err != nil {
			return err
		}
	}

	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("lower: %d of %d documents failed", failed, len(results))
	}
	return nil
}

// readModes resolves --accurate/--both against the configured mode.
func readModes(cmd *cobra.Command) ([]lower.Mode, error) {
	accurate, err := cmd.Flags().GetBool("accurate")
	if err != nil {
		return nil, fmt.Errorf("failed to get accurate flag: %w", err)
	}
	both, err := cmd.Flags().GetBool("both")
	if err != nil {
		return nil, fmt.Errorf("failed to get both flag: %w", err)
	}
	switch {
	case both && accurate:
		return nil, errors.New("lower: --accurate cannot be combined with --both")
	case both:
		return []lower.Mode{lower.Concise, lower.Accurate}, nil
	case accurate:
		return []lower.Mode{lower.Accurate}, nil
	default:
		return []lower.Mode{session.cfg.Mode()}, nil
	}
}

// openCache returns nil (a valid no-op cache) unless caching is enabled.
func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	enabled := session.cfg.Cache.Enabled
	if cmd.Flags().Changed("cache") {
		var err error
		enabled, err = cmd.Flags().GetBool("cache")
		if err != nil {
			return nil, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if !enabled {
		return nil, nil
	}
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if dir == "" {
		dir, err = session.cfg.CacheDir()
		if err != nil {
			return nil, err
		}
	}
	return driver.OpenDiskCache(dir)
}
