package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lowerer/internal/driver"
	"lowerer/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <path> [path...]",
	Short: "Re-lower tree documents whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Bool("accurate", false, "render in accurate mode")
	watchCmd.Flags().Bool("both", false, "render in concise and accurate mode")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before re-lowering a file")
	watchCmd.Flags().Bool("initial", true, "lower every document once before watching")
}

func runWatch(cmd *cobra.Command, args []string) error {
	modes, err := readModes(cmd)
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	initial, err := cmd.Flags().GetBool("initial")
	if err != nil {
		return fmt.Errorf("failed to get initial flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := driver.LowerOptions{Modes: modes, MaxDiagnostics: maxDiagnostics}
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	stamp := color.New(color.FgHiBlack)

	relower := func(path string) {
		res := driver.LowerFile(ctx, path, opts)
		fmt.Fprintln(out, stamp.Sprintf("[%s] %s", time.Now().Format("15:04:05"), path))
		renderLowerText(out, []driver.LowerResult{res}, modes, false)
		printDiagnostics(errOut, res.Bag.Items())
	}

	if initial {
		files, err := driver.CollectDocuments(ctx, args)
		if err != nil {
			return err
		}
		for _, f := range files {
			relower(f)
		}
	}

	w, err := watch.New(relower, watch.Options{
		Debounce: debounce,
		OnError: func(err error) {
			fmt.Fprintf(errOut, "watch: %v\n", err)
		},
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(args...); err != nil {
		return err
	}

	fmt.Fprintf(errOut, "watching %d path(s), press Ctrl+C to stop\n", len(args))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
