package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lowerer/internal/driver"
	"lowerer/internal/ui"
)

type lowerOutcome struct {
	results []driver.LowerResult
	err     error
}

// runLowerWithUI lowers paths while a Bubble Tea program renders progress on stderr,
// keeping stdout clean for the lowered text.
func runLowerWithUI(ctx context.Context, title string, files []string, opts driver.LowerOptions) ([]driver.LowerResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lowerOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.LowerPaths(ctx, files, optsCopy)
		outcomeCh <- lowerOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the model may quit early (ctrl+c); drain so the producer never blocks
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
