package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"loom/internal/emit"
	"loom/internal/manifest"
	"loom/internal/ui"
)

type emitOutcome struct {
	results []emit.Result
	err     error
}

func runEmitWithUI(ctx context.Context, title string, m *manifest.Manifest, jobs int) ([]emit.Result, error) {
	events := make(chan emit.Event, 256)
	outcomeCh := make(chan emitOutcome, 1)

	go func() {
		results, err := emit.Run(ctx, m, jobs, emit.ChannelSink{Ch: events})
		outcomeCh <- emitOutcome{results: results, err: err}
		close(events)
	}()

	targets := make([]string, len(m.Targets))
	for i, tgt := range m.Targets {
		targets[i] = tgt.Name
	}
	model := ui.NewProgressModel(title, targets, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
