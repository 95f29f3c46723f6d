package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tel9980/KVideo/internal/shared"
	"github.com/tel9980/KVideo/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive gate and library browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	sess, err := r.newSession()
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/kvideo-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	g := r.newGate(st, sess)
	defer g.Close()

	s := r.newSyncer(st)
	tuiCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.Start(tuiCtx)
	defer s.Stop()

	model := ui.NewModel(tuiCtx, g, st, s)
	defer model.Close()

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
