package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for account authorization.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	dir, err := r.environ.ConfigDir()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(filepath.Join(dir, "djx-tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	// The TUI owns the terminal while it runs, so the consent URL hint that the
	// flow normally prints has nowhere to go.
	r.output = io.Discard

	d, err := r.buildDeps(cmd)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, d.registry, d.manager, d.flow)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
