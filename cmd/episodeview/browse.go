package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"episodeview/internal/infra/logx"
	"episodeview/internal/ui"
	"episodeview/internal/view"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive episode table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, ctx)
		},
	}
}

func runBrowse(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	// the alternate screen owns the terminal, so logs go to a file
	var logOut io.Writer = io.Discard
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logx.SetOutput(logOut)
	defer logx.SetOutput(cmd.ErrOrStderr())

	mode, err := view.ParseFilterMode(cfg.Display.FilterMode)
	if err != nil {
		return err
	}
	l, client := newLoader(cfg, true)

	model := ui.New(ui.Options{
		Loader:     l,
		Metrics:    client.Metrics(),
		FilterMode: mode,
		Fuzzy:      fuzzyConfig(cfg),
	})
	_, err = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	).Run()
	return err
}
