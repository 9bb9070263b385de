package main

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aretw0/codefreeze/internal/tui"
	"github.com/aretw0/codefreeze/pkg/core"
	"github.com/aretw0/codefreeze/pkg/presentation"
)

var uiCmd = &cobra.Command{
	Use:   "ui [dir]",
	Short: "Browse files and toggle read-only mode in a terminal UI",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// The terminal belongs to the UI; keep logs quiet unless asked for.
		if !verbose {
			slog.SetDefault(slog.New(slog.DiscardHandler))
		}

		presenter := presentation.New(presentation.Config{
			Timeout:  cfg.NotificationTimeout,
			Shortcut: cfg.Shortcut,
		})
		bridge := tui.NewBridge()

		host, err := openHost(ctx, dir, true, core.Reporters{presenter, bridge})
		if err != nil {
			return err
		}
		defer host.Close()

		watcher := host.Watcher(cfg.RestoreOnDisk, nil)
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop(context.Background())

		model := tui.New(tui.Options{Context: ctx, Host: host, Presenter: presenter, Bridge: bridge})
		_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
