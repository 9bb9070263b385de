package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/spf13/cobra"

	cflifecycle "github.com/aretw0/codefreeze/pkg/adapters/lifecycle"
	"github.com/aretw0/codefreeze/pkg/core"
	"github.com/aretw0/codefreeze/pkg/presentation"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Guard read-only files against changes on disk",
	Long: `watch opens every matching file below dir (default: the project root),
restores the read-only list and watches the disk. External changes to
read-only files are reverted in the buffer and, with restore_on_disk, on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		presenter := presentation.New(presentation.Config{
			Timeout:  cfg.NotificationTimeout,
			Shortcut: cfg.Shortcut,
			Warnings: cmd.ErrOrStderr(),
			Styled:   true,
			Logger:   slog.Default(),
		})
		feed := cflifecycle.NewFeed(0)
		defer feed.Close()

		host, err := openHost(ctx, dir, true, core.Reporters{presenter, feed})
		if err != nil {
			return err
		}
		defer host.Close()

		src := cflifecycle.NewSource(feed.Events())
		if err := src.Start(ctx); err != nil {
			return err
		}
		go func() {
			for e := range src.Events() {
				slog.Debug("event", "event", e.String())
			}
		}()

		spec := supervisor.Spec{
			Name: "fs-watcher",
			Type: string(worker.TypeGoroutine),
			Factory: func() (worker.Worker, error) {
				return host.Watcher(cfg.RestoreOnDisk, nil), nil
			},
			Backoff: supervisor.Backoff{
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2,
				ResetDuration:   time.Minute,
				MaxRestarts:     10,
				MaxDuration:     10 * time.Minute,
			},
			RestartPolicy: supervisor.RestartOnFailure,
		}
		sup := supervisor.New("codefreeze", supervisor.StrategyOneForOne, spec)
		if err := sup.Start(ctx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}

		locked := host.Service.ReadOnlyIDs()
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (%d documents, %d read-only). Press Ctrl+C to stop.\n",
			host.Backing.Root, len(host.Workspace.Documents()), len(locked))

		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return sup.Stop(stopCtx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
