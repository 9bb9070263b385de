package main

import (
	"context"
	"log/slog"

	"github.com/aretw0/codefreeze/internal/platform"
	"github.com/aretw0/codefreeze/pkg/core"
)

// openHost builds a filesystem host for dir (or the configured root) and
// restores the persisted read-only state.
func openHost(ctx context.Context, dir string, load bool, reporter core.Reporter) (*platform.Host, error) {
	if dir == "" && cfg.Root != "." {
		dir = cfg.Root
	}
	root, err := platform.ResolveRoot(dir)
	if err != nil {
		return nil, err
	}

	opts := []platform.Option{
		platform.WithLogger(slog.Default()),
		platform.WithBackend(cfg.Backend, cfg.StatePath),
		platform.WithPatterns(cfg.Include, cfg.Exclude),
	}
	if reporter != nil {
		opts = append(opts, platform.WithReporter(reporter))
	}

	host, err := platform.Open(root, opts...)
	if err != nil {
		return nil, err
	}
	if load {
		if _, err := host.Load(ctx); err != nil {
			slog.Warn("some documents could not be opened", "error", err)
		}
	}
	host.Start(ctx)
	return host, nil
}
