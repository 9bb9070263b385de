package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/codefreeze/internal/config"
)

var (
	verbose    bool
	configPath string
	statePath  string
	backend    string

	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codefreeze",
	Short: "Per-document read-only locking for your working files",
	Long: `codefreeze freezes individual files: edits to a frozen file are reverted
to the text it had when it was frozen, and saves are refused, until the file
is toggled back. The read-only list survives restarts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if backend != "" {
			if err := config.ValidateBackend(backend); err != nil {
				return err
			}
			loaded.Backend = backend
			loaded.StatePath = config.DefaultStatePath(backend)
		}
		if statePath != "" {
			p, err := config.ExpandPath(statePath)
			if err != nil {
				return err
			}
			loaded.StatePath = p
		}
		cfg = loaded
		slog.Debug("configuration loaded", "backend", cfg.Backend, "state", cfg.StatePath, "root", cfg.Root)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.DefaultConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "Where the read-only list is stored")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "State backend: file, sqlite or memory")
}
