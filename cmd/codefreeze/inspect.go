package main

import (
	"context"
	"encoding/json"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [dir]",
	Short: "Dump the internal state of the components as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		ctx := context.Background()
		host, err := openHost(ctx, dir, true, nil)
		if err != nil {
			return err
		}
		defer host.Close()

		components := []introspection.Introspectable{
			host.Service,
			host.Workspace,
			host.Watcher(cfg.RestoreOnDisk, nil).Inspect(),
		}

		out := map[string]any{
			"backend": cfg.Backend,
			"state":   cfg.StatePath,
		}
		for _, c := range components {
			name := "component"
			if comp, ok := c.(introspection.Component); ok {
				name = comp.ComponentType()
			}
			out[name] = c.State()
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
