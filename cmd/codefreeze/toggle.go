package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/codefreeze/pkg/presentation"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <file>...",
	Short: "Flip the read-only state of files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		host, err := openHost(ctx, "", false, nil)
		if err != nil {
			return err
		}
		defer host.Close()

		for _, path := range args {
			id, err := host.Resolve(ctx, path)
			if err != nil {
				return err
			}
			readOnly, err := host.Service.Toggle(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to toggle %s: %w", path, err)
			}
			note := presentation.Notification{FileName: id.Base(), ReadOnly: readOnly}
			fmt.Fprintln(cmd.OutOrStdout(), note.Text())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}
