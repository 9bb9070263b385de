package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status <file>",
	Short: "Show whether a file is read-only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		host, err := openHost(ctx, "", false, nil)
		if err != nil {
			return err
		}
		defer host.Close()

		id, err := host.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		status := host.Service.Status(id)

		if statusJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(status)
		}
		fmt.Fprintln(cmd.OutOrStdout(), status.Message(cfg.Shortcut))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
}
