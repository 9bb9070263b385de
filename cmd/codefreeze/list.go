package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/codefreeze/pkg/adapters/fs"
	"github.com/aretw0/codefreeze/pkg/core"
)

var listJSON bool

type listEntry struct {
	ID   core.DocumentID `json:"id"`
	Path string          `json:"path,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List read-only documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		host, err := openHost(ctx, "", false, nil)
		if err != nil {
			return err
		}
		defer host.Close()

		ids := host.Service.ReadOnlyIDs()
		entries := make([]listEntry, 0, len(ids))
		for _, id := range ids {
			path, _ := fs.PathFromID(id)
			entries = append(entries, listEntry{ID: id, Path: path})
		}

		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(entries)
		}

		for _, e := range entries {
			if e.Path != "" {
				fmt.Fprintln(cmd.OutOrStdout(), e.Path)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
