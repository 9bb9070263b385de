package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/codefreeze"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of codefreeze",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "codefreeze version %s\n", strings.TrimSpace(codefreeze.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
