// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version variables set at build time (e.g., with -ldflags).
var (
	version = "0.0.0"
	commit  = "none"
	date    = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "show servicegen version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "    version: %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "     commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "       date: %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
