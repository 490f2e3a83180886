// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/scoreport"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scoreport",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scoreport version %s\n", strings.TrimSpace(scoreport.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
