package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-romtool/console"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Report the firmware and build version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "romtool %s (%s)", console.Version, chipName)
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			fmt.Fprintf(out, " %s", info.Main.Version)
		}
		fmt.Fprintln(out)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
