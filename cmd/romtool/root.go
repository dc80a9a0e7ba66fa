package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-romtool/internal/config"
	"github.com/moffa90/go-romtool/internal/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "romtool",
	Short:         "Parallel ROM reader and EPROM programmer.",
	Long:          "Reads " + chipName + " chips, programs EPROMs and exchanges images over a hex console.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It exits the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
}

// getFlag returns a boolean flag, exiting on lookup errors.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// loadConfig reads the --config file over the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// newLogger builds the stderr logger for cfg and --verbose.
func newLogger(cmd *cobra.Command, cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	return logging.NewStandard(w, cfg.Log.Level, getFlag(cmd, "verbose"))
}
