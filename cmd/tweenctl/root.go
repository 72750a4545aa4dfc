// Root command for tweenctl.
package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
)

// Global flag values.
var (
	flagConfig  string
	flagVerbose bool
)

// settings holds defaults resolved by PersistentPreRunE.
var settings cliConfig

var rootCmd = &cobra.Command{
	Use:   "tweenctl",
	Short: "Validate, simulate and view property tween scenes",
	Long: `tweenctl loads YAML scene files describing entities, their animatable
properties and the tween states that drive them.

Defaults for tps, time_scale and verbose come from ./tweenctl.yaml (or the
file given by --config) and TWEENCTL_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			v.Set(cfgKeyVerbose, flagVerbose)
		}

		settings, err = resolveConfig(v)
		if err != nil {
			return err
		}

		if settings.Verbose {
			log.SetOutput(os.Stderr)
		} else {
			log.SetOutput(io.Discard)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./tweenctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable engine logging")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(viewCmd)
}
