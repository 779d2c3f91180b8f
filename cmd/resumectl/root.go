package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resume-scorer/internal/shared/telemetry"
)

const app = "resumectl"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "resumectl scores resume files offline with the same engine as the API",
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := "warn"
		if viper.GetBool("debug") {
			level = "debug"
		}
		telemetry.Init(level, "console")
	},
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}
