package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "trojan-linter",
		Short:        "trojan-linter",
		SilenceUsage: true,
		Long:         `Scans source files for Unicode hazards: invisible/control characters, script-mixing lookalikes, and bidirectional-reordering tricks that make code display differently than it's stored.`,
	}

	profileName string
	verbose     bool

	log = logrus.StandardLogger()
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "python", "string-class profile to enforce (python, testing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	cobra.OnInitialize(func() {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	})
	return rootCmd.Execute()
}

func init() {
	log.SetLevel(logrus.WarnLevel)
}
