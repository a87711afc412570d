package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// commandContext carries the persistent flags to subcommands.
type commandContext struct {
	configPath string
	verbose    bool
	// newLogger is replaced in tests.
	newLogger func(verbose bool) (*zap.Logger, error)
}

func (c *commandContext) config() (Config, error) {
	return loadConfig(c.configPath)
}

func (c *commandContext) logger() (*zap.Logger, error) {
	return c.newLogger(c.verbose)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{newLogger: newLogger}

	rootCmd := &cobra.Command{
		Use:           "sprite-anim",
		Short:         "Validate and pack sprite-sheet animation descriptors",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newPackCommand(ctx))
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newListCommand(ctx))

	return rootCmd
}
