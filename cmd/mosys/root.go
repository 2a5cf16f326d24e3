package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	return newRootCommandWith(defaultRuntime())
}

func newRootCommandWith(deps runtimeDeps) *cobra.Command {
	flags := &cliFlags{}
	ctx := newCommandContext(flags, deps)

	rootCmd := &cobra.Command{
		Use:           programName + " [options] [commands]",
		Short:         "Query and configure platform hardware",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.initConfig != "" {
				if err := writeSampleConfig(cmd.OutOrStdout(), flags.initConfig, flags.overwrite); err != nil {
					return exitWith(exitGeneric, err)
				}
				return nil
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return exitWith(exitGeneric, err)
			}
			return ctx.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args)
		},
	}

	rootCmd.SetVersionTemplate(programName + " {{.Version}}\n")
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		printUsage(cmd.OutOrStdout())
	})
	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		printUsage(cmd.ErrOrStderr())
		return nil
	})

	f := rootCmd.Flags()
	// Tokens after the first command word belong to the leaf.
	f.SetInterspersed(false)
	f.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	f.BoolVarP(&flags.pairs, "pairs", "k", false, "Print data in key=value format")
	f.BoolVarP(&flags.long, "long", "l", false, "Print data in long format")
	f.StringVarP(&flags.single, "single", "s", "", "Print data for the specified key only")
	f.CountVarP(&flags.verbose, "verbose", "v", "Increase verbosity (repeatable)")
	f.BoolVarP(&flags.tree, "tree", "t", false, "Display the command tree for the detected platform")
	f.BoolVarP(&flags.supported, "supported", "S", false, "Print supported platform IDs")
	f.StringVarP(&flags.platformID, "platform", "p", "", "Platform id (bypasses auto-detection)")
	f.BoolVarP(&flags.force, "force", "f", false, "Ignore the mosys lock")
	f.IntVar(&flags.history, "history", 0, "Print the most recent journal entries (20 by default; set the count with --history=N)")
	f.Lookup("history").NoOptDefVal = "20"
	f.StringVar(&flags.initConfig, "init-config", "", "Write a sample configuration file")
	f.Lookup("init-config").NoOptDefVal = "~/.config/mosys/config.toml"
	f.BoolVar(&flags.overwrite, "overwrite", false, "Replace an existing file with --init-config")

	return rootCmd
}
