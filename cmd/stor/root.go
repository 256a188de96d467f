package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/stor/internal/version"
	"github.com/arthur-debert/stor/pkg/logging"
)

// NewRootCmd builds the stor command tree.
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		opts      options
		noAlias   bool
	)

	cmd := &cobra.Command{
		Use:     "stor [flags] MODULE...",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.MinimumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.simulate = opts.simulate || noAlias
			return run(opts, args)
		},
	}

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v DEBUG, -vv TRACE)")

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "Set target to DIR (default is $HOME)")
	cmd.Flags().BoolVarP(&opts.simulate, "simulate", "n", false, "Do not actually make any filesystem changes")
	cmd.Flags().BoolVar(&noAlias, "no", false, "Alias for --simulate")
	_ = cmd.Flags().MarkHidden("no")
	cmd.Flags().BoolVarP(&opts.delete, "delete", "D", false, "Unstow the module names")
	cmd.Flags().BoolVarP(&opts.restow, "restow", "R", false, "Restow (like stor -D followed by stor)")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "Copy instead of creating symlinks")
	cmd.Flags().BoolVarP(&opts.overwrite, "overwrite", "f", false, "Delete files/symlinks that already exist")
	cmd.MarkFlagsMutuallyExclusive("delete", "restow")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stor version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion script",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate bash completion")
				}
			case "zsh":
				if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate zsh completion")
				}
			case "fish":
				if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
					log.Error().Err(err).Msg("Failed to generate fish completion")
				}
			case "powershell":
				if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate powershell completion")
				}
			}
		},
	}
}
