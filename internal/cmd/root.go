package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pkgspec/resolver/internal/config"
	"github.com/pkgspec/resolver/internal/output"
)

var (
	configFlag     string
	verboseFlag    bool
	cacheDirFlag   string
	resolvedConfig *config.Config
)

// NewRootCmd constructs the pkgspec root command: the "resolve", "vet",
// "diff" and "version" subcommands, plus the global
// --config/--verbose/--cache-dir flags wired through PersistentPreRunE.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pkgspec",
		Short: "Resolve package build specifications from a profile",
		Long: `pkgspec resolves a user profile (a tree of YAML fragments
describing which packages to build and with what parameters) against a
set of package YAML documents, producing one fully normalized build
specification per package: inheritance flattened, "when"-conditionals
evaluated, stage lists merged and topologically ordered, and dependency
sets unified.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			output.SetupLogging(output.LogConfig{Verbose: verboseFlag})

			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			if cacheDirFlag != "" {
				cfg.CacheDir = cacheDirFlag
			}
			resolvedConfig = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to config file (default ~/.pkgspec/config.yaml)")
	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", "", "source cache directory (overrides config)")

	root.AddCommand(newResolveCmd())
	root.AddCommand(newVetCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// GetConfig returns the config resolved during PersistentPreRunE.
func GetConfig() *config.Config {
	return resolvedConfig
}
