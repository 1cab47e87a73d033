package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgspec/resolver/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Print the pkgspec CLI version, git commit, build date and Go version.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
			return nil
		},
	}
}
