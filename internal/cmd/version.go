package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-molty/internal/cli"
	"github.com/wethinkt/go-molty/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputJSON {
			return cli.WriteJSON(cmd.OutOrStdout(), version.GetInfo("molty"))
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String("molty"))
		return err
	},
}
