package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Build version: %s\nBuild date: %s\nBuild commit: %s\n",
				c.buildInfo.BuildVersion(), c.buildInfo.BuildDate(), c.buildInfo.BuildCommit())
		},
	}
}
