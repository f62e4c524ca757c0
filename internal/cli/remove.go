package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <repo-id>",
		Short: "Delete a repository and its packages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID, err := parseRepoID(args[0])
			if err != nil {
				return err
			}

			e, err := c.open(cmd, clientRole)
			if err != nil {
				return err
			}
			defer e.close()

			if err = e.services.Repos.DeleteRepository(cmd.Context(), repoID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed repository #%d\n", repoID)
			return nil
		},
	}
}
