package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-repo-sync/models"
)

func (c *cli) newListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := c.open(cmd, clientRole)
			if err != nil {
				return err
			}
			defer e.close()

			repos, err := e.services.Repos.Repositories(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(models.RepositoriesResponse{Repositories: repos, Length: len(repos)})
			}
			return printRepositories(cmd.OutOrStdout(), repos)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printRepositories(w io.Writer, repos []models.Repository) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tENABLED\tFORMAT\tUPDATED\tERROR")
	for _, r := range repos {
		updated := "never"
		if r.LastUpdated != nil {
			updated = r.LastUpdated.UTC().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\t%s\t%s\n",
			r.RepoID, r.Name.Best(""), r.Address, r.Enabled, r.FormatVersion, updated, r.LastError)
	}
	return tw.Flush()
}
