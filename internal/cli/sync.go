package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-repo-sync/models"
)

var errSyncFailed = errors.New("some repositories failed to sync")

func (c *cli) newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [repo-id]",
		Short: "Sync one repository, or all enabled ones",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var repoID int64
			if len(args) == 1 {
				id, err := parseRepoID(args[0])
				if err != nil {
					return err
				}
				repoID = id
			}

			e, err := c.open(cmd, clientRole)
			if err != nil {
				return err
			}
			defer e.close()

			results := make(map[int64]models.SyncResult)
			if repoID != 0 {
				res, err := e.services.SyncManager.SyncRepository(cmd.Context(), repoID)
				if err != nil {
					return err
				}
				results[repoID] = res
			} else if results, err = e.services.SyncManager.SyncAll(cmd.Context()); err != nil {
				return err
			}

			return printSyncResults(cmd.OutOrStdout(), results)
		},
	}
}

func parseRepoID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid repository id %q", raw)
	}
	return id, nil
}

// printSyncResults prints one line per repository and reports errSyncFailed
// if any of them failed.
func printSyncResults(w io.Writer, results map[int64]models.SyncResult) error {
	ids := make([]int64, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var failed bool
	for _, id := range ids {
		ev := models.NewSyncEvent(id, results[id])
		if ev.Error != "" {
			failed = true
			fmt.Fprintf(w, "#%d\t%s: %s\n", id, ev.Result, ev.Error)
			continue
		}
		fmt.Fprintf(w, "#%d\t%s\n", id, ev.Result)
	}

	if failed {
		return errSyncFailed
	}
	return nil
}
