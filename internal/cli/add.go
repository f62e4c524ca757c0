package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-repo-sync/internal/service"
	"github.com/MKhiriev/go-repo-sync/internal/validators"
	"github.com/MKhiriev/go-repo-sync/internal/verifier"
	"github.com/MKhiriev/go-repo-sync/models"
)

var errFetchInterrupted = errors.New("fetch interrupted")

type addOptions struct {
	proxy  string
	dryRun bool
}

func (c *cli) newAddCommand() *cobra.Command {
	opts := addOptions{}
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Fetch a repository, show what it is and add it",
		Long: "Fetches and verifies the index behind url, prints a preview and adds the\n" +
			"repository. A url of a known repository from a new address adds a mirror.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.open(cmd, clientRole)
			if err != nil {
				return err
			}
			defer e.close()

			return runAdd(cmd.Context(), cmd.OutOrStdout(), e.services.RepoAdder, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.proxy, "fetch-proxy", "", "Proxy used for this repository only")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Only show the preview")
	return cmd
}

func runAdd(ctx context.Context, out io.Writer, adder service.RepoAdder, url string, opts addOptions) error {
	req := models.AddRepoRequest{URL: url, Proxy: opts.proxy}
	if err := validators.NewRequestValidator().Validate(ctx, req); err != nil {
		return err
	}

	states, release := adder.Subscribe()
	defer release()

	session := adder.FetchRepository(ctx, url, opts.proxy)

	fetched, err := waitFetched(ctx, states, session)
	if err != nil {
		return err
	}
	if err = printPreview(out, fetched); err != nil {
		return err
	}

	switch {
	case !fetched.CanAdd():
		fmt.Fprintln(out, "nothing to add")
		adder.Abort()
		return nil
	case opts.dryRun:
		adder.Abort()
		return nil
	}

	added, err := adder.AddFetchedRepository(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added as repository #%d\n", added.RepoID)
	if added.Result == nil {
		return nil
	}

	ev := models.NewSyncEvent(added.RepoID, added.Result)
	if ev.Error != "" {
		fmt.Fprintf(out, "first sync: %s: %s\n", ev.Result, ev.Error)
		return errSyncFailed
	}
	fmt.Fprintf(out, "first sync: %s\n", ev.Result)
	return nil
}

// waitFetched blocks until the fetch of session is complete or failed.
func waitFetched(ctx context.Context, states <-chan models.AddRepoState, session string) (models.Fetching, error) {
	for {
		select {
		case <-ctx.Done():
			return models.Fetching{}, ctx.Err()
		case state, ok := <-states:
			if !ok {
				return models.Fetching{}, errFetchInterrupted
			}
			switch s := state.(type) {
			case models.Fetching:
				if s.SessionID == session && s.Done {
					return s, nil
				}
			case models.AddRepoError:
				if s.SessionID == session {
					return models.Fetching{}, s
				}
			}
		}
	}
}

func printPreview(out io.Writer, f models.Fetching) error {
	fingerprint, err := verifier.FingerprintFromHex(f.Repo.Certificate)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Repository:  %s\n", f.Repo.Name.Best(""))
	fmt.Fprintf(out, "Address:     %s\n", f.Repo.Address)
	if f.FetchURL != f.Repo.Address {
		fmt.Fprintf(out, "Fetched from: %s\n", f.FetchURL)
	}
	fmt.Fprintf(out, "Fingerprint: %s\n", fingerprint)
	fmt.Fprintf(out, "Packages:    %d\n", f.PackageCount)
	fmt.Fprintf(out, "Result:      %s\n", describeResult(f.Result))
	return nil
}

func describeResult(r models.FetchResult) string {
	switch v := r.(type) {
	case models.IsNewRepository:
		return "new repository"
	case models.IsNewRepoAndNewMirror:
		return "new repository, the fetch address becomes a mirror"
	case models.IsNewMirror:
		return fmt.Sprintf("new mirror of repository #%d", v.ExistingRepoID)
	case models.IsExistingRepository:
		return fmt.Sprintf("already added as repository #%d", v.ExistingRepoID)
	case models.IsExistingMirror:
		return fmt.Sprintf("known mirror of repository #%d", v.ExistingRepoID)
	}
	return "unknown"
}
