// Package cli implements the repo-sync command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/models"
)

type cli struct {
	buildInfo models.AppBuildInfo
	flags     *config.Flags
	// open wires the engine for one command run.
	open func(cmd *cobra.Command, role string) (*engine, error)
}

// Execute runs the command line with os.Args.
func Execute(buildInfo models.AppBuildInfo) error {
	return NewRootCommand(buildInfo).Execute()
}

// NewRootCommand builds the command tree.
func NewRootCommand(buildInfo models.AppBuildInfo) *cobra.Command {
	c := &cli{buildInfo: buildInfo}
	c.open = c.openEngine
	return c.rootCommand()
}

func (c *cli) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "repo-sync",
		Short:         "Keep a local catalog of F-Droid style repositories in sync",
		Version:       c.buildInfo.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	c.flags = config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(c.newListCommand())
	cmd.AddCommand(c.newSyncCommand())
	cmd.AddCommand(c.newAddCommand())
	cmd.AddCommand(c.newRemoveCommand())
	cmd.AddCommand(c.newServeCommand())
	cmd.AddCommand(c.newVersionCommand())
	return cmd
}
