package main

import (
	"os"

	"github.com/MKhiriev/go-repo-sync/internal/cli"
	"github.com/MKhiriev/go-repo-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := cli.Execute(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)); err != nil {
		os.Exit(1)
	}
}
