package diff

import (
	"encoding/json"

	"github.com/MKhiriev/go-repo-sync/models"
)

// ApplyRepo applies a repository diff object to prev and returns the result.
// Mirrors are replaced wholesale, catalogs are merged per id.
func ApplyRepo(prev models.RepoMetadata, raw json.RawMessage) (models.RepoMetadata, error) {
	obj, err := parseObject("repo", raw)
	if err != nil {
		return prev, err
	}

	out := prev
	for key, value := range obj {
		switch key {
		case "name":
			out.Name, err = LocalizedText("repo.name", out.Name, value)
		case "description":
			out.Description, err = LocalizedText("repo.description", out.Description, value)
		case "icon":
			out.Icon, err = LocalizedFile("repo.icon", out.Icon, value)
		case "address":
			err = scalar("repo.address", &out.Address, value)
		case "webBaseUrl":
			err = scalar("repo.webBaseUrl", &out.WebBaseURL, value)
		case "mirrors":
			err = scalar("repo.mirrors", &out.Mirrors, value)
		case "timestamp":
			err = scalar("repo.timestamp", &out.Timestamp, value)
		case "antiFeatures":
			out.AntiFeatures, err = catalog("repo.antiFeatures", out.AntiFeatures, value)
		case "categories":
			out.Categories, err = catalog("repo.categories", out.Categories, value)
		case "releaseChannels":
			out.ReleaseChannels, err = catalog("repo.releaseChannels", out.ReleaseChannels, value)
		}
		if err != nil {
			return prev, err
		}
	}

	return out, nil
}
