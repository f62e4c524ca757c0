package index

import (
	"context"
	"encoding/json"
	"io"

	"github.com/MKhiriev/go-repo-sync/models"
)

type bufferedPackage struct {
	id  string
	pkg models.Package
}

// V2Decoder streams index-v2.json documents and their diffs.
type V2Decoder struct{}

// NewV2Decoder returns a decoder for the current index format.
func NewV2Decoder() *V2Decoder {
	return &V2Decoder{}
}

// Decode reads a full index from r. Packages that precede the repository
// object are buffered and delivered after ReceiveRepo. ctx is checked between
// package callbacks.
func (d *V2Decoder) Decode(ctx context.Context, r io.Reader, recv Receiver) error {
	t := newTokenReader(r)
	if err := t.openObject("$"); err != nil {
		return err
	}

	var (
		repoSeen bool
		pending  []bufferedPackage
	)

	for t.more() {
		key, err := t.key("$")
		if err != nil {
			return err
		}

		switch key {
		case "repo":
			repo, err := decodeRepoV2(t)
			if err != nil {
				return err
			}
			if err = recv.ReceiveRepo(ctx, repo); err != nil {
				return err
			}
			repoSeen = true
			for _, p := range pending {
				if err = ctx.Err(); err != nil {
					return err
				}
				if err = recv.ReceivePackage(ctx, p.id, p.pkg); err != nil {
					return err
				}
			}
			pending = nil

		case "packages":
			if err = t.openObject("packages"); err != nil {
				return err
			}
			for t.more() {
				if err = ctx.Err(); err != nil {
					return err
				}
				id, err := t.key("packages")
				if err != nil {
					return err
				}
				var pkg models.Package
				if err = t.decode("packages."+id, &pkg); err != nil {
					return err
				}
				if !repoSeen {
					pending = append(pending, bufferedPackage{id: id, pkg: pkg})
					continue
				}
				if err = recv.ReceivePackage(ctx, id, pkg); err != nil {
					return err
				}
			}
			if err = t.closeDelim("packages"); err != nil {
				return err
			}

		default:
			if _, err = t.raw(key); err != nil {
				return err
			}
		}
	}

	if err := t.closeDelim("$"); err != nil {
		return err
	}
	if err := t.end(); err != nil {
		return err
	}
	if !repoSeen {
		return malformed("repo", "missing")
	}

	return recv.StreamEnded(ctx)
}

func decodeRepoV2(t *tokenReader) (models.RepoMetadata, error) {
	raw, err := t.raw("repo")
	if err != nil {
		return models.RepoMetadata{}, err
	}
	if err = checkRepoHeader(raw); err != nil {
		return models.RepoMetadata{}, err
	}

	var repo models.RepoMetadata
	if err = json.Unmarshal(raw, &repo); err != nil {
		return models.RepoMetadata{}, malformed("repo", "%v", err)
	}
	return repo, nil
}

// DecodeDiff reads a diff document from r. Repo and package diffs are
// delivered in document order as raw JSON.
func (d *V2Decoder) DecodeDiff(ctx context.Context, r io.Reader, recv DiffReceiver) error {
	t := newTokenReader(r)
	if err := t.openObject("$"); err != nil {
		return err
	}

	for t.more() {
		key, err := t.key("$")
		if err != nil {
			return err
		}

		switch key {
		case "repo":
			raw, err := t.raw("repo")
			if err != nil {
				return err
			}
			if err = recv.ReceiveRepoDiff(ctx, raw); err != nil {
				return err
			}

		case "packages":
			if err = t.openObject("packages"); err != nil {
				return err
			}
			for t.more() {
				if err = ctx.Err(); err != nil {
					return err
				}
				id, err := t.key("packages")
				if err != nil {
					return err
				}
				raw, err := t.raw("packages." + id)
				if err != nil {
					return err
				}
				if err = recv.ReceivePackageDiff(ctx, id, raw); err != nil {
					return err
				}
			}
			if err = t.closeDelim("packages"); err != nil {
				return err
			}

		default:
			if _, err = t.raw(key); err != nil {
				return err
			}
		}
	}

	if err := t.closeDelim("$"); err != nil {
		return err
	}
	if err := t.end(); err != nil {
		return err
	}

	return recv.StreamEnded(ctx)
}

// ParseEntry decodes an entry.json manifest.
func ParseEntry(r io.Reader) (models.EntryManifest, error) {
	var entry models.EntryManifest
	t := newTokenReader(r)
	if err := t.decode("entry", &entry); err != nil {
		return models.EntryManifest{}, err
	}
	if entry.Timestamp <= 0 {
		return models.EntryManifest{}, malformed("entry.timestamp", "missing")
	}
	if entry.Index.Name == "" {
		return models.EntryManifest{}, malformed("entry.index.name", "missing")
	}
	return entry, nil
}
