package verifier

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // legacy repositories are still signed with SHA1 digests
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash"
	"strings"
)

const nameAttr = "Name"

// digestAlgorithms lists the manifest digest attribute prefixes in order of
// preference.
var digestAlgorithms = []struct {
	name    string
	newHash func() hash.Hash
}{
	{name: "SHA-256", newHash: sha256.New},
	{name: "SHA1", newHash: sha1.New},
}

type section struct {
	raw   []byte
	attrs map[string]string
}

// manifest is a parsed MANIFEST.MF or signature file. raw keeps the exact
// bytes because digests are computed over them.
type manifest struct {
	raw     []byte
	main    section
	entries map[string]section
}

func parseManifest(data []byte) (*manifest, error) {
	m := &manifest{raw: data, entries: make(map[string]section)}

	for i, raw := range splitSections(data) {
		attrs, err := parseAttributes(raw)
		if err != nil {
			return nil, err
		}
		s := section{raw: raw, attrs: attrs}
		if i == 0 {
			m.main = s
			continue
		}
		name, ok := attrs[nameAttr]
		if !ok {
			return nil, fmt.Errorf("section %d has no %s attribute", i, nameAttr)
		}
		m.entries[name] = s
	}

	return m, nil
}

// splitSections cuts data at blank lines. Each section keeps its trailing
// blank line.
func splitSections(data []byte) [][]byte {
	var sections [][]byte
	start := 0
	for i := 0; i < len(data); {
		next := len(data)
		if nl := bytes.IndexByte(data[i:], '\n'); nl >= 0 {
			next = i + nl + 1
		}
		line := data[i:next]
		i = next
		if len(bytes.TrimRight(line, "\r\n")) == 0 {
			if i-start > len(line) {
				sections = append(sections, data[start:i])
			}
			start = i
		}
	}
	if len(bytes.TrimSpace(data[start:])) > 0 {
		sections = append(sections, data[start:])
	}
	return sections
}

func parseAttributes(raw []byte) (map[string]string, error) {
	attrs := make(map[string]string)
	var last string
	for _, line := range strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n") {
		if line == "" {
			continue
		}
		// continuation lines start with a single space
		if line[0] == ' ' {
			if last == "" {
				return nil, fmt.Errorf("continuation line without header: %q", line)
			}
			attrs[last] += line[1:]
			continue
		}
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("invalid header line: %q", line)
		}
		attrs[key] = value
		last = key
	}
	return attrs, nil
}

// digestOf returns the preferred digest attribute with the given suffix, for
// example "-Digest" or "-Digest-Manifest".
func digestOf(attrs map[string]string, suffix string) (func() hash.Hash, []byte, bool) {
	for _, alg := range digestAlgorithms {
		value, ok := attrs[alg.name+suffix]
		if !ok {
			continue
		}
		sum, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			continue
		}
		return alg.newHash, sum, true
	}
	return nil, nil, false
}

func sum(newHash func() hash.Hash, data []byte) []byte {
	h := newHash()
	h.Write(data)
	return h.Sum(nil)
}

// checkSignatureFile verifies that the signed .SF file vouches for the
// manifest section of entryName, either through the whole-manifest digest or
// through the section digest.
func checkSignatureFile(sf, mf *manifest, entryName string) error {
	if newHash, want, ok := digestOf(sf.main.attrs, "-Digest-Manifest"); ok {
		if bytes.Equal(sum(newHash, mf.raw), want) {
			return nil
		}
	}

	entry, ok := mf.entries[entryName]
	if !ok {
		return fmt.Errorf("manifest has no section for %s", entryName)
	}
	sfEntry, ok := sf.entries[entryName]
	if !ok {
		return fmt.Errorf("signature file has no section for %s", entryName)
	}
	newHash, want, ok := digestOf(sfEntry.attrs, "-Digest")
	if !ok {
		return fmt.Errorf("signature file section for %s has no digest", entryName)
	}
	if !bytes.Equal(sum(newHash, entry.raw), want) {
		return fmt.Errorf("manifest section digest mismatch for %s", entryName)
	}
	return nil
}
