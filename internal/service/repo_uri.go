package service

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	defaultRepoPath = "/fdroid/repo"
	linkHost        = "fdroid.link"
)

// RepoURI is a repository address as entered by a user, split into the
// parts the add-repository flow needs.
type RepoURI struct {
	// Address is the normalized repository URL without query or credentials.
	Address     string
	Fingerprint string
	Username    string
	Password    string
}

// IsArchive reports whether the address points at an archive repository.
func (u RepoURI) IsArchive() bool {
	return strings.HasSuffix(u.Address, "/archive")
}

// ParseRepoURI normalizes a user supplied repository address.
//
// Share links wrap the address in their fragment, the custom repository
// schemes map to http and https, a missing scheme means https, and a bare
// host gets the default repository path.
func ParseRepoURI(raw string) (RepoURI, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RepoURI{}, fmt.Errorf("%w: empty repository address", ErrInvalidArgument)
	}

	raw = unwrapLink(raw)
	raw = rewriteScheme(raw)
	if !strings.Contains(raw, "://") {
		// host:port is fine, any other "scheme:" is not
		if scheme, rest, ok := strings.Cut(raw, ":"); ok && !strings.Contains(scheme, "/") && !startsWithDigit(rest) {
			return RepoURI{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidArgument, scheme)
		}
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return RepoURI{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return RepoURI{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidArgument, u.Scheme)
	}
	if u.Host == "" {
		return RepoURI{}, fmt.Errorf("%w: missing host in %q", ErrInvalidArgument, raw)
	}

	res := RepoURI{Fingerprint: fingerprintParam(u.Query())}
	if u.User != nil {
		res.Username = u.User.Username()
		res.Password, _ = u.User.Password()
	}

	path := strings.TrimRight(u.EscapedPath(), "/")
	switch path {
	case "":
		path = defaultRepoPath
	case "/fdroid":
		path += "/repo"
	}

	res.Address = u.Scheme + "://" + u.Host + path
	return res, nil
}

// unwrapLink returns the address carried in the fragment of a share link.
func unwrapLink(raw string) string {
	hash := strings.IndexByte(raw, '#')
	if hash < 0 {
		return raw
	}
	u, err := url.Parse(raw[:hash])
	if err != nil || !strings.EqualFold(u.Hostname(), linkHost) {
		return raw
	}
	return strings.TrimSpace(raw[hash+1:])
}

func rewriteScheme(raw string) string {
	i := strings.Index(raw, "://")
	if i < 0 {
		return raw
	}
	switch strings.ToLower(raw[:i]) {
	case "fdroidrepos":
		return "https" + raw[i:]
	case "fdroidrepo":
		return "http" + raw[i:]
	default:
		return strings.ToLower(raw[:i]) + raw[i:]
	}
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func fingerprintParam(q url.Values) string {
	fp := q.Get("fingerprint")
	if fp == "" {
		fp = q.Get("FINGERPRINT")
	}
	return strings.ToLower(strings.TrimSpace(fp))
}
