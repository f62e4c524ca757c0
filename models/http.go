package models

// AddRepoRequest starts an add-repository preview.
type AddRepoRequest struct {
	// URL is anything ParseRepoURI accepts: a plain address, an
	// fdroidrepos:// link or a share link carrying the address in its
	// fragment.
	URL string `json:"url"`
	// Proxy overrides the configured proxy for this flow only.
	Proxy string `json:"proxy,omitempty"`
}

// RepoPatchRequest changes mutable flags of a repository. Nil fields are left
// alone.
type RepoPatchRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// MirrorsRequest replaces the user mirrors or the disabled mirrors of a
// repository.
type MirrorsRequest struct {
	Mirrors []string `json:"mirrors"`
}

// CredentialsRequest sets the basic auth credentials of a repository. Empty
// values clear them.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
