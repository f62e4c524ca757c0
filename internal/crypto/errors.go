package crypto

import "errors"

var (
	ErrNoKey         = errors.New("sealed credential found but no credentials key is configured")
	ErrWrongKey      = errors.New("credential was sealed with another key")
	ErrMalformedSeal = errors.New("malformed sealed credential")
)
