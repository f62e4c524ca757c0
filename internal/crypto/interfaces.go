// Package crypto seals repository credentials before they reach the database.
package crypto

// CredentialSealer encrypts and decrypts stored secrets.
//
// Sealed values are self-describing: [CredentialSealer.Open] passes values
// that were never sealed through unchanged, so rows written before a key was
// configured keep working.
type CredentialSealer interface {
	// Seal encrypts plain. The empty string stays empty.
	Seal(plain string) (string, error)

	// Open reverses Seal. It fails with [ErrWrongKey] when the value was
	// sealed with another key and with [ErrNoKey] when no key is configured.
	Open(stored string) (string, error)
}
