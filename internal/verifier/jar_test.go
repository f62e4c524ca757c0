package verifier

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/verifier/jartest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entryName = "entry.json"

var entryContent = []byte(`{"timestamp": 1700000000000, "version": 20001, "index": {"name": "/index-v2.json"}}`)

func readAll(dst *[]byte) func(io.Reader) error {
	return func(r io.Reader) error {
		data, err := io.ReadAll(r)
		*dst = data
		return err
	}
}

// ── Open: accepted containers ────────────────────────────────────────────────

func TestJarVerifier_Open(t *testing.T) {
	signer := jartest.NewSigner(t)
	jar := signer.WriteJar(t, t.TempDir(), map[string][]byte{entryName: entryContent})

	tests := []struct {
		name     string
		expected Trust
	}{
		{name: "trust on first use", expected: Trust{}},
		{name: "matching fingerprint", expected: Trust{Fingerprint: signer.Fingerprint()}},
		{name: "upper case fingerprint", expected: Trust{Fingerprint: strings.ToUpper(signer.Fingerprint())}},
		{name: "matching certificate", expected: Trust{CertificateHex: signer.CertificateHex()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []byte
			certHex, err := NewJarVerifier(logger.Nop()).Open(jar, entryName, tt.expected, readAll(&got))
			require.NoError(t, err)
			assert.Equal(t, signer.CertificateHex(), certHex)
			assert.Equal(t, entryContent, got)
		})
	}
}

func TestJarVerifier_Open_CallbackDoesNotDrain(t *testing.T) {
	signer := jartest.NewSigner(t)
	jar := signer.WriteJar(t, t.TempDir(), map[string][]byte{entryName: entryContent})

	certHex, err := NewJarVerifier(logger.Nop()).Open(jar, entryName, Trust{}, func(r io.Reader) error {
		buf := make([]byte, 4)
		_, err := io.ReadFull(r, buf)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, signer.CertificateHex(), certHex)
}

func TestJarVerifier_Open_CallbackError(t *testing.T) {
	signer := jartest.NewSigner(t)
	jar := signer.WriteJar(t, t.TempDir(), map[string][]byte{entryName: entryContent})
	errCallback := errors.New("callback failed")

	certHex, err := NewJarVerifier(logger.Nop()).Open(jar, entryName, Trust{}, func(io.Reader) error {
		return errCallback
	})
	require.ErrorIs(t, err, errCallback)
	assert.NotErrorIs(t, err, ErrSigning)
	assert.Empty(t, certHex)
}

// ── Open: rejected containers ────────────────────────────────────────────────

func TestJarVerifier_Open_Rejected(t *testing.T) {
	signer := jartest.NewSigner(t)
	other := jartest.NewSigner(t)
	entries := map[string][]byte{entryName: entryContent}

	tests := []struct {
		name         string
		jar          []byte
		entry        string
		expected     Trust
		wantCallback bool
	}{
		{
			name:  "unsigned",
			jar:   signer.Build(t, entries, jartest.Unsigned()),
			entry: entryName,
		},
		{
			name:  "two certificates",
			jar:   signer.Build(t, entries, jartest.ExtraCertificate(other.Cert)),
			entry: entryName,
		},
		{
			name:  "two signers",
			jar:   signer.Build(t, entries, jartest.SecondSigner(other)),
			entry: entryName,
		},
		{
			name:     "wrong fingerprint",
			jar:      signer.Build(t, entries),
			entry:    entryName,
			expected: Trust{Fingerprint: other.Fingerprint()},
		},
		{
			name:     "wrong certificate",
			jar:      signer.Build(t, entries),
			entry:    entryName,
			expected: Trust{CertificateHex: other.CertificateHex()},
		},
		{
			name:  "missing entry",
			jar:   signer.Build(t, entries),
			entry: "index-v1.json",
		},
		{
			name:         "tampered entry",
			jar:          signer.Build(t, entries, jartest.ReplaceEntry(entryName, []byte(`{"timestamp": 1}`))),
			entry:        entryName,
			wantCallback: true,
		},
		{
			name:  "not a zip",
			jar:   []byte("definitely not a jar"),
			entry: entryName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test.jar")
			require.NoError(t, os.WriteFile(path, tt.jar, 0o600))

			called := false
			certHex, err := NewJarVerifier(logger.Nop()).Open(path, tt.entry, tt.expected, func(r io.Reader) error {
				called = true
				_, err := io.Copy(io.Discard, r)
				return err
			})

			require.ErrorIs(t, err, ErrSigning)
			var signingErr *SigningError
			require.ErrorAs(t, err, &signingErr)
			assert.NotEmpty(t, signingErr.Reason)
			assert.Empty(t, certHex)
			assert.Equal(t, tt.wantCallback, called)
		})
	}
}

func TestJarVerifier_Open_BothExpectations(t *testing.T) {
	signer := jartest.NewSigner(t)
	jar := signer.WriteJar(t, t.TempDir(), map[string][]byte{entryName: entryContent})

	_, err := NewJarVerifier(logger.Nop()).Open(jar, entryName, Trust{
		CertificateHex: signer.CertificateHex(),
		Fingerprint:    signer.Fingerprint(),
	}, func(io.Reader) error {
		t.Fatal("callback must not run")
		return nil
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.NotErrorIs(t, err, ErrSigning)
}

// ── Fingerprints ─────────────────────────────────────────────────────────────

func TestFingerprintFromHex(t *testing.T) {
	signer := jartest.NewSigner(t)

	fp, err := FingerprintFromHex(signer.CertificateHex())
	require.NoError(t, err)
	assert.Equal(t, signer.Fingerprint(), fp)

	_, err = FingerprintFromHex("zz")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNormalizeFingerprint(t *testing.T) {
	assert.Equal(t, "abcdef01", NormalizeFingerprint("AB:CD EF:01"))
}
