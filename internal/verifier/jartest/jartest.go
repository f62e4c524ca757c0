// Package jartest builds signed JAR containers for tests.
package jartest

import (
	"archive/zip"
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"go.mozilla.org/pkcs7"
)

// Signer is a throwaway RSA key with a self-signed certificate.
type Signer struct {
	Key  *rsa.PrivateKey
	Cert *x509.Certificate
}

// NewSigner generates a fresh signer.
func NewSigner(tb testing.TB) *Signer {
	tb.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("generate key: %v", err)
	}
	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		tb.Fatalf("serial: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: "repo signer", Organization: []string{"go-repo-sync"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		tb.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		tb.Fatalf("parse certificate: %v", err)
	}
	return &Signer{Key: key, Cert: cert}
}

// CertificateHex returns the hex encoded DER certificate.
func (s *Signer) CertificateHex() string {
	return hex.EncodeToString(s.Cert.Raw)
}

// Fingerprint returns the hex SHA-256 of the DER certificate.
func (s *Signer) Fingerprint() string {
	sum := sha256.Sum256(s.Cert.Raw)
	return hex.EncodeToString(sum[:])
}

type options struct {
	unsigned     bool
	extraCerts   []*x509.Certificate
	extraSigners []*Signer
	replaced     map[string][]byte
}

// Option changes how a container is built.
type Option func(*options)

// Unsigned leaves out the signature file and block.
func Unsigned() Option {
	return func(o *options) { o.unsigned = true }
}

// ExtraCertificate adds cert to every signature block.
func ExtraCertificate(cert *x509.Certificate) Option {
	return func(o *options) { o.extraCerts = append(o.extraCerts, cert) }
}

// SecondSigner signs the container a second time with other.
func SecondSigner(other *Signer) Option {
	return func(o *options) { o.extraSigners = append(o.extraSigners, other) }
}

// ReplaceEntry stores content for name while the manifest keeps the digest of
// the original entry.
func ReplaceEntry(name string, content []byte) Option {
	return func(o *options) {
		if o.replaced == nil {
			o.replaced = make(map[string][]byte)
		}
		o.replaced[name] = content
	}
}

// Build returns a JAR holding entries, signed by s.
func (s *Signer) Build(tb testing.TB, entries map[string][]byte, opts ...Option) []byte {
	tb.Helper()

	var cfg options
	for _, o := range opts {
		o(&cfg)
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var mf bytes.Buffer
	mf.WriteString("Manifest-Version: 1.0\r\nCreated-By: jartest\r\n\r\n")
	sections := make(map[string][]byte, len(names))
	for _, name := range names {
		digest := sha256.Sum256(entries[name])
		section := fmt.Sprintf("Name: %s\r\nSHA-256-Digest: %s\r\n\r\n", name, base64.StdEncoding.EncodeToString(digest[:]))
		sections[name] = []byte(section)
		mf.WriteString(section)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, data []byte) {
		w, err := zw.Create(name)
		if err != nil {
			tb.Fatalf("create %s: %v", name, err)
		}
		if _, err = w.Write(data); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}

	write("META-INF/MANIFEST.MF", mf.Bytes())
	if !cfg.unsigned {
		sf := signatureFile(mf.Bytes(), names, sections)
		for i, signer := range append([]*Signer{s}, cfg.extraSigners...) {
			base := "META-INF/CERT"
			if i > 0 {
				base = fmt.Sprintf("META-INF/CERT%d", i)
			}
			write(base+".SF", sf)
			write(base+".RSA", signer.sign(tb, sf, cfg.extraCerts))
		}
	}
	for _, name := range names {
		content := entries[name]
		if replaced, ok := cfg.replaced[name]; ok {
			content = replaced
		}
		write(name, content)
	}

	if err := zw.Close(); err != nil {
		tb.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// WriteJar builds a container and writes it to a new file under dir.
func (s *Signer) WriteJar(tb testing.TB, dir string, entries map[string][]byte, opts ...Option) string {
	tb.Helper()
	f, err := os.CreateTemp(dir, "*.jar")
	if err != nil {
		tb.Fatalf("create jar: %v", err)
	}
	defer f.Close()
	if _, err = f.Write(s.Build(tb, entries, opts...)); err != nil {
		tb.Fatalf("write jar: %v", err)
	}
	return filepath.Clean(f.Name())
}

func signatureFile(manifest []byte, names []string, sections map[string][]byte) []byte {
	var sf bytes.Buffer
	whole := sha256.Sum256(manifest)
	fmt.Fprintf(&sf, "Signature-Version: 1.0\r\nSHA-256-Digest-Manifest: %s\r\nCreated-By: jartest\r\n\r\n",
		base64.StdEncoding.EncodeToString(whole[:]))
	for _, name := range names {
		digest := sha256.Sum256(sections[name])
		fmt.Fprintf(&sf, "Name: %s\r\nSHA-256-Digest: %s\r\n\r\n", name, base64.StdEncoding.EncodeToString(digest[:]))
	}
	return sf.Bytes()
}

func (s *Signer) sign(tb testing.TB, content []byte, extraCerts []*x509.Certificate) []byte {
	tb.Helper()
	sd, err := pkcs7.NewSignedData(content)
	if err != nil {
		tb.Fatalf("signed data: %v", err)
	}
	sd.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)
	if err = sd.AddSigner(s.Cert, s.Key, pkcs7.SignerInfoConfig{}); err != nil {
		tb.Fatalf("add signer: %v", err)
	}
	for _, c := range extraCerts {
		sd.AddCertificate(c)
	}
	sd.Detach()
	der, err := sd.Finish()
	if err != nil {
		tb.Fatalf("finish signature: %v", err)
	}
	return der
}
