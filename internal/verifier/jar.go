// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package verifier opens signed JAR containers and checks their signer.
//
// A container is accepted only when it carries exactly one signature block
// with exactly one signer and one certificate, the signature covers the
// manifest section of the requested entry, and the entry bytes hash to the
// digest recorded in the manifest. The entry is streamed to a callback; its
// digest is known only once the stream was read to EOF, so the certificate is
// returned after the callback finished.
package verifier

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"go.mozilla.org/pkcs7"
)

const (
	manifestPath = "META-INF/MANIFEST.MF"
	// minCertHexLength is the shortest hex encoded certificate accepted.
	minCertHexLength = 512
)

var signatureBlockExt = []string{".RSA", ".DSA", ".EC"}

// Trust names what the signing certificate must match. At most one field may
// be set. With both empty any single signer is accepted and its certificate
// is returned for the caller to pin.
type Trust struct {
	// CertificateHex is the hex encoded DER certificate.
	CertificateHex string
	// Fingerprint is the hex encoded SHA-256 of the DER certificate.
	Fingerprint string
}

// JarVerifier opens signed JAR files.
type JarVerifier struct {
	logger *logger.Logger
}

// NewJarVerifier returns a JarVerifier that logs rejected containers.
func NewJarVerifier(log *logger.Logger) *JarVerifier {
	return &JarVerifier{logger: log}
}

// Open verifies the container at file and streams entryName to fn. It returns
// the hex encoded signer certificate. An error returned by fn is passed
// through unchanged.
func (v *JarVerifier) Open(file, entryName string, expected Trust, fn func(io.Reader) error) (string, error) {
	if expected.CertificateHex != "" && expected.Fingerprint != "" {
		return "", fmt.Errorf("%w: both certificate and fingerprint given", ErrInvalidArgument)
	}

	zr, err := zip.OpenReader(file)
	if err != nil {
		return "", signingErr(err, "not a readable container")
	}
	defer zr.Close()

	cert, mf, err := v.verifySignature(&zr.Reader, entryName)
	if err != nil {
		v.logger.Err(err).Str("func", "JarVerifier.Open").Str("entry", entryName).Msg("container signature rejected")
		return "", err
	}

	certHex := hex.EncodeToString(cert.Raw)
	if err = checkTrust(certHex, cert.Raw, expected); err != nil {
		v.logger.Err(err).Str("func", "JarVerifier.Open").Str("entry", entryName).Msg("untrusted signer")
		return "", err
	}

	if err = streamEntry(&zr.Reader, mf, entryName, fn); err != nil {
		return "", err
	}

	return certHex, nil
}

func (v *JarVerifier) verifySignature(zr *zip.Reader, entryName string) (*x509.Certificate, *manifest, error) {
	var (
		mfFile  *zip.File
		sfFiles []*zip.File
		blocks  = make(map[string]*zip.File)
	)
	for _, f := range zr.File {
		dir, name := path.Split(f.Name)
		if !strings.EqualFold(dir, "META-INF/") {
			continue
		}
		upper := strings.ToUpper(name)
		switch {
		case strings.EqualFold(f.Name, manifestPath):
			mfFile = f
		case strings.HasSuffix(upper, ".SF"):
			sfFiles = append(sfFiles, f)
		default:
			for _, ext := range signatureBlockExt {
				if strings.HasSuffix(upper, ext) {
					blocks[strings.TrimSuffix(upper, ext)] = f
				}
			}
		}
	}

	if mfFile == nil {
		return nil, nil, signingErr(nil, "no manifest")
	}
	switch len(sfFiles) {
	case 0:
		return nil, nil, signingErr(nil, "container is not signed")
	case 1:
	default:
		return nil, nil, signingErr(nil, "found %d signers, expected exactly one", len(sfFiles))
	}
	if len(blocks) != 1 {
		return nil, nil, signingErr(nil, "found %d signature blocks, expected exactly one", len(blocks))
	}

	sfName := strings.ToUpper(strings.TrimSuffix(path.Base(sfFiles[0].Name), path.Ext(sfFiles[0].Name)))
	blockFile, ok := blocks[sfName]
	if !ok {
		return nil, nil, signingErr(nil, "no signature block for %s", sfFiles[0].Name)
	}

	mfRaw, err := readFile(mfFile)
	if err != nil {
		return nil, nil, signingErr(err, "reading manifest")
	}
	sfRaw, err := readFile(sfFiles[0])
	if err != nil {
		return nil, nil, signingErr(err, "reading signature file")
	}
	blockRaw, err := readFile(blockFile)
	if err != nil {
		return nil, nil, signingErr(err, "reading signature block")
	}

	p7, err := pkcs7.Parse(blockRaw)
	if err != nil {
		return nil, nil, signingErr(err, "parsing signature block")
	}
	if len(p7.Signers) != 1 {
		return nil, nil, signingErr(nil, "found %d code signers, expected exactly one", len(p7.Signers))
	}
	if len(p7.Certificates) != 1 {
		return nil, nil, signingErr(nil, "found %d certificates, expected exactly one", len(p7.Certificates))
	}
	p7.Content = sfRaw
	if err = p7.Verify(); err != nil {
		return nil, nil, signingErr(err, "signature does not match signature file")
	}

	mf, err := parseManifest(mfRaw)
	if err != nil {
		return nil, nil, signingErr(err, "parsing manifest")
	}
	sf, err := parseManifest(sfRaw)
	if err != nil {
		return nil, nil, signingErr(err, "parsing signature file")
	}
	if err = checkSignatureFile(sf, mf, entryName); err != nil {
		return nil, nil, signingErr(err, "signature file does not cover %s", entryName)
	}

	return p7.Certificates[0], mf, nil
}

func checkTrust(certHex string, der []byte, expected Trust) error {
	if len(certHex) < minCertHexLength {
		return signingErr(nil, "certificate too short: %d hex characters", len(certHex))
	}
	if expected.Fingerprint != "" {
		if got := Fingerprint(der); got != NormalizeFingerprint(expected.Fingerprint) {
			return signingErr(nil, "fingerprint mismatch: expected %s, got %s", expected.Fingerprint, got)
		}
	}
	if expected.CertificateHex != "" && !strings.EqualFold(certHex, expected.CertificateHex) {
		return signingErr(nil, "certificate does not match the trusted one")
	}
	return nil
}

// streamEntry hands the entry to fn and checks its manifest digest once the
// stream was drained.
func streamEntry(zr *zip.Reader, mf *manifest, entryName string, fn func(io.Reader) error) error {
	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == entryName {
			entry = f
			break
		}
	}
	if entry == nil {
		return signingErr(nil, "entry %s not found", entryName)
	}

	section, ok := mf.entries[entryName]
	if !ok {
		return signingErr(nil, "entry %s has no signing attributes", entryName)
	}
	newHash, want, ok := digestOf(section.attrs, "-Digest")
	if !ok {
		return signingErr(nil, "entry %s has no digest", entryName)
	}

	rc, err := entry.Open()
	if err != nil {
		return signingErr(err, "opening %s", entryName)
	}
	defer rc.Close()

	h := newHash()
	tee := io.TeeReader(rc, h)
	if err = fn(tee); err != nil {
		return err
	}
	if _, err = io.Copy(io.Discard, tee); err != nil {
		return signingErr(err, "reading %s", entryName)
	}
	if !bytes.Equal(h.Sum(nil), want) {
		return signingErr(nil, "digest mismatch for %s", entryName)
	}
	return nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Fingerprint returns the lower case hex SHA-256 of a DER certificate.
func Fingerprint(der []byte) string {
	s := sha256.Sum256(der)
	return hex.EncodeToString(s[:])
}

// FingerprintFromHex returns the fingerprint of a hex encoded certificate.
func FingerprintFromHex(certHex string) (string, error) {
	der, err := hex.DecodeString(certHex)
	if err != nil {
		return "", fmt.Errorf("%w: certificate is not hex: %w", ErrInvalidArgument, err)
	}
	return Fingerprint(der), nil
}

// NormalizeFingerprint lower-cases a fingerprint and drops the separators
// people paste along with it.
func NormalizeFingerprint(fingerprint string) string {
	return strings.ToLower(strings.NewReplacer(":", "", " ", "").Replace(fingerprint))
}
