package verifier

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	data := []byte("Manifest-Version: 1.0\r\n" +
		"Created-By: test\r\n" +
		"\r\n" +
		"Name: a/very/long/path/that/wraps/over/the/seventy-two/byte/line/limit/en\r\n" +
		" try.json\r\n" +
		"SHA-256-Digest: abc=\r\n" +
		"\r\n" +
		"Name: index-v1.json\n" +
		"SHA1-Digest: def=\n")

	m, err := parseManifest(data)
	require.NoError(t, err)

	assert.Equal(t, "1.0", m.main.attrs["Manifest-Version"])
	require.Len(t, m.entries, 2)

	long := m.entries["a/very/long/path/that/wraps/over/the/seventy-two/byte/line/limit/entry.json"]
	assert.Equal(t, "abc=", long.attrs["SHA-256-Digest"])
	assert.Equal(t, "Name: a/very/long/path/that/wraps/over/the/seventy-two/byte/line/limit/en\r\n try.json\r\nSHA-256-Digest: abc=\r\n\r\n", string(long.raw))

	assert.Equal(t, "def=", m.entries["index-v1.json"].attrs["SHA1-Digest"])
}

func TestParseManifest_Invalid(t *testing.T) {
	for _, data := range []string{
		"Manifest-Version: 1.0\r\n\r\nSHA-256-Digest: abc=\r\n",
		" leading continuation\r\n",
		"no separator here\r\n",
	} {
		_, err := parseManifest([]byte(data))
		assert.Error(t, err, data)
	}
}

func TestCheckSignatureFile_SectionFallback(t *testing.T) {
	section := "Name: entry.json\r\nSHA-256-Digest: xyz=\r\n\r\n"
	mf, err := parseManifest([]byte("Manifest-Version: 1.0\r\n\r\n" + section))
	require.NoError(t, err)

	digest := sha256.Sum256([]byte(section))
	sf, err := parseManifest([]byte("Signature-Version: 1.0\r\n" +
		"SHA-256-Digest-Manifest: AAAA\r\n\r\n" +
		"Name: entry.json\r\nSHA-256-Digest: " + base64.StdEncoding.EncodeToString(digest[:]) + "\r\n\r\n"))
	require.NoError(t, err)

	assert.NoError(t, checkSignatureFile(sf, mf, "entry.json"))
	assert.Error(t, checkSignatureFile(sf, mf, "other.json"))
}
