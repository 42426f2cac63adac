package cardano

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) KeyHash {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	kh, err := KeyHashFromPublicKey(pub)
	require.NoError(t, err)
	return kh
}

func TestDRepIDRoundTrip(t *testing.T) {
	kh := testKey(t)
	id := kh.DRepID()
	assert.True(t, strings.HasPrefix(id, "drep1"), id)

	parsed, err := ParseDRepID(id)
	require.NoError(t, err)
	assert.Equal(t, kh, parsed)

	parsed, err = ParseDRepID(kh.Hex())
	require.NoError(t, err)
	assert.Equal(t, kh, parsed)
}

func TestParseDRepIDRejects(t *testing.T) {
	kh := testKey(t)
	conv := kh.DRepID()

	_, err := ParseDRepID("garbage")
	assert.ErrorIs(t, err, ErrInvalidDRepID)

	// Flip the last checksum character.
	last := conv[len(conv)-1]
	repl := byte('q')
	if last == 'q' {
		repl = 'p'
	}
	_, err = ParseDRepID(conv[:len(conv)-1] + string(repl))
	assert.ErrorIs(t, err, ErrInvalidDRepID)
}

func TestKeyHashFromPublicKeySize(t *testing.T) {
	_, err := KeyHashFromPublicKey(make([]byte, 10))
	assert.Error(t, err)
}

var anchorHash = strings.Repeat("ab", 32)

func TestBuildDRepRegCert(t *testing.T) {
	kh := testKey(t)
	cert, err := NewCertBuilder(kh, 500_000_000).BuildDRepRegCert("https://x.example/d.jsonld", anchorHash)
	require.NoError(t, err)
	assert.Equal(t, KindDRepRegistration, cert.Kind)

	prefix := "84" + "10" + "82" + "00" + "581c" + kh.Hex() + "1a1dcd6500" + "82"
	assert.True(t, strings.HasPrefix(cert.Hex(), prefix), cert.Hex())
	assert.True(t, strings.HasSuffix(cert.Hex(), "5820"+anchorHash))
}

func TestBuildDRepUpdateCert(t *testing.T) {
	kh := testKey(t)
	cert, err := NewCertBuilder(kh, 0).BuildDRepUpdateCert("https://x.example/d.jsonld", anchorHash)
	require.NoError(t, err)
	assert.Equal(t, KindDRepUpdate, cert.Kind)

	url := hex.EncodeToString([]byte("https://x.example/d.jsonld"))
	want := "83" + "12" + "82" + "00" + "581c" + kh.Hex() + "82" + "78" + "1a" + url + "5820" + anchorHash
	assert.Equal(t, want, cert.Hex())
}

func TestCertValidation(t *testing.T) {
	b := NewCertBuilder(testKey(t), 1)

	_, err := b.BuildDRepRegCert("https://x.example/"+strings.Repeat("a", 128), anchorHash)
	assert.ErrorIs(t, err, ErrURLTooLong)

	_, err = b.BuildDRepRegCert("", anchorHash)
	assert.ErrorIs(t, err, ErrEmptyURL)

	_, err = b.BuildDRepUpdateCert("https://x.example", "abcd")
	assert.ErrorIs(t, err, ErrAnchorHash)

	_, err = NewCertBuilder(testKey(t), 0).BuildDRepRegCert("https://x.example", anchorHash)
	assert.ErrorIs(t, err, ErrZeroDeposit)
}
