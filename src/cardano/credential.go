package cardano

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

// DRepHRP is the bech32 human readable part of DRep ids.
const DRepHRP = "drep"

// KeyHashSize is the size of a blake2b-224 credential hash.
const KeyHashSize = 28

var ErrInvalidDRepID = errors.New("invalid drep id")

// KeyHash is a DRep credential: blake2b-224 of the verification key.
type KeyHash [KeyHashSize]byte

// KeyHashFromPublicKey hashes an ed25519 verification key.
func KeyHashFromPublicKey(pub ed25519.PublicKey) (KeyHash, error) {
	var kh KeyHash
	if len(pub) != ed25519.PublicKeySize {
		return kh, fmt.Errorf("public key: want %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	h, err := blake2b.New(KeyHashSize, nil)
	if err != nil {
		return kh, err
	}
	h.Write(pub)
	copy(kh[:], h.Sum(nil))
	return kh, nil
}

func (k KeyHash) Hex() string { return hex.EncodeToString(k[:]) }

// DRepID returns the bech32 DRep id.
func (k KeyHash) DRepID() string {
	conv, err := bech32.ConvertBits(k[:], 8, 5, true)
	if err != nil {
		return ""
	}
	id, err := bech32.Encode(DRepHRP, conv)
	if err != nil {
		return ""
	}
	return id
}

func (k KeyHash) String() string { return k.DRepID() }

// ParseDRepID accepts a bech32 DRep id or the hex encoded key hash.
func ParseDRepID(s string) (KeyHash, error) {
	var kh KeyHash
	s = strings.TrimSpace(s)
	if len(s) == hex.EncodedLen(KeyHashSize) {
		if raw, err := hex.DecodeString(s); err == nil {
			copy(kh[:], raw)
			return kh, nil
		}
	}

	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return kh, fmt.Errorf("%w: %v", ErrInvalidDRepID, err)
	}
	if hrp != DRepHRP {
		return kh, fmt.Errorf("%w: prefix %q", ErrInvalidDRepID, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return kh, fmt.Errorf("%w: %v", ErrInvalidDRepID, err)
	}
	if len(raw) != KeyHashSize {
		return kh, fmt.Errorf("%w: %d byte credential", ErrInvalidDRepID, len(raw))
	}
	copy(kh[:], raw)
	return kh, nil
}

// DRepIDFromPublicKey is a shorthand for hashing a key and encoding the id.
func DRepIDFromPublicKey(pub ed25519.PublicKey) (string, error) {
	kh, err := KeyHashFromPublicKey(pub)
	if err != nil {
		return "", err
	}
	return kh.DRepID(), nil
}
