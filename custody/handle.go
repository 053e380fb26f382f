package custody

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"golang.org/x/crypto/hkdf"
)

const (
	// HandleInfo is the constant info string used in HKDF-SHA256 custody
	// handle derivation.
	HandleInfo = "libvest-custody-handle"

	// HandleLen is the length of a derived handle in bytes (hex-encoded
	// to twice this many characters).
	HandleLen = 32
)

// DeriveHandle derives the custody sub-identity that holds a store's
// reserve balance. The derivation is deterministic in (creator, asset),
// so third parties can recompute the handle and deposit funds into the
// reserve, yet the handle never collides with the creator identity:
// the creator's own balance stays untouched by vesting operations.
//
// The HKDF parameters are:
//   - IKM  = SHA256d(creator)
//   - Salt = SHA256(asset)
//   - Info = "libvest-custody-handle"
//   - Len  = 32
//
// The result is returned hex-encoded.
func DeriveHandle(creator, asset string) (string, error) {
	if creator == "" {
		return "", ErrEmptyHolder
	}
	if asset == "" {
		return "", ErrEmptyAsset
	}

	ikm := bsvhash.Sha256d([]byte(creator))
	salt := bsvhash.Sha256([]byte(asset))

	hkdfReader := hkdf.New(sha256.New, ikm, salt, []byte(HandleInfo))
	handle := make([]byte, HandleLen)
	if _, err := io.ReadFull(hkdfReader, handle); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDeriveHandle, err)
	}
	return hex.EncodeToString(handle), nil
}
