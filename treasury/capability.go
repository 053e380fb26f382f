package treasury

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// capSecretLen is the length of the capability secret in bytes.
const capSecretLen = 32

// AdminCap authorizes every mutating and fund-moving operation on one
// vesting store. It is issued exactly once, at store creation, and is
// the sole authorization mechanism: possession of the secret, not the
// creator identity, is what authorizes mutation.
//
// The fields are unexported so a capability cannot be assembled from an
// identity alone; the only legitimate sources are Engine.CreateStore and
// ParseToken on a token previously exported by the holder. The store
// record keeps only a SHA-256d digest of the secret, so stored state
// never reveals the capability.
type AdminCap struct {
	creator string
	secret  [capSecretLen]byte
}

// newAdminCap issues a capability for a creator with a fresh random secret.
func newAdminCap(creator string) (*AdminCap, error) {
	c := &AdminCap{creator: creator}
	if _, err := rand.Read(c.secret[:]); err != nil {
		return nil, fmt.Errorf("treasury: generate capability secret: %w", err)
	}
	return c, nil
}

// Creator returns the identity the capability is bound to.
func (c *AdminCap) Creator() string { return c.creator }

// digest returns the SHA-256d commitment stored in the store record.
func (c *AdminCap) digest() []byte {
	return bsvhash.Sha256d(c.secret[:])
}

// Token exports the capability as "creator:hex(secret)" so the holder
// can persist it across processes. Anyone holding the token holds the
// capability; treat it like a private key.
func (c *AdminCap) Token() string {
	return c.creator + ":" + hex.EncodeToString(c.secret[:])
}

// ParseToken reconstructs a capability from its Token form. The result
// still has to match the store's recorded digest to authorize anything.
func ParseToken(token string) (*AdminCap, error) {
	idx := strings.LastIndexByte(token, ':')
	if idx <= 0 {
		return nil, fmt.Errorf("%w: missing separator", ErrInvalidToken)
	}

	secret, err := hex.DecodeString(token[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if len(secret) != capSecretLen {
		return nil, fmt.Errorf("%w: secret must be %d bytes, got %d",
			ErrInvalidToken, capSecretLen, len(secret))
	}

	c := &AdminCap{creator: token[:idx]}
	copy(c.secret[:], secret)
	return c, nil
}

// matches reports whether the capability's digest equals the recorded
// one, in constant time.
func (c *AdminCap) matches(recorded []byte) bool {
	digest := c.digest()
	return len(recorded) == len(digest) &&
		subtle.ConstantTimeCompare(digest, recorded) == 1
}
