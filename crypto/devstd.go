package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ledger-standard address digest
)

// DevStdProvider is the default pure-Go provider.
type DevStdProvider struct{}

// Hash256 is the ledger-standard double SHA-256.
func (p DevStdProvider) Hash256(input []byte) [32]byte {
	first := sha256.Sum256(input)
	return sha256.Sum256(first[:])
}

// Hash160 is SHA-256 followed by RIPEMD-160, the address payload digest.
func (p DevStdProvider) Hash160(input []byte) [20]byte {
	first := sha256.Sum256(input)
	h := ripemd160.New()
	_, _ = h.Write(first[:])
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
