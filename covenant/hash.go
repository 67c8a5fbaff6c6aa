package covenant

import "crypto/sha256"

// hash256 is the ledger-standard double SHA-256.
func hash256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}
