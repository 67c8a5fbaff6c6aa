package crypto

// Provider is the narrow hashing interface used by covenant tooling.
// Implementations may provide hardware or native backends.
type Provider interface {
	Hash256(input []byte) [32]byte
	Hash160(input []byte) [20]byte
}
