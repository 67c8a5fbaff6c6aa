package crypto

import (
	"encoding/binary"
	"math/big"
)

// RabinVerifier checks oracle attestations under a Rabin-style
// quadratic-residue scheme: a signature (S, pad) over msg is valid for
// modulus n when
//
//	S^2 mod n == Hash256(msg || pad) mod n
//
// Verification is a single modular squaring, which is what makes the
// scheme cheap enough for on-ledger checks. Signing (computing the modular
// square root) requires the factorization of n and stays with the oracle.
//
// Wire encoding of a signature:
//
//	s_len u16le || S big-endian || pad (all remaining bytes)
//
// The oracle public key is the modulus n in big-endian bytes.
type RabinVerifier struct{}

func (RabinVerifier) VerifyAttestation(msg []byte, sig []byte, pubKey []byte) bool {
	if len(sig) < 2 || len(pubKey) == 0 {
		return false
	}
	sLen := int(binary.LittleEndian.Uint16(sig[0:2]))
	if len(sig) < 2+sLen {
		return false
	}
	s := new(big.Int).SetBytes(sig[2 : 2+sLen])
	pad := sig[2+sLen:]

	n := new(big.Int).SetBytes(pubKey)
	if n.Sign() <= 0 || s.Cmp(n) >= 0 {
		return false
	}

	preimage := make([]byte, 0, len(msg)+len(pad))
	preimage = append(preimage, msg...)
	preimage = append(preimage, pad...)
	digest := DevStdProvider{}.Hash256(preimage)

	h := new(big.Int).SetBytes(digest[:])
	h.Mod(h, n)

	sq := new(big.Int).Mul(s, s)
	sq.Mod(sq, n)
	return sq.Cmp(h) == 0
}

// EncodeRabinSignature packs (S, pad) into the wire encoding accepted by
// VerifyAttestation. S must already be reduced mod n.
func EncodeRabinSignature(s *big.Int, pad []byte) []byte {
	sBytes := s.Bytes()
	out := make([]byte, 0, 2+len(sBytes)+len(pad))
	var tmp2 [2]byte
	binary.LittleEndian.PutUint16(tmp2[:], uint16(len(sBytes)))
	out = append(out, tmp2[:]...)
	out = append(out, sBytes...)
	out = append(out, pad...)
	return out
}
