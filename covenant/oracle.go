package covenant

// OracleVerifier checks that sig is a valid attestation over msg under
// pubKey. Implementations must be deterministic and side-effect-free so a
// covenant evaluation stays a pure predicate. The concrete scheme lives
// outside this package (see crypto.RabinVerifier); alternate schemes plug
// in without touching covenant logic.
type OracleVerifier interface {
	VerifyAttestation(msg []byte, sig []byte, pubKey []byte) bool
}

// Oracle attestation wire layout. The offsets are a bit-exact contract
// between the oracle and the loan covenant:
//
//	[0:36)  outpoint of the attested token UTXO (txid(32) || vout u32le)
//	[36:44) token amount u64le
//
// Trailing bytes after offset 44 are ignored here so the oracle can extend
// the message without breaking existing covenants.
const (
	ORACLE_MSG_OUTPOINT_OFFSET = 0
	ORACLE_MSG_AMOUNT_OFFSET   = OUTPOINT_BYTES
	MIN_ORACLE_MSG_BYTES       = OUTPOINT_BYTES + 8
)

type OracleAttestation struct {
	TokenOutpoint Outpoint
	TokenAmt      uint64
}

func ParseOracleMessage(msg []byte) (*OracleAttestation, error) {
	if len(msg) < MIN_ORACLE_MSG_BYTES {
		return nil, coverr(ERR_PARSE, "oracle message too short")
	}
	p, err := ParseOutpointBytes(msg[ORACLE_MSG_OUTPOINT_OFFSET : ORACLE_MSG_OUTPOINT_OFFSET+OUTPOINT_BYTES])
	if err != nil {
		return nil, err
	}
	return &OracleAttestation{
		TokenOutpoint: p,
		TokenAmt:      parseU64le(msg, ORACLE_MSG_AMOUNT_OFFSET),
	}, nil
}
