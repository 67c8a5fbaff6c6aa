package covenant

import "encoding/binary"

// Covenant type tags carried in TxOutput.CovenantType.
const (
	COV_TYPE_P2PKH uint16 = 0x0001
	COV_TYPE_TOKEN uint16 = 0x0002
	COV_TYPE_STAKE uint16 = 0x0101
	COV_TYPE_LOAN  uint16 = 0x0102
)

const (
	KEY_HASH_BYTES = 20
	TOKEN_ID_BYTES = 32

	OUTPOINT_BYTES = 36

	MAX_P2PKH_COVENANT_DATA = KEY_HASH_BYTES
	MAX_TOKEN_COVENANT_DATA = TOKEN_ID_BYTES + KEY_HASH_BYTES + 8
)

type Outpoint struct {
	TxID [32]byte
	Vout uint32
}

// OutpointBytes is the canonical 36-byte outpoint encoding:
// txid(32) || vout u32le. The same bytes appear verbatim inside oracle
// attestation messages, so this layout is a wire contract.
func OutpointBytes(p Outpoint) []byte {
	out := make([]byte, OUTPOINT_BYTES)
	copy(out[0:32], p.TxID[:])
	binary.LittleEndian.PutUint32(out[32:36], p.Vout)
	return out
}

func ParseOutpointBytes(b []byte) (Outpoint, error) {
	if len(b) != OUTPOINT_BYTES {
		return Outpoint{}, coverr(ERR_PARSE, "outpoint must be 36 bytes")
	}
	var p Outpoint
	copy(p.TxID[:], b[0:32])
	p.Vout = binary.LittleEndian.Uint32(b[32:36])
	return p, nil
}

type TxOutput struct {
	Value        uint64
	CovenantType uint16
	CovenantData []byte
}

// TxOutputBytes serializes one output:
// value u64le || covenant_type u16le || covenant_data_len CompactSize || covenant_data.
func TxOutputBytes(o TxOutput) []byte {
	out := make([]byte, 0, 8+2+9+len(o.CovenantData))
	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], o.Value)
	out = append(out, tmp8[:]...)
	var tmp2 [2]byte
	binary.LittleEndian.PutUint16(tmp2[:], o.CovenantType)
	out = append(out, tmp2[:]...)
	out = append(out, CompactSize(len(o.CovenantData)).Encode()...)
	out = append(out, o.CovenantData...)
	return out
}

// TxContext is the read-only view of the spending transaction supplied for
// one covenant evaluation. The ledger computes every field; covenant code
// only reads it. HashOutputs is the commitment digest over the serialized
// output list, ChangeValue/ChangeKeyHash describe the ledger-computed
// change output (input total minus explicitly specified amounts), and
// Locktime is the declared time-lock of the spending input.
type TxContext struct {
	Prevouts      []Outpoint
	HashOutputs   [32]byte
	Locktime      uint64
	ChangeValue   uint64
	ChangeKeyHash [KEY_HASH_BYTES]byte
}

// OutputsDigest hashes the concatenation of the serialized outputs in
// order. Order matters: any permutation yields a different digest.
func OutputsDigest(outputs []TxOutput) [32]byte {
	concat := make([]byte, 0, 64)
	for _, o := range outputs {
		concat = append(concat, TxOutputBytes(o)...)
	}
	return hash256(concat)
}
