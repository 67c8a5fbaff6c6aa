package store

import (
	"encoding/binary"
	"fmt"

	"pactum.dev/node/covenant"
)

// CovenantEntry is one live covenant UTXO as persisted in the store.
type CovenantEntry struct {
	Value          uint64
	CovenantType   uint16
	CovenantData   []byte
	CreationHeight uint64
}

func encodeOutpointKey(p covenant.Outpoint) []byte {
	return covenant.OutpointBytes(p)
}

func decodeOutpointKey(b []byte) (covenant.Outpoint, error) {
	return covenant.ParseOutpointBytes(b)
}

// encodeCovenantEntry writes the KV value layout:
// value u64le | covenant_type u16le | covenant_data_len CompactSize |
// covenant_data | creation_height u64le.
//
// This is a persistence format only, not a consensus wire format.
func encodeCovenantEntry(e CovenantEntry) ([]byte, error) {
	data := e.CovenantData
	if len(data) > 0xffffffff {
		return nil, fmt.Errorf("covenant entry: covenant_data too large")
	}
	covLen := covenant.CompactSize(len(data)).Encode()
	out := make([]byte, 0, 8+2+len(covLen)+len(data)+8)
	var tmp8 [8]byte
	var tmp2 [2]byte
	binary.LittleEndian.PutUint64(tmp8[:], e.Value)
	out = append(out, tmp8[:]...)
	binary.LittleEndian.PutUint16(tmp2[:], e.CovenantType)
	out = append(out, tmp2[:]...)
	out = append(out, covLen...)
	out = append(out, data...)
	binary.LittleEndian.PutUint64(tmp8[:], e.CreationHeight)
	out = append(out, tmp8[:]...)
	return out, nil
}

func decodeCovenantEntry(b []byte) (CovenantEntry, error) {
	if len(b) < 8+2+1+8 {
		return CovenantEntry{}, fmt.Errorf("covenant entry: truncated")
	}
	off := 0
	value := binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	covType := binary.LittleEndian.Uint16(b[off : off+2])
	off += 2

	covDataLenCS, n, err := covenant.DecodeCompactSize(b[off:])
	if err != nil {
		return CovenantEntry{}, fmt.Errorf("covenant entry: covenant_data_len: %w", err)
	}
	off += n
	dataLen := int(covDataLenCS)
	if dataLen < 0 || off+dataLen+8 != len(b) {
		return CovenantEntry{}, fmt.Errorf("covenant entry: bad covenant_data_len")
	}
	data := append([]byte(nil), b[off:off+dataLen]...)
	off += dataLen
	creationHeight := binary.LittleEndian.Uint64(b[off : off+8])

	return CovenantEntry{
		Value:          value,
		CovenantType:   covType,
		CovenantData:   data,
		CreationHeight: creationHeight,
	}, nil
}
