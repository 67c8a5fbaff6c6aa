package covenant

import "encoding/binary"

func appendU64le(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func parseU64le(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}
