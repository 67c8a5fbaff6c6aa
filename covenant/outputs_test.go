package covenant

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func keyHash(tag byte) [KEY_HASH_BYTES]byte {
	var k [KEY_HASH_BYTES]byte
	for i := range k {
		k[i] = tag
	}
	return k
}

func tokenID(tag byte) [TOKEN_ID_BYTES]byte {
	var id [TOKEN_ID_BYTES]byte
	id[0] = tag
	return id
}

func TestBuildP2PKHOutput(t *testing.T) {
	out := BuildP2PKHOutput(keyHash(0x42), 1234)
	if out.Value != 1234 || out.CovenantType != COV_TYPE_P2PKH {
		t.Fatalf("unexpected output header")
	}
	if len(out.CovenantData) != MAX_P2PKH_COVENANT_DATA {
		t.Fatalf("unexpected covenant_data length %d", len(out.CovenantData))
	}
}

func TestBuildTokenOutput_Layout(t *testing.T) {
	out := BuildTokenOutput(tokenID(0x07), keyHash(0x42), 100)
	if out.Value != 0 {
		t.Fatalf("token output satoshi value must be 0")
	}
	if out.CovenantType != COV_TYPE_TOKEN {
		t.Fatalf("unexpected covenant type")
	}
	data := out.CovenantData
	if len(data) != MAX_TOKEN_COVENANT_DATA {
		t.Fatalf("unexpected covenant_data length %d", len(data))
	}
	id := tokenID(0x07)
	kh := keyHash(0x42)
	if !bytes.Equal(data[0:32], id[:]) || !bytes.Equal(data[32:52], kh[:]) {
		t.Fatalf("token id / key hash layout mismatch")
	}
	if binary.LittleEndian.Uint64(data[52:60]) != 100 {
		t.Fatalf("token amount layout mismatch")
	}
}

func TestBuildChangeOutput_EchoesContext(t *testing.T) {
	ctx := &TxContext{ChangeValue: 77, ChangeKeyHash: keyHash(0x99)}
	out := BuildChangeOutput(ctx)
	if out.Value != 77 || out.CovenantType != COV_TYPE_P2PKH {
		t.Fatalf("change output must echo context")
	}
	kh := keyHash(0x99)
	if !bytes.Equal(out.CovenantData, kh[:]) {
		t.Fatalf("change key hash mismatch")
	}
}

func TestVerifyOutputs_MatchAndMismatch(t *testing.T) {
	expected := []TxOutput{
		BuildP2PKHOutput(keyHash(0x01), 10),
		BuildP2PKHOutput(keyHash(0x02), 20),
	}
	ctx := &TxContext{HashOutputs: OutputsDigest(expected)}
	if err := VerifyOutputs(ctx, expected); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Any permutation must fail.
	permuted := []TxOutput{expected[1], expected[0]}
	err := VerifyOutputs(ctx, permuted)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := mustErrCode(t, err); got != ERR_COMMITMENT_MISMATCH {
		t.Fatalf("code=%s, want %s", got, ERR_COMMITMENT_MISMATCH)
	}
}

func TestVerifyOutputs_NilContext(t *testing.T) {
	err := VerifyOutputs(nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := mustErrCode(t, err); got != ERR_PARSE {
		t.Fatalf("code=%s, want %s", got, ERR_PARSE)
	}
}
