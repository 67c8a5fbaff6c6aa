package covenant

// BuildP2PKHOutput serializes a plain value payment to a key hash.
func BuildP2PKHOutput(keyHash [KEY_HASH_BYTES]byte, value uint64) TxOutput {
	return TxOutput{
		Value:        value,
		CovenantType: COV_TYPE_P2PKH,
		CovenantData: append([]byte(nil), keyHash[:]...),
	}
}

// BuildTokenOutput serializes a fungible-token transfer:
// token_id(32) || key_hash(20) || token_amount u64le. The satoshi value of
// a token output is zero; token accounting rides entirely in covenant_data.
func BuildTokenOutput(tokenID [TOKEN_ID_BYTES]byte, keyHash [KEY_HASH_BYTES]byte, amount uint64) TxOutput {
	data := make([]byte, 0, MAX_TOKEN_COVENANT_DATA)
	data = append(data, tokenID[:]...)
	data = append(data, keyHash[:]...)
	data = appendU64le(data, amount)
	return TxOutput{
		Value:        0,
		CovenantType: COV_TYPE_TOKEN,
		CovenantData: data,
	}
}

// BuildChangeOutput returns the ledger-computed change output. The covenant
// never derives the change amount itself; it echoes what the transaction
// context declares so the digest comparison pins it.
func BuildChangeOutput(ctx *TxContext) TxOutput {
	return BuildP2PKHOutput(ctx.ChangeKeyHash, ctx.ChangeValue)
}

// VerifyOutputs recomputes the commitment digest over the expected outputs
// and compares it with the digest the spending transaction committed to.
// This comparison is the only mechanism constraining the spender's
// transaction shape.
func VerifyOutputs(ctx *TxContext, expected []TxOutput) error {
	if ctx == nil {
		return coverr(ERR_PARSE, "nil tx context")
	}
	if OutputsDigest(expected) != ctx.HashOutputs {
		return coverr(ERR_COMMITMENT_MISMATCH, "reconstructed outputs digest mismatch")
	}
	return nil
}
