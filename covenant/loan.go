package covenant

// LoanCovenant is the persisted state of one collateralized loan. Taken is
// the only field that mutates across the loan's life (Offered -> Taken);
// settlement consumes the UTXO outright, so no terminal flag exists.
// InterestRate (percent units) and Deadline are committed but not enforced
// by any transition here.
type LoanCovenant struct {
	LenderKeyHash   [KEY_HASH_BYTES]byte
	BorrowerKeyHash [KEY_HASH_BYTES]byte
	TokenID         [TOKEN_ID_BYTES]byte
	TokenAmt        uint64
	InterestRate    uint64
	Collateral      uint64
	Deadline        uint64
	Taken           bool
	OraclePubKey    []byte
}

// fixed-width prefix before the variable-length oracle pubkey
const loanCovenantFixedBytes = KEY_HASH_BYTES + KEY_HASH_BYTES + TOKEN_ID_BYTES + 8 + 8 + 8 + 8 + 1

// EncodeLoanCovenantData serializes covenant_data:
// lender(20) || borrower(20) || token_id(32) || token_amt u64le ||
// interest_rate u64le || collateral u64le || deadline u64le || taken u8 ||
// oracle_pubkey_len CompactSize || oracle_pubkey.
func EncodeLoanCovenantData(l *LoanCovenant) []byte {
	b := make([]byte, 0, loanCovenantFixedBytes+9+len(l.OraclePubKey))
	b = append(b, l.LenderKeyHash[:]...)
	b = append(b, l.BorrowerKeyHash[:]...)
	b = append(b, l.TokenID[:]...)
	b = appendU64le(b, l.TokenAmt)
	b = appendU64le(b, l.InterestRate)
	b = appendU64le(b, l.Collateral)
	b = appendU64le(b, l.Deadline)
	taken := byte(0x00)
	if l.Taken {
		taken = 0x01
	}
	b = append(b, taken)
	b = append(b, CompactSize(len(l.OraclePubKey)).Encode()...)
	b = append(b, l.OraclePubKey...)
	return b
}

func ParseLoanCovenantData(covData []byte) (*LoanCovenant, error) {
	if covData == nil {
		return nil, coverr(ERR_COVENANT_DATA_INVALID, "nil LOAN covenant_data")
	}
	if len(covData) < loanCovenantFixedBytes+1 {
		return nil, coverr(ERR_COVENANT_DATA_INVALID, "LOAN covenant_data too short")
	}

	var l LoanCovenant
	off := 0
	copy(l.LenderKeyHash[:], covData[off:off+20])
	off += 20
	copy(l.BorrowerKeyHash[:], covData[off:off+20])
	off += 20
	copy(l.TokenID[:], covData[off:off+32])
	off += 32
	l.TokenAmt = parseU64le(covData, off)
	off += 8
	l.InterestRate = parseU64le(covData, off)
	off += 8
	l.Collateral = parseU64le(covData, off)
	off += 8
	l.Deadline = parseU64le(covData, off)
	off += 8
	switch covData[off] {
	case 0x00:
		l.Taken = false
	case 0x01:
		l.Taken = true
	default:
		return nil, coverr(ERR_COVENANT_DATA_INVALID, "LOAN taken flag invalid")
	}
	off++

	pubKeyLenCS, used, err := DecodeCompactSize(covData[off:])
	if err != nil {
		return nil, coverr(ERR_COVENANT_DATA_INVALID, "LOAN oracle_pubkey_len malformed")
	}
	off += used
	pubKeyLen := int(pubKeyLenCS)
	if pubKeyLen == 0 {
		return nil, coverr(ERR_COVENANT_DATA_INVALID, "LOAN oracle_pubkey empty")
	}
	if off+pubKeyLen != len(covData) {
		return nil, coverr(ERR_COVENANT_DATA_INVALID, "LOAN covenant_data length mismatch")
	}
	l.OraclePubKey = append([]byte(nil), covData[off:]...)
	return &l, nil
}

// ValidateBorrow evaluates the Offered -> Taken transition. The spending
// transaction must send TokenAmt of the loan token to the borrower,
// recreate the state output carrying Collateral satoshis with Taken set,
// and return change.
func ValidateBorrow(state *LoanCovenant, ctx *TxContext) (*LoanCovenant, error) {
	if state == nil {
		return nil, coverr(ERR_PARSE, "nil loan state")
	}
	if state.Taken {
		return nil, coverr(ERR_LOAN_ALREADY_TAKEN, "loan already taken")
	}

	next := *state
	next.OraclePubKey = append([]byte(nil), state.OraclePubKey...)
	next.Taken = true

	expected := []TxOutput{
		BuildTokenOutput(state.TokenID, state.BorrowerKeyHash, state.TokenAmt),
		{
			Value:        state.Collateral,
			CovenantType: COV_TYPE_LOAN,
			CovenantData: EncodeLoanCovenantData(&next),
		},
		BuildChangeOutput(ctx),
	}
	if err := VerifyOutputs(ctx, expected); err != nil {
		return nil, err
	}
	return &next, nil
}

// ValidateRepay evaluates the settlement spend of a taken loan. Checks run
// in a fixed order: taken flag, oracle signature, attestation binding to
// the transaction's second previous output, attested token amount. The
// binding check pins the attestation to the token UTXO actually spent by
// this transaction, so a stale attestation cannot be replayed against a
// different spend. On acceptance the loan token goes to the lender, the
// collateral to the borrower, and the covenant UTXO terminates.
func ValidateRepay(
	state *LoanCovenant,
	ctx *TxContext,
	verifier OracleVerifier,
	oracleMsg []byte,
	oracleSig []byte,
) error {
	if state == nil {
		return coverr(ERR_PARSE, "nil loan state")
	}
	if ctx == nil {
		return coverr(ERR_PARSE, "nil tx context")
	}
	if verifier == nil {
		return coverr(ERR_PARSE, "nil oracle verifier")
	}
	if !state.Taken {
		return coverr(ERR_LOAN_NOT_TAKEN, "loan not taken")
	}
	if !verifier.VerifyAttestation(oracleMsg, oracleSig, state.OraclePubKey) {
		return coverr(ERR_ORACLE_SIG_INVALID, "oracle attestation signature invalid")
	}
	att, err := ParseOracleMessage(oracleMsg)
	if err != nil {
		return err
	}
	if len(ctx.Prevouts) < 2 {
		return coverr(ERR_PARSE, "repay requires a second input spending the token utxo")
	}
	if att.TokenOutpoint != ctx.Prevouts[1] {
		return coverr(ERR_ORACLE_BINDING_MISMATCH, "attested outpoint differs from second prevout")
	}
	if att.TokenAmt != state.TokenAmt {
		return coverr(ERR_ORACLE_AMOUNT_MISMATCH, "attested token amount differs from loan amount")
	}

	expected := []TxOutput{
		BuildTokenOutput(state.TokenID, state.LenderKeyHash, state.TokenAmt),
		BuildP2PKHOutput(state.BorrowerKeyHash, state.Collateral),
		BuildChangeOutput(ctx),
	}
	return VerifyOutputs(ctx, expected)
}
