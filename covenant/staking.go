package covenant

import "math"

const MAX_STAKE_COVENANT_DATA = KEY_HASH_BYTES + 8 + 8 + KEY_HASH_BYTES + KEY_HASH_BYTES + 8

// Staker is the single deposit slot of a staking covenant.
// StakedSatoshi == 0 means the slot is unoccupied; a slot is never deleted,
// only reset to zero stake by a withdrawal.
type Staker struct {
	KeyHash       [KEY_HASH_BYTES]byte
	StakedSatoshi uint64
	UnlockTime    uint64
}

// StakingCovenant is the persisted state of one staking covenant instance.
// ShellKeyHash and TargetKeyHash are fixed at creation. ShellTokenReserve
// tracks a counterparty reserve: it decreases by exactly the deposited
// amount and increases by exactly the withdrawn amount. This covenant does
// not assert the reserve stays non-negative; that is a caller-side concern.
type StakingCovenant struct {
	Staker            Staker
	ShellKeyHash      [KEY_HASH_BYTES]byte
	TargetKeyHash     [KEY_HASH_BYTES]byte
	ShellTokenReserve int64
}

// EncodeStakingCovenantData serializes the fixed-width covenant_data:
// staker_key_hash(20) || staked_satoshi u64le || unlock_time u64le ||
// shell_key_hash(20) || target_key_hash(20) || shell_token_reserve i64le.
func EncodeStakingCovenantData(s *StakingCovenant) []byte {
	b := make([]byte, 0, MAX_STAKE_COVENANT_DATA)
	b = append(b, s.Staker.KeyHash[:]...)
	b = appendU64le(b, s.Staker.StakedSatoshi)
	b = appendU64le(b, s.Staker.UnlockTime)
	b = append(b, s.ShellKeyHash[:]...)
	b = append(b, s.TargetKeyHash[:]...)
	b = appendU64le(b, uint64(s.ShellTokenReserve))
	return b
}

func ParseStakingCovenantData(covData []byte) (*StakingCovenant, error) {
	if covData == nil {
		return nil, coverr(ERR_COVENANT_DATA_INVALID, "nil STAKE covenant_data")
	}
	if len(covData) != MAX_STAKE_COVENANT_DATA {
		return nil, coverr(ERR_COVENANT_DATA_INVALID, "STAKE covenant_data length mismatch")
	}
	var s StakingCovenant
	copy(s.Staker.KeyHash[:], covData[0:20])
	s.Staker.StakedSatoshi = parseU64le(covData, 20)
	s.Staker.UnlockTime = parseU64le(covData, 28)
	copy(s.ShellKeyHash[:], covData[36:56])
	copy(s.TargetKeyHash[:], covData[56:76])
	s.ShellTokenReserve = int64(parseU64le(covData, 76))
	return &s, nil
}

// ValidateDeposit evaluates a deposit spend against an empty slot. On
// acceptance it returns the successor covenant state; the spending
// transaction must recreate exactly one state output carrying fundIn plus
// the updated state, followed by the change output.
//
// unlockTime is caller-supplied and deliberately not validated against the
// current time here; it is enforced later at withdrawal.
func ValidateDeposit(
	state *StakingCovenant,
	ctx *TxContext,
	userKeyHash [KEY_HASH_BYTES]byte,
	fundIn uint64,
	unlockTime uint64,
) (*StakingCovenant, error) {
	if state == nil {
		return nil, coverr(ERR_PARSE, "nil staking state")
	}
	if state.Staker.StakedSatoshi != 0 {
		return nil, coverr(ERR_ALREADY_STAKED, "staking slot occupied")
	}
	if fundIn == 0 {
		return nil, coverr(ERR_AMOUNT_MISMATCH, "deposit of zero")
	}
	if fundIn > math.MaxInt64 {
		return nil, coverr(ERR_PARSE, "deposit exceeds reserve range")
	}

	next := *state
	next.Staker = Staker{
		KeyHash:       userKeyHash,
		StakedSatoshi: fundIn,
		UnlockTime:    unlockTime,
	}
	next.ShellTokenReserve = state.ShellTokenReserve - int64(fundIn)

	expected := []TxOutput{
		{
			Value:        fundIn,
			CovenantType: COV_TYPE_STAKE,
			CovenantData: EncodeStakingCovenantData(&next),
		},
		BuildChangeOutput(ctx),
	}
	if err := VerifyOutputs(ctx, expected); err != nil {
		return nil, err
	}
	return &next, nil
}

// ValidateWithdraw evaluates the closing spend of an occupied slot. The
// time-lock gate is checked before the amount gate. No successor state
// output exists; the covenant UTXO terminates with this spend and the full
// stake is paid back to the staker's key hash.
func ValidateWithdraw(state *StakingCovenant, ctx *TxContext, fundOut uint64) error {
	if state == nil {
		return coverr(ERR_PARSE, "nil staking state")
	}
	if ctx == nil {
		return coverr(ERR_PARSE, "nil tx context")
	}
	if ctx.Locktime < state.Staker.UnlockTime {
		return coverr(ERR_TIMELOCK_NOT_MET, "declared lock earlier than unlock_time")
	}
	if fundOut != state.Staker.StakedSatoshi {
		return coverr(ERR_AMOUNT_MISMATCH, "withdrawal must equal staked amount")
	}

	expected := []TxOutput{
		BuildP2PKHOutput(state.Staker.KeyHash, fundOut),
		BuildChangeOutput(ctx),
	}
	return VerifyOutputs(ctx, expected)
}
