package covenant

import (
	"testing"
)

func emptyStakingState(reserve int64) *StakingCovenant {
	return &StakingCovenant{
		ShellKeyHash:      keyHash(0xaa),
		TargetKeyHash:     keyHash(0xbb),
		ShellTokenReserve: reserve,
	}
}

// depositContext builds the TxContext a well-formed deposit spend commits to.
func depositContext(state *StakingCovenant, user [KEY_HASH_BYTES]byte, fundIn, unlockTime uint64) *TxContext {
	next := *state
	next.Staker = Staker{KeyHash: user, StakedSatoshi: fundIn, UnlockTime: unlockTime}
	next.ShellTokenReserve = state.ShellTokenReserve - int64(fundIn)

	ctx := &TxContext{
		Prevouts:      []Outpoint{makeOutpoint(0x01, 0)},
		ChangeValue:   42,
		ChangeKeyHash: keyHash(0xcc),
	}
	expected := []TxOutput{
		{Value: fundIn, CovenantType: COV_TYPE_STAKE, CovenantData: EncodeStakingCovenantData(&next)},
		BuildChangeOutput(ctx),
	}
	ctx.HashOutputs = OutputsDigest(expected)
	return ctx
}

// withdrawContext builds the TxContext a well-formed withdrawal commits to.
func withdrawContext(state *StakingCovenant, fundOut, locktime uint64) *TxContext {
	ctx := &TxContext{
		Prevouts:      []Outpoint{makeOutpoint(0x01, 0)},
		Locktime:      locktime,
		ChangeValue:   42,
		ChangeKeyHash: keyHash(0xcc),
	}
	expected := []TxOutput{
		BuildP2PKHOutput(state.Staker.KeyHash, fundOut),
		BuildChangeOutput(ctx),
	}
	ctx.HashOutputs = OutputsDigest(expected)
	return ctx
}

func TestStakingCovenantData_Roundtrip(t *testing.T) {
	s := &StakingCovenant{
		Staker:            Staker{KeyHash: keyHash(0x01), StakedSatoshi: 500, UnlockTime: 1000},
		ShellKeyHash:      keyHash(0x02),
		TargetKeyHash:     keyHash(0x03),
		ShellTokenReserve: -25,
	}
	b := EncodeStakingCovenantData(s)
	if len(b) != MAX_STAKE_COVENANT_DATA {
		t.Fatalf("len=%d, want %d", len(b), MAX_STAKE_COVENANT_DATA)
	}
	back, err := ParseStakingCovenantData(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *back != *s {
		t.Fatalf("roundtrip mismatch: %+v != %+v", back, s)
	}
}

func TestParseStakingCovenantData_BadLength(t *testing.T) {
	for _, b := range [][]byte{nil, make([]byte, MAX_STAKE_COVENANT_DATA-1), make([]byte, MAX_STAKE_COVENANT_DATA+1)} {
		_, err := ParseStakingCovenantData(b)
		if err == nil {
			t.Fatalf("expected error for len %d", len(b))
		}
		if got := mustErrCode(t, err); got != ERR_COVENANT_DATA_INVALID {
			t.Fatalf("code=%s, want %s", got, ERR_COVENANT_DATA_INVALID)
		}
	}
}

func TestValidateDeposit_OK(t *testing.T) {
	state := emptyStakingState(1000)
	user := keyHash(0x11)
	ctx := depositContext(state, user, 500, 1000)

	next, err := ValidateDeposit(state, ctx, user, 500, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Staker.StakedSatoshi != 500 || next.Staker.KeyHash != user || next.Staker.UnlockTime != 1000 {
		t.Fatalf("unexpected successor staker: %+v", next.Staker)
	}
	if next.ShellTokenReserve != 500 {
		t.Fatalf("reserve=%d, want 500", next.ShellTokenReserve)
	}
	if next.ShellKeyHash != state.ShellKeyHash || next.TargetKeyHash != state.TargetKeyHash {
		t.Fatalf("immutable keys must carry over")
	}
	// predecessor snapshot untouched
	if state.Staker.StakedSatoshi != 0 || state.ShellTokenReserve != 1000 {
		t.Fatalf("input state mutated")
	}
}

func TestValidateDeposit_AlreadyStaked(t *testing.T) {
	state := emptyStakingState(1000)
	state.Staker = Staker{KeyHash: keyHash(0x11), StakedSatoshi: 1, UnlockTime: 5}
	// Parameters are irrelevant once the slot is occupied.
	ctx := depositContext(state, keyHash(0x22), 999, 777)
	_, err := ValidateDeposit(state, ctx, keyHash(0x22), 999, 777)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := mustErrCode(t, err); got != ERR_ALREADY_STAKED {
		t.Fatalf("code=%s, want %s", got, ERR_ALREADY_STAKED)
	}
}

func TestValidateDeposit_CommitmentMismatch(t *testing.T) {
	state := emptyStakingState(1000)
	ctx := depositContext(state, keyHash(0x11), 500, 1000)
	// Spender proposes a different amount than the committed outputs carry.
	_, err := ValidateDeposit(state, ctx, keyHash(0x11), 501, 1000)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := mustErrCode(t, err); got != ERR_COMMITMENT_MISMATCH {
		t.Fatalf("code=%s, want %s", got, ERR_COMMITMENT_MISMATCH)
	}
}

func TestValidateWithdraw_OK(t *testing.T) {
	state := emptyStakingState(500)
	state.Staker = Staker{KeyHash: keyHash(0x11), StakedSatoshi: 500, UnlockTime: 1000}
	ctx := withdrawContext(state, 500, 1000)
	if err := ValidateWithdraw(state, ctx, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateWithdraw_TimeLockNotMet(t *testing.T) {
	state := emptyStakingState(500)
	state.Staker = Staker{KeyHash: keyHash(0x11), StakedSatoshi: 500, UnlockTime: 1000}
	ctx := withdrawContext(state, 500, 999)
	err := ValidateWithdraw(state, ctx, 500)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := mustErrCode(t, err); got != ERR_TIMELOCK_NOT_MET {
		t.Fatalf("code=%s, want %s", got, ERR_TIMELOCK_NOT_MET)
	}
}

func TestValidateWithdraw_AmountMismatch(t *testing.T) {
	state := emptyStakingState(500)
	state.Staker = Staker{KeyHash: keyHash(0x11), StakedSatoshi: 500, UnlockTime: 1000}
	ctx := withdrawContext(state, 499, 1000)
	err := ValidateWithdraw(state, ctx, 499)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := mustErrCode(t, err); got != ERR_AMOUNT_MISMATCH {
		t.Fatalf("code=%s, want %s", got, ERR_AMOUNT_MISMATCH)
	}
}

// The time-lock gate is checked before the amount gate.
func TestValidateWithdraw_BothViolated_TimeLockFirst(t *testing.T) {
	state := emptyStakingState(500)
	state.Staker = Staker{KeyHash: keyHash(0x11), StakedSatoshi: 500, UnlockTime: 1000}
	ctx := withdrawContext(state, 499, 1)
	err := ValidateWithdraw(state, ctx, 499)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := mustErrCode(t, err); got != ERR_TIMELOCK_NOT_MET {
		t.Fatalf("code=%s, want %s", got, ERR_TIMELOCK_NOT_MET)
	}
}

func TestValidateWithdraw_CommitmentMismatch(t *testing.T) {
	state := emptyStakingState(500)
	state.Staker = Staker{KeyHash: keyHash(0x11), StakedSatoshi: 500, UnlockTime: 1000}
	ctx := withdrawContext(state, 500, 1000)
	ctx.HashOutputs[0] ^= 0x01
	err := ValidateWithdraw(state, ctx, 500)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := mustErrCode(t, err); got != ERR_COMMITMENT_MISMATCH {
		t.Fatalf("code=%s, want %s", got, ERR_COMMITMENT_MISMATCH)
	}
}

// Deposit 500 at reserve 1000, then withdraw 500 once the lock is reached.
func TestStaking_DepositThenWithdrawScenario(t *testing.T) {
	state := emptyStakingState(1000)
	userA := keyHash(0x11)

	ctx := depositContext(state, userA, 500, 1000)
	next, err := ValidateDeposit(state, ctx, userA, 500, 1000)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if next.ShellTokenReserve != 500 {
		t.Fatalf("reserve after deposit=%d, want 500", next.ShellTokenReserve)
	}

	early := withdrawContext(next, 500, 999)
	if err := ValidateWithdraw(next, early, 500); mustErrCode(t, err) != ERR_TIMELOCK_NOT_MET {
		t.Fatalf("early withdrawal must fail on the time lock")
	}

	due := withdrawContext(next, 500, 1000)
	if err := ValidateWithdraw(next, due, 500); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
}
