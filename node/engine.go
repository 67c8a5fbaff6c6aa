package node

import (
	"pactum.dev/node/covenant"
	"pactum.dev/node/node/store"
)

// SpendProposal carries everything one covenant evaluation needs: the
// outpoint of the covenant UTXO being spent, the proposed spending txid,
// the sum of the additional (non-covenant) input values, and the read-only
// transaction context the ledger supplies.
type SpendProposal struct {
	Covenant     covenant.Outpoint
	SpendTxID    [32]byte
	FundingValue uint64
	Height       uint64
	Ctx          covenant.TxContext
}

// Engine drives covenant evaluations against the persistent UTXO store.
// Acceptance advances the store: the spent entry is deleted and, for
// state-preserving operations, the successor entry is written under the
// spend's outpoint. Rejection leaves the store untouched.
type Engine struct {
	db *store.DB
}

func NewEngine(db *store.DB) *Engine {
	return &Engine{db: db}
}

func (e *Engine) loadEntry(p *SpendProposal, wantType uint16) (store.CovenantEntry, error) {
	entry, ok, err := e.db.GetCovenant(p.Covenant)
	if err != nil {
		return store.CovenantEntry{}, err
	}
	if !ok {
		return store.CovenantEntry{}, &covenant.CovenantError{Code: covenant.ERR_MISSING_UTXO, Msg: "covenant utxo not found"}
	}
	if entry.CovenantType != wantType {
		return store.CovenantEntry{}, &covenant.CovenantError{Code: covenant.ERR_COVENANT_DATA_INVALID, Msg: "covenant type mismatch"}
	}
	if len(p.Ctx.Prevouts) == 0 || p.Ctx.Prevouts[0] != p.Covenant {
		return store.CovenantEntry{}, &covenant.CovenantError{Code: covenant.ERR_PARSE, Msg: "first prevout must spend the covenant utxo"}
	}
	return entry, nil
}

func checkConservation(entry store.CovenantEntry, p *SpendProposal, explicitOut uint64) error {
	sumIn := entry.Value + p.FundingValue
	if sumIn < entry.Value {
		return &covenant.CovenantError{Code: covenant.ERR_PARSE, Msg: "input sum overflow"}
	}
	sumOut := explicitOut + p.Ctx.ChangeValue
	if sumOut < explicitOut {
		return &covenant.CovenantError{Code: covenant.ERR_PARSE, Msg: "output sum overflow"}
	}
	if sumOut > sumIn {
		return &covenant.CovenantError{Code: covenant.ERR_VALUE_CONSERVATION, Msg: "sum_out exceeds sum_in"}
	}
	return nil
}

// ApplyDeposit evaluates a deposit spend and, on acceptance, replaces the
// staking covenant UTXO with its successor at output index 0 of the spend.
func (e *Engine) ApplyDeposit(
	p *SpendProposal,
	userKeyHash [covenant.KEY_HASH_BYTES]byte,
	fundIn uint64,
	unlockTime uint64,
) (covenant.Outpoint, error) {
	entry, err := e.loadEntry(p, covenant.COV_TYPE_STAKE)
	if err != nil {
		return covenant.Outpoint{}, err
	}
	state, err := covenant.ParseStakingCovenantData(entry.CovenantData)
	if err != nil {
		return covenant.Outpoint{}, err
	}
	next, err := covenant.ValidateDeposit(state, &p.Ctx, userKeyHash, fundIn, unlockTime)
	if err != nil {
		return covenant.Outpoint{}, err
	}
	if err := checkConservation(entry, p, fundIn); err != nil {
		return covenant.Outpoint{}, err
	}

	successor := covenant.Outpoint{TxID: p.SpendTxID, Vout: 0}
	if err := e.db.ReplaceCovenant(p.Covenant, successor, &store.CovenantEntry{
		Value:          fundIn,
		CovenantType:   covenant.COV_TYPE_STAKE,
		CovenantData:   covenant.EncodeStakingCovenantData(next),
		CreationHeight: p.Height,
	}); err != nil {
		return covenant.Outpoint{}, err
	}
	return successor, nil
}

// ApplyWithdraw evaluates a withdrawal; acceptance terminates the covenant
// UTXO without a successor.
func (e *Engine) ApplyWithdraw(p *SpendProposal, fundOut uint64) error {
	entry, err := e.loadEntry(p, covenant.COV_TYPE_STAKE)
	if err != nil {
		return err
	}
	state, err := covenant.ParseStakingCovenantData(entry.CovenantData)
	if err != nil {
		return err
	}
	if err := covenant.ValidateWithdraw(state, &p.Ctx, fundOut); err != nil {
		return err
	}
	if err := checkConservation(entry, p, fundOut); err != nil {
		return err
	}
	return e.db.ReplaceCovenant(p.Covenant, covenant.Outpoint{}, nil)
}

// ApplyBorrow evaluates the loan's Offered -> Taken transition; the
// successor state output sits at output index 1, after the token transfer.
func (e *Engine) ApplyBorrow(p *SpendProposal) (covenant.Outpoint, error) {
	entry, err := e.loadEntry(p, covenant.COV_TYPE_LOAN)
	if err != nil {
		return covenant.Outpoint{}, err
	}
	state, err := covenant.ParseLoanCovenantData(entry.CovenantData)
	if err != nil {
		return covenant.Outpoint{}, err
	}
	next, err := covenant.ValidateBorrow(state, &p.Ctx)
	if err != nil {
		return covenant.Outpoint{}, err
	}
	if err := checkConservation(entry, p, state.Collateral); err != nil {
		return covenant.Outpoint{}, err
	}

	successor := covenant.Outpoint{TxID: p.SpendTxID, Vout: 1}
	if err := e.db.ReplaceCovenant(p.Covenant, successor, &store.CovenantEntry{
		Value:          state.Collateral,
		CovenantType:   covenant.COV_TYPE_LOAN,
		CovenantData:   covenant.EncodeLoanCovenantData(next),
		CreationHeight: p.Height,
	}); err != nil {
		return covenant.Outpoint{}, err
	}
	return successor, nil
}

// ApplyRepay evaluates the settlement of a taken loan; acceptance
// terminates the covenant UTXO.
func (e *Engine) ApplyRepay(
	p *SpendProposal,
	verifier covenant.OracleVerifier,
	oracleMsg []byte,
	oracleSig []byte,
) error {
	entry, err := e.loadEntry(p, covenant.COV_TYPE_LOAN)
	if err != nil {
		return err
	}
	state, err := covenant.ParseLoanCovenantData(entry.CovenantData)
	if err != nil {
		return err
	}
	if err := covenant.ValidateRepay(state, &p.Ctx, verifier, oracleMsg, oracleSig); err != nil {
		return err
	}
	if err := checkConservation(entry, p, state.Collateral); err != nil {
		return err
	}
	return e.db.ReplaceCovenant(p.Covenant, covenant.Outpoint{}, nil)
}

// FundCovenant records a freshly created covenant UTXO from a
// funding/deployment transaction after structural validation.
func (e *Engine) FundCovenant(point covenant.Outpoint, out covenant.TxOutput, height uint64) error {
	if err := covenant.ValidateCreationOutputs([]covenant.TxOutput{out}); err != nil {
		return err
	}
	return e.db.PutCovenant(point, store.CovenantEntry{
		Value:          out.Value,
		CovenantType:   out.CovenantType,
		CovenantData:   append([]byte(nil), out.CovenantData...),
		CreationHeight: height,
	})
}
