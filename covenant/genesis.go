package covenant

// ValidateCreationOutputs checks the structural validity of covenant
// outputs on a funding/deployment transaction. Spend-time semantics are
// enforced by the per-operation validators; this pass only rejects outputs
// that could never be spent coherently.
func ValidateCreationOutputs(outputs []TxOutput) error {
	for _, out := range outputs {
		switch out.CovenantType {
		case COV_TYPE_P2PKH:
			if out.Value == 0 {
				return coverr(ERR_COVENANT_DATA_INVALID, "P2PKH value must be > 0")
			}
			if len(out.CovenantData) != MAX_P2PKH_COVENANT_DATA {
				return coverr(ERR_COVENANT_DATA_INVALID, "invalid P2PKH covenant_data length")
			}

		case COV_TYPE_TOKEN:
			if out.Value != 0 {
				return coverr(ERR_COVENANT_DATA_INVALID, "TOKEN value must be 0")
			}
			if len(out.CovenantData) != MAX_TOKEN_COVENANT_DATA {
				return coverr(ERR_COVENANT_DATA_INVALID, "invalid TOKEN covenant_data length")
			}

		case COV_TYPE_STAKE:
			if out.Value == 0 {
				return coverr(ERR_COVENANT_DATA_INVALID, "STAKE value must be > 0")
			}
			if _, err := ParseStakingCovenantData(out.CovenantData); err != nil {
				return err
			}

		case COV_TYPE_LOAN:
			if out.Value == 0 {
				return coverr(ERR_COVENANT_DATA_INVALID, "LOAN value must be > 0")
			}
			if _, err := ParseLoanCovenantData(out.CovenantData); err != nil {
				return err
			}

		default:
			return coverr(ERR_COVENANT_DATA_INVALID, "unknown covenant_type")
		}
	}
	return nil
}
