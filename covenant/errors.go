package covenant

import "fmt"

type ErrorCode string

const (
	ERR_PARSE                 ErrorCode = "ERR_PARSE"
	ERR_COVENANT_DATA_INVALID ErrorCode = "ERR_COVENANT_DATA_INVALID"
	ERR_COMMITMENT_MISMATCH   ErrorCode = "ERR_COMMITMENT_MISMATCH"

	ERR_ALREADY_STAKED   ErrorCode = "ERR_ALREADY_STAKED"
	ERR_TIMELOCK_NOT_MET ErrorCode = "ERR_TIMELOCK_NOT_MET"
	ERR_AMOUNT_MISMATCH  ErrorCode = "ERR_AMOUNT_MISMATCH"

	ERR_LOAN_ALREADY_TAKEN      ErrorCode = "ERR_LOAN_ALREADY_TAKEN"
	ERR_LOAN_NOT_TAKEN          ErrorCode = "ERR_LOAN_NOT_TAKEN"
	ERR_ORACLE_SIG_INVALID      ErrorCode = "ERR_ORACLE_SIG_INVALID"
	ERR_ORACLE_BINDING_MISMATCH ErrorCode = "ERR_ORACLE_BINDING_MISMATCH"
	ERR_ORACLE_AMOUNT_MISMATCH  ErrorCode = "ERR_ORACLE_AMOUNT_MISMATCH"

	ERR_MISSING_UTXO       ErrorCode = "ERR_MISSING_UTXO"
	ERR_VALUE_CONSERVATION ErrorCode = "ERR_VALUE_CONSERVATION"
)

// CovenantError is a terminal verification rejection. An evaluation either
// accepts (nil error) or rejects with exactly one code; there is no partial
// success and nothing is retried.
type CovenantError struct {
	Code ErrorCode
	Msg  string
}

func (e *CovenantError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func coverr(code ErrorCode, msg string) error {
	return &CovenantError{Code: code, Msg: msg}
}
