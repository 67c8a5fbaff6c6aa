package covenant

import "testing"

func TestValidateCreationOutputs_OK(t *testing.T) {
	stake := emptyStakingState(1000)
	loan := offeredLoan()
	outputs := []TxOutput{
		BuildP2PKHOutput(keyHash(0x01), 10),
		BuildTokenOutput(tokenID(0x07), keyHash(0x02), 5),
		{Value: 1, CovenantType: COV_TYPE_STAKE, CovenantData: EncodeStakingCovenantData(stake)},
		{Value: 50, CovenantType: COV_TYPE_LOAN, CovenantData: EncodeLoanCovenantData(loan)},
	}
	if err := ValidateCreationOutputs(outputs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCreationOutputs_Rejections(t *testing.T) {
	stake := emptyStakingState(0)
	cases := []TxOutput{
		{Value: 0, CovenantType: COV_TYPE_P2PKH, CovenantData: make([]byte, 20)},
		{Value: 1, CovenantType: COV_TYPE_P2PKH, CovenantData: make([]byte, 19)},
		{Value: 1, CovenantType: COV_TYPE_TOKEN, CovenantData: make([]byte, MAX_TOKEN_COVENANT_DATA)},
		{Value: 0, CovenantType: COV_TYPE_TOKEN, CovenantData: make([]byte, MAX_TOKEN_COVENANT_DATA-1)},
		{Value: 0, CovenantType: COV_TYPE_STAKE, CovenantData: EncodeStakingCovenantData(stake)},
		{Value: 1, CovenantType: COV_TYPE_STAKE, CovenantData: make([]byte, 3)},
		{Value: 0, CovenantType: COV_TYPE_LOAN, CovenantData: EncodeLoanCovenantData(offeredLoan())},
		{Value: 1, CovenantType: COV_TYPE_LOAN, CovenantData: nil},
		{Value: 1, CovenantType: 0x7777, CovenantData: nil},
	}
	for i, out := range cases {
		err := ValidateCreationOutputs([]TxOutput{out})
		if err == nil {
			t.Fatalf("case %d: expected error", i)
		}
		if got := mustErrCode(t, err); got != ERR_COVENANT_DATA_INVALID {
			t.Fatalf("case %d: code=%s, want %s", i, got, ERR_COVENANT_DATA_INVALID)
		}
	}
}
