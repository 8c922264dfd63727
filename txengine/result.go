// Package txengine implements spec.md §4.7's submit pipeline: decode a raw
// signed transaction, validate it, run it against the EVM driver, and
// settle gas — grounded on the teacher's core/tx_executor.go stage
// breakdown, generalized from "hand a tx to REVM" to "hand a tx to
// evmrun.Driver."
package txengine

// Status mirrors spec.md §4.7/§7's outcome taxonomy for a submitted
// transaction.
type Status int

const (
	StatusSucceed Status = iota
	StatusRevert
	StatusOutOfGas
	StatusOutOfFund
	StatusOutOfOffset
	StatusCallTooDeep
	StatusOther
)

func (s Status) String() string {
	switch s {
	case StatusSucceed:
		return "Succeed"
	case StatusRevert:
		return "Revert"
	case StatusOutOfGas:
		return "OutOfGas"
	case StatusOutOfFund:
		return "OutOfFund"
	case StatusOutOfOffset:
		return "OutOfOffset"
	case StatusCallTooDeep:
		return "CallTooDeep"
	default:
		return "Other"
	}
}

// SubmitResult is returned by Engine.Submit per spec.md §4.7 stage 11.
type SubmitResult struct {
	Status     Status
	Reason     string // populated for StatusOther ("ERR_INVALID_SIGNATURE", "ERR_INCORRECT_NONCE", ...)
	GasUsed    uint64
	ReturnData []byte
	Logs       [][]byte // borsh-free projection; evmrun owns the real log shape
}
