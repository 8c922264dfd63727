package engine

import (
	"github.com/aurora-is-near/aurora-engine-go/borsh"
	"github.com/aurora-is-near/aurora-engine-go/txengine"
)

// EncodeSubmitResult borsh-encodes a txengine.SubmitResult the way `submit`,
// `submit_with_args`, `call` and `deploy_code` must return it (spec.md §6):
// a variant tag for Status, followed by gas used, return data, and reason
// (only meaningful for the Other variant).
func EncodeSubmitResult(r txengine.SubmitResult) []byte {
	w := borsh.NewWriter()
	w.Variant(uint8(r.Status))
	w.U64(r.GasUsed)
	w.Bytes_(r.ReturnData)
	w.String(r.Reason)
	return w.Bytes()
}
