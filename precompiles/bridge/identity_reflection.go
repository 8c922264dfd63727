package bridge

import "github.com/aurora-is-near/aurora-engine-go/hostsdk"

// CurrentAccountID and PredecessorAccountID implement the
// current_account_id / predecessor_account_id precompiles (spec.md
// §4.5.4): zero gas, returning the respective host account id as raw
// bytes. Unlike the exit/cross-contract-call precompiles these are pure
// reads and carry no Guard — they are allowed under STATICCALL and
// DELEGATECALL.
type CurrentAccountID struct{ Host hostsdk.Host }

func (CurrentAccountID) RequiredGas([]byte) uint64 { return IdentityReflectionGas }
func (p CurrentAccountID) Run([]byte) ([]byte, error) {
	return []byte(p.Host.CurrentAccountID()), nil
}

type PredecessorAccountID struct{ Host hostsdk.Host }

func (PredecessorAccountID) RequiredGas([]byte) uint64 { return IdentityReflectionGas }
func (p PredecessorAccountID) Run([]byte) ([]byte, error) {
	return []byte(p.Host.PredecessorAccountID()), nil
}

// RandomSeed implements the random_seed precompile named in spec.md §6's
// address table: the host's per-block random seed (also used as
// DIFFICULTY/PREVRANDAO by the EVM driver, see evmrun).
type RandomSeed struct{ Host hostsdk.Host }

func (RandomSeed) RequiredGas([]byte) uint64 { return IdentityReflectionGas }
func (p RandomSeed) Run([]byte) ([]byte, error) {
	seed := p.Host.RandomSeed()
	return seed[:], nil
}

// PrepaidGas implements the prepaid_gas precompile. spec.md §9 resolves the
// open question of "prepaid at call time vs. initial prepaid gas" in favor
// of exposing the *initial* value, which is exactly what hostsdk.Host's
// PrepaidGas() already returns (it is fixed for the lifetime of one host
// invocation).
type PrepaidGas struct{ Host hostsdk.Host }

func (PrepaidGas) RequiredGas([]byte) uint64 { return IdentityReflectionGas }
func (p PrepaidGas) Run([]byte) ([]byte, error) {
	var out [8]byte
	gas := p.Host.PrepaidGas()
	for i := 0; i < 8; i++ {
		out[i] = byte(gas >> (8 * (7 - i)))
	}
	return out[:], nil
}
