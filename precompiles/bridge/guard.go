package bridge

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidInDelegate and ErrInvalidInStatic are the two fatal guard
// failures of spec.md §4.5: a bridge precompile may only run in a plain
// CALL, never a DELEGATECALL (context.address would no longer be the
// precompile's own address) and never a STATICCALL (it must be able to
// schedule host work).
var (
	ErrInvalidInDelegate = errors.New("ERR_INVALID_IN_DELEGATE")
	ErrInvalidInStatic   = errors.New("ERR_INVALID_IN_STATIC")
)

// CallContext carries the pieces of the EVM call frame a bridge precompile
// needs beyond its input bytes — go-ethereum's vm.PrecompiledContract
// interface only passes input, so evmrun's driver builds one of these per
// call and adapts it into that interface at the call site.
type CallContext struct {
	Caller        common.Address
	Address       common.Address // context.address: the address code execution believes itself to be at
	Self          common.Address // this precompile's own fixed address
	IsStaticCall  bool
	IsDelegateCall bool
	ApparentValue [16]byte // u128 little-endian wei-equivalent value attached to the call
}

// Guard enforces spec.md §4.5's "never permitted from STATICCALL" / "never
// permitted through DELEGATECALL" rule. Every bridge precompile's Run must
// call this first.
func Guard(ctx CallContext) error {
	if ctx.IsStaticCall {
		return ErrInvalidInStatic
	}
	if ctx.Address != ctx.Self {
		return ErrInvalidInDelegate
	}
	return nil
}
