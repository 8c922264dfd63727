// Package precompiles implements the registry of spec.md §4.3: selecting a
// precompile implementation by (address, hard-fork) and enforcing a paused
// set. The dispatch shape generalizes the teacher's build-tag-selected
// executor dispatch (core/vm/dispatcher_goevm.go / dispatcher_revm.go —
// "pick Go-EVM or REVM") into a runtime, address-keyed table ("pick a
// precompile, or fall through to ordinary EVM call handling").
package precompiles

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Precompile is the two-method shape go-ethereum's vm.PrecompiledContract
// interface already uses, so every entry in the registry can be handed
// straight to the upstream interpreter without an adapter.
type Precompile interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// ErrPaused is fatal per spec.md §4.3: the EVM could not deliver the call,
// which must be externally visible rather than encoded as an ordinary
// revert.
var ErrPaused = errors.New("precompiles: ERR_PAUSED")

// Flag identifies a precompile (or precompile family) in the paused
// bitmask. Order matches the bridge-precompile list in spec.md §6 plus the
// standard families, so that pause_precompiles/resume_precompiles's
// paused_mask argument has stable bit positions across versions.
type Flag uint32

const (
	FlagExitToNear Flag = 1 << iota
	FlagExitToEthereum
	FlagCrossContractCall
	FlagECRecover
	FlagSHA256
	FlagRIPEMD160
	FlagIdentity
	FlagModExp
	FlagBN128
	FlagBlake2F
	FlagBLS12381
	FlagSecp256r1
)

// entry pairs a precompile with the flag that pauses it.
type entry struct {
	flag Flag
	impl Precompile
}

// Registry selects a Precompile by address and tracks the paused bitmask.
// Entries are added with Register; the paused mask is the only piece of
// engine state pause_precompiles/resume_precompiles are allowed to touch.
type Registry struct {
	byAddress map[common.Address]entry
	paused    uint32
}

// New builds an empty registry; use Register to populate it per hard-fork
// (see hardfork.go's BuildForFork for the standard wiring).
func New() *Registry {
	return &Registry{byAddress: make(map[common.Address]entry)}
}

// Register adds or replaces the precompile at addr.
func (r *Registry) Register(addr common.Address, flag Flag, impl Precompile) {
	r.byAddress[addr] = entry{flag: flag, impl: impl}
}

// SetPausedMask overwrites the paused bitmask wholesale, as
// pause_precompiles(mask)/resume_precompiles(mask) do (spec.md §6).
func (r *Registry) SetPausedMask(mask uint32) { r.paused = mask }

// PausedMask returns the current paused bitmask.
func (r *Registry) PausedMask() uint32 { return r.paused }

// IsPrecompile reports whether addr is registered at all, regardless of
// paused state — step 1 of spec.md §4.3's dispatch contract.
func (r *Registry) IsPrecompile(addr common.Address) bool {
	_, ok := r.byAddress[addr]
	return ok
}

// Dispatch implements spec.md §4.3's three-step contract:
//  1. not registered -> (nil, false, nil): EVM proceeds as an ordinary call.
//  2. registered and paused -> (nil, true, ErrPaused): fatal.
//  3. otherwise run it.
func (r *Registry) Dispatch(addr common.Address, input []byte) (output []byte, isPrecompile bool, err error) {
	e, ok := r.byAddress[addr]
	if !ok {
		return nil, false, nil
	}
	if uint32(e.flag)&r.paused != 0 {
		return nil, true, ErrPaused
	}
	out, err := e.impl.Run(input)
	return out, true, err
}

// RequiredGas exposes the selected precompile's gas cost, or 0 if addr is
// not a precompile (callers must check IsPrecompile first if that
// distinction matters).
func (r *Registry) RequiredGas(addr common.Address, input []byte) uint64 {
	e, ok := r.byAddress[addr]
	if !ok {
		return 0
	}
	return e.impl.RequiredGas(input)
}
