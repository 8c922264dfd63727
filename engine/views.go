package engine

import (
	"encoding/binary"

	"github.com/aurora-is-near/aurora-engine-go/borsh"
)

// GetOwner implements `get_owner`.
func (e *Engine) GetOwner() []byte { return []byte(readAccountID(e.store, configKeyOwner)) }

// GetChainID implements `get_chain_id`: a little-endian u64 borsh value,
// matching the wire shape the rest of the engine ABI uses for numeric views.
func (e *Engine) GetChainID() []byte {
	return borsh.NewWriter().U64(readU64(e.store, configKeyChainID)).Bytes()
}

// GetBridgeProver implements `get_bridge_prover`.
func (e *Engine) GetBridgeProver() []byte {
	return []byte(readAccountID(e.store, configKeyBridgeProver))
}

// GetUpgradeIndex implements `get_upgrade_index`.
func (e *Engine) GetUpgradeIndex() []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], readU32(e.store, configKeyUpgradeIndex))
	return b[:]
}

// GetVersion implements `get_version`: a build-identifying string, the way
// the source exposes the crate version baked in at compile time.
func (e *Engine) GetVersion() []byte { return []byte(engineVersion) }

const engineVersion = "aurora-engine-go/0.1.0"

// GetPausedFlags implements a `get_paused_flags`-style view over the
// contract-pause and precompile-pause state together.
func (e *Engine) GetPausedFlags() []byte {
	w := borsh.NewWriter()
	w.Bool(e.isPaused())
	w.U32(readU32(e.store, configKeyPrecompileMask))
	return w.Bytes()
}

// GetKeyManager implements `get_key_manager`; empty bytes means unset.
func (e *Engine) GetKeyManager() []byte {
	return []byte(readAccountID(e.store, configKeyKeyManager))
}
