// Package engine is the facade of spec.md §6: one Go method per entry
// point in the method-surface table, each taking/returning raw bytes the
// way the host ABI does, dispatching into storage/account/precompiles/
// evmrun/txengine/hashchain/promise underneath. Grounded on the teacher's
// top-level miner/blockchain orchestration layer, generalized from "drive
// block production" to "drive one host entry point."
package engine

import (
	"encoding/binary"

	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

var (
	configKeyOwner          = storage.Key(storage.PrefixConfig, []byte("owner"))
	configKeyKeyManager     = storage.Key(storage.PrefixConfig, []byte("key_manager"))
	configKeyChainID        = storage.Key(storage.PrefixConfig, []byte("chain_id"))
	configKeyInitialized    = storage.Key(storage.PrefixConfig, []byte("initialized"))
	configKeyPaused         = storage.Key(storage.PrefixConfig, []byte("paused"))
	configKeyPrecompileMask = storage.Key(storage.PrefixConfig, []byte("precompile_paused_mask"))
	configKeyUpgradeIndex   = storage.Key(storage.PrefixConfig, []byte("upgrade_index"))
	configKeyBridgeProver   = storage.Key(storage.PrefixConfig, []byte("bridge_prover"))
	configKeyUpgradeDelay   = storage.Key(storage.PrefixConfig, []byte("upgrade_delay_blocks"))
	configKeyStagedUpgrade  = storage.Key(storage.PrefixConfig, []byte("staged_upgrade"))
	configKeyStagedAtHeight = storage.Key(storage.PrefixConfig, []byte("staged_upgrade_height"))

	hashchainSnapshotKey = storage.Key(storage.PrefixHashchain, []byte("state"))
)

// readAccountID reads a stored hostsdk.AccountID, or "" if absent.
func readAccountID(s *storage.Store, key []byte) hostsdk.AccountID {
	v, ok := s.Read(key)
	if !ok {
		return ""
	}
	return hostsdk.AccountID(v)
}

func readBool(s *storage.Store, key []byte) bool {
	return s.Has(key)
}

func writeBool(s *storage.Store, key []byte, v bool) {
	if v {
		s.Write(key, []byte{1})
	} else {
		s.Delete(key)
	}
}

func readU32(s *storage.Store, key []byte) uint32 {
	v, ok := s.Read(key)
	if !ok || len(v) != 4 {
		return 0
	}
	return binary.BigEndian.Uint32(v)
}

func writeU32(s *storage.Store, key []byte, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	s.Write(key, b[:])
}

func readU64(s *storage.Store, key []byte) uint64 {
	v, ok := s.Read(key)
	if !ok || len(v) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

func writeU64(s *storage.Store, key []byte, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	s.Write(key, b[:])
}

func writeAccountID(s *storage.Store, key []byte, v hostsdk.AccountID) {
	s.Write(key, []byte(v))
}
