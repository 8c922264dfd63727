package account

import (
	"encoding/binary"

	"github.com/aurora-is-near/aurora-engine-go/storage"
	"github.com/ethereum/go-ethereum/common"
)

func balanceKey(addr common.Address) []byte {
	return storage.Key(storage.PrefixBalance, addr[:])
}

func nonceKey(addr common.Address) []byte {
	return storage.Key(storage.PrefixNonce, addr[:])
}

func codeKey(addr common.Address) []byte {
	return storage.Key(storage.PrefixCode, addr[:])
}

func generationKey(addr common.Address) []byte {
	return storage.Key(storage.PrefixGeneration, addr[:])
}

// storageSlotKey builds: prefix || address || generation_be || slot_be,
// per spec.md §4.2, so that bumping the generation makes every previously
// written slot unreachable without walking and deleting them individually.
func storageSlotKey(addr common.Address, gen uint32, slot common.Hash) []byte {
	var genBE [4]byte
	binary.BigEndian.PutUint32(genBE[:], gen)
	return storage.Key(storage.PrefixStorage, addr[:], genBE[:], slot[:])
}
