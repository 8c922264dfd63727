package engine

import (
	"encoding/binary"

	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// PermissionFlags mirrors original_source/engine/src/acl.rs's
// PermissionFlags bitflags: per-account grants beyond the plain owner/
// key-manager checks, the only one currently defined being the ability to
// pause (never resume) precompiles.
type PermissionFlags uint32

const (
	PermissionPausePrecompiles PermissionFlags = 1 << iota
)

func aclKey(account hostsdk.AccountID) []byte {
	return storage.Key(storage.PrefixConfig, []byte("acl:"), []byte(account))
}

func readPermissions(s *storage.Store, account hostsdk.AccountID) PermissionFlags {
	v, ok := s.Read(aclKey(account))
	if !ok || len(v) != 4 {
		return 0
	}
	return PermissionFlags(binary.LittleEndian.Uint32(v))
}

func writePermissions(s *storage.Store, account hostsdk.AccountID, flags PermissionFlags) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(flags))
	s.Write(aclKey(account), b[:])
}

// GrantPermissions adds toGrant to account's existing permission set.
func GrantPermissions(s *storage.Store, account hostsdk.AccountID, toGrant PermissionFlags) {
	writePermissions(s, account, readPermissions(s, account)|toGrant)
}

// RevokePermissions removes toRevoke from account's permission set.
func RevokePermissions(s *storage.Store, account hostsdk.AccountID, toRevoke PermissionFlags) {
	writePermissions(s, account, readPermissions(s, account)&^toRevoke)
}

// IsAuthorized reports whether account holds every flag in required.
func IsAuthorized(s *storage.Store, account hostsdk.AccountID, required PermissionFlags) bool {
	return readPermissions(s, account)&required == required
}

// IsOwner reports whether account is the contract's configured owner.
func IsOwner(s *storage.Store, account hostsdk.AccountID) bool {
	return readAccountID(s, configKeyOwner) == account
}

// IsKeyManager reports whether account is the contract's configured key
// manager. An unset key manager never matches any account.
func IsKeyManager(s *storage.Store, account hostsdk.AccountID) bool {
	km := readAccountID(s, configKeyKeyManager)
	return km != "" && km == account
}
