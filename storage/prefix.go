// Package storage implements the prefixed-key layout over the host's flat
// key/value store (spec.md §4.1): one byte selects the logical map, the
// remaining bytes are a big-endian concatenation of the map's key fields. A
// per-transaction diff buffer sits above the durable store; commit flushes
// it atomically, abort discards it — the same "journal now, flush on
// commit" shape as the teacher's revm_bridge/statedb.go pendingBasic/
// pendingStorage maps, generalized from (balance, nonce) to the full
// prefixed key space.
package storage

// Prefix selects the logical map a key belongs to.
type Prefix byte

const (
	PrefixConfig Prefix = iota + 1
	PrefixBalance
	PrefixNonce
	PrefixCode
	PrefixStorage
	PrefixGeneration
	PrefixErc20Nep141Map
	PrefixNep141Erc20Map
	PrefixXccState
	PrefixHashchain
	PrefixWhitelist
)

// Key builds a prefixed key: tag byte followed by the caller-supplied parts,
// concatenated as-is (callers are responsible for fixed-width big-endian
// encoding of numeric parts, per spec.md §4.1).
func Key(p Prefix, parts ...[]byte) []byte {
	n := 1
	for _, part := range parts {
		n += len(part)
	}
	out := make([]byte, 1, n)
	out[0] = byte(p)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}
