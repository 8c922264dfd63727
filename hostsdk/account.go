// Package hostsdk specifies the boundary between the engine and the host
// platform: a key/value store, a synchronous register/promise ABI, and the
// predecessor/signer identity of the current invocation. The engine never
// talks to the live host directly — every component in this repository is
// written against these interfaces so the same code runs in-process (wired to
// the real host) and inside the standalone replayer (wired to MemoryHost).
package hostsdk

import "errors"

// AccountID is a validated host-chain account identifier, e.g. "alice.near".
type AccountID string

// ErrInvalidAccountID is returned by Validate when the identifier does not
// meet the host chain's charset/length rules.
var ErrInvalidAccountID = errors.New("hostsdk: invalid account id")

// Validate checks the account id against the host chain's account-naming
// rules: 2-64 chars, lowercase ASCII letters/digits and the separators
// '.', '-', '_', which may not repeat or border the string.
func (a AccountID) Validate() error {
	s := string(a)
	if len(s) < 2 || len(s) > 64 {
		return ErrInvalidAccountID
	}
	var prevSeparator = true // string may not start with a separator
	for _, r := range s {
		isSeparator := r == '.' || r == '-' || r == '_'
		switch {
		case isSeparator:
			if prevSeparator {
				return ErrInvalidAccountID
			}
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			// ok
		default:
			return ErrInvalidAccountID
		}
		prevSeparator = isSeparator
	}
	if prevSeparator {
		return ErrInvalidAccountID
	}
	return nil
}

func (a AccountID) String() string { return string(a) }
