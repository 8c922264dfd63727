package account

import "github.com/ethereum/go-ethereum/common"

// accessList is a minimal EIP-2929/2930 warm/cold tracker. go-ethereum's own
// state.accessList is unexported, so this is a small from-scratch
// equivalent rather than a reuse.
type accessList struct {
	addresses map[common.Address]struct{}
	slots     map[common.Address]map[common.Hash]struct{}
}

func newAccessList() *accessList {
	return &accessList{
		addresses: make(map[common.Address]struct{}),
		slots:     make(map[common.Address]map[common.Hash]struct{}),
	}
}

func (l *accessList) addAddr(addr common.Address) {
	l.addresses[addr] = struct{}{}
}

func (l *accessList) containsAddr(addr common.Address) bool {
	_, ok := l.addresses[addr]
	return ok
}

func (l *accessList) add(addr common.Address, slot common.Hash) {
	l.addresses[addr] = struct{}{}
	m, ok := l.slots[addr]
	if !ok {
		m = make(map[common.Hash]struct{})
		l.slots[addr] = m
	}
	m[slot] = struct{}{}
}

func (l *accessList) contains(addr common.Address, slot common.Hash) (addrOK, slotOK bool) {
	addrOK = l.containsAddr(addr)
	if m, ok := l.slots[addr]; ok {
		_, slotOK = m[slot]
	}
	return
}
