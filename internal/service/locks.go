package service

import "sync"

// ItemLocks serializes all quantity-affecting work per item: adjustments,
// transfer legs, checkouts and check-ins against the same item share one
// critical section, while different items proceed independently. A single
// instance is shared by the inventory, transfer and checkout services.
type ItemLocks struct {
	mu    sync.Mutex
	locks map[int32]*sync.Mutex
}

func NewItemLocks() *ItemLocks {
	return &ItemLocks{locks: make(map[int32]*sync.Mutex)}
}

func (l *ItemLocks) get(itemID int32) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[itemID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[itemID] = m
	}
	return m
}

// Lock acquires the item's exclusive section and returns the unlock func.
func (l *ItemLocks) Lock(itemID int32) func() {
	m := l.get(itemID)
	m.Lock()
	return m.Unlock
}

// LockPair acquires two item sections in ascending ID order so two transfers
// touching the same pair of items cannot deadlock.
func (l *ItemLocks) LockPair(a, b int32) func() {
	if a == b {
		return l.Lock(a)
	}
	if a > b {
		a, b = b, a
	}
	first := l.get(a)
	second := l.get(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
