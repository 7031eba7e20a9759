package usecases

import "sync"

// MemberLocks serializes verification runs per (guild, member) so two
// overlapping runs cannot interleave their role mutations. Entries are
// removed when their last holder unlocks.
type MemberLocks struct {
	mu    sync.Mutex
	locks map[string]*memberLock
}

type memberLock struct {
	mu   sync.Mutex
	refs int
}

func NewMemberLocks() *MemberLocks {
	return &MemberLocks{locks: make(map[string]*memberLock)}
}

// Lock blocks until the member is free and returns the matching unlock.
func (l *MemberLocks) Lock(guildID, userID string) (unlock func()) {
	key := guildID + "/" + userID

	l.mu.Lock()
	ml, ok := l.locks[key]
	if !ok {
		ml = &memberLock{}
		l.locks[key] = ml
	}
	ml.refs++
	l.mu.Unlock()

	ml.mu.Lock()
	return func() {
		ml.mu.Unlock()
		l.mu.Lock()
		ml.refs--
		if ml.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Len is the number of members currently locked or waited on.
func (l *MemberLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
