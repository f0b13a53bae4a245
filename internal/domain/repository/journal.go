package repository

import (
	"sync"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
)

type WriteKind int

const (
	WriteCreate WriteKind = iota + 1
	WriteUpdate
	WriteDelete
)

// LastWrite is what a repository needs to revert its most recent write.
type LastWrite struct {
	Kind   WriteKind
	Before *entity.User
	After  *entity.User
}

// Journal keeps a single slot holding the last write. A later write replaces
// an earlier one; Take empties the slot.
type Journal struct {
	mu   sync.Mutex
	last *LastWrite
}

func (j *Journal) Record(kind WriteKind, before, after *entity.User) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.last = &LastWrite{Kind: kind, Before: before.Clone(), After: after.Clone()}
}

func (j *Journal) Take() *LastWrite {
	j.mu.Lock()
	defer j.mu.Unlock()
	w := j.last
	j.last = nil
	return w
}
