package alloc

import "sync"

// Locked serializes every call to a Manager behind one mutex.
//
// The block list invariants span the whole list, so the lock is held for the
// entire operation rather than per block.
type Locked struct {
	mu sync.Mutex
	m  *Manager
}

// NewLocked wraps m. The caller must not use m directly afterwards.
func NewLocked(m *Manager) *Locked {
	return &Locked{m: m}
}

func (l *Locked) Allocate(owner Owner, size int) (Allocation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Allocate(owner, size)
}

func (l *Locked) Release(owner Owner) (Released, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Release(owner)
}

func (l *Locked) Coalesce() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Coalesce()
}

func (l *Locked) Spawn(size int) (Allocation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Spawn(size)
}

func (l *Locked) AllocateStatic() (Allocation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.AllocateStatic()
}

func (l *Locked) NextOwner() Owner {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.NextOwner()
}

func (l *Locked) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m.Reset()
}

func (l *Locked) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Stats()
}

func (l *Locked) Snapshot() []Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Snapshot()
}

func (l *Locked) Owners() []Owner {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Owners()
}

func (l *Locked) Counters() Counters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Counters()
}

func (l *Locked) Config() Config {
	// Config is immutable after New.
	return l.m.Config()
}
