package vim

// Runtime is the embedding host's single-owner handoff. Only the
// current owner may touch host state; Acquire blocks until ownership
// is available and Release hands it back.
type Runtime interface {
	Acquire()
	Release()
}

// OwnerLock is a Runtime backed by a one-slot token. A new OwnerLock
// is owned by its creator, the host.
type OwnerLock struct {
	token chan struct{}
}

// NewOwnerLock returns a lock held by the caller.
func NewOwnerLock() *OwnerLock {
	return &OwnerLock{token: make(chan struct{}, 1)}
}

// Acquire waits for ownership.
func (l *OwnerLock) Acquire() {
	<-l.token
}

// Release gives up ownership. Releasing a lock nobody holds is a bug
// in the caller and panics.
func (l *OwnerLock) Release() {
	select {
	case l.token <- struct{}{}:
	default:
		panic("vim: release of unowned runtime")
	}
}

// Held reports whether some thread currently owns the lock.
func (l *OwnerLock) Held() bool {
	return len(l.token) == 0
}

// NopRuntime is a Runtime for hosts without an ownership model.
type NopRuntime struct{}

func (NopRuntime) Acquire() {}
func (NopRuntime) Release() {}
