package cbuild

import (
	"sync"
	"sync/atomic"
)

var atExit struct {
	sync.Mutex
	fns    []func() error
	closed uint32
}

// RegisterAtExit queues fn to run the next time RunAtExit is called. The
// CLI uses this to hand off resources it opened for the run — a log file,
// most commonly — so they get closed at exactly the two points that
// matter: normal process exit, and immediately before the self-rebuild
// hook replaces the process image, which would otherwise abandon them
// with their buffers unflushed.
func RegisterAtExit(fn func() error) {
	if atomic.LoadUint32(&atExit.closed) != 0 {
		panic("BUG: RegisterAtExit must not be called from an atExit func")
	}
	atExit.Lock()
	defer atExit.Unlock()
	atExit.fns = append(atExit.fns, fn)
}

// RunAtExit runs every function registered with RegisterAtExit since the
// last call, in registration order, stopping at the first error. It is
// safe to call more than once in a process's lifetime: a self-rebuild that
// fails to exec leaves the queue already drained, so a later call from the
// CLI's own shutdown path runs nothing rather than closing the same
// resource twice.
func RunAtExit() error {
	atomic.StoreUint32(&atExit.closed, 1)
	defer atomic.StoreUint32(&atExit.closed, 0)
	atExit.Lock()
	fns := atExit.fns
	atExit.fns = nil
	atExit.Unlock()
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
