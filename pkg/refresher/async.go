package refresher

import (
	"sync"
	"time"

	"github.com/dmitrymomot/authkit/pkg/authstate"
)

// Future is the pending result of an asynchronous refresh cycle. It
// resolves exactly once, to the machine context produced by the cycle
// or to the error that ended it.
type Future struct {
	result *authstate.Context
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await blocks until the refresh cycle completes and returns its outcome.
func (f *Future) Await() (*authstate.Context, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for the refresh cycle to complete, giving up
// with ErrAwaitTimeout if it has not resolved within the timeout. The
// cycle itself keeps running; only the wait is abandoned.
func (f *Future) AwaitWithTimeout(timeout time.Duration) (*authstate.Context, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		return nil, ErrAwaitTimeout
	}
}

// IsComplete reports whether the refresh cycle has resolved, without blocking.
func (f *Future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future) resolve(result *authstate.Context, err error) {
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
	})
}
