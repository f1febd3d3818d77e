// Package authstate implements the session authentication state machine:
// a closed transition graph over the sign-in lifecycle with strict
// serialization of concurrent transition requests and bounded recovery
// from transient failures.
//
// The machine holds exactly one of seven states (initializing,
// unauthenticated, authenticated, refreshing, expired, offline, error)
// plus a context record carrying the user, tokens, last error and retry
// counters. Every event is validated against a fixed transition table;
// illegal events are refused without mutating state or notifying
// subscribers.
//
// # Serialization
//
// Callers on arbitrary goroutines submit events through the public
// methods. Each submission is enqueued FIFO and executed by a single
// worker goroutine, so the machine's effective behavior is identical to a
// single-threaded interpreter: at most one transition is in flight at any
// time, operations complete in submission order, and state-change
// notifications fire synchronously in the same order transitions apply.
// A periodic sweep re-drains the queue as a safety net.
//
// # Usage
//
//	machine := authstate.New()
//	defer machine.Close()
//
//	unsubscribe := machine.Subscribe(func(change authstate.StateChange) {
//	    log.Printf("%s -> %s on %s", change.From, change.To, change.Event)
//	})
//	defer unsubscribe()
//
//	// Bootstrap from persisted tokens; nil tokens land in unauthenticated.
//	machine.Initialize(ctx, storedTokens, storedUser)
//
//	machine.LoginSuccess(ctx, tokens, user)
//
//	// Report refresh failures; the machine tracks the retry budget.
//	if _, err := machine.TokenExpired(ctx, refreshErr); errors.Is(err, authstate.ErrRefreshExhausted) {
//	    // terminal: session expired, re-authentication required
//	}
//
// # Failure handling
//
// Refresh failures inside the retry budget keep the machine in refreshing
// and resolve the caller with the updated context rather than an error.
// Network loss and memory pressure degrade the machine to offline; memory
// pressure additionally schedules a bounded chain of delayed recovery
// probes delivered via OnRecoveryAttempt. Storage errors are fatal for
// the session and require ClearError or Logout to leave the error state.
//
// # Error Handling
//
// Common error values returned by the package:
//
//   - ErrInvalidTransition – event not legal in the current state
//   - ErrRefreshExhausted  – refresh retry budget ran out
//   - ErrMachineClosed     – machine was destroyed
//
// The machine performs no I/O itself: token persistence and the refresh
// transport belong to external collaborators (see the tokenstore and
// refresher packages).
package authstate
