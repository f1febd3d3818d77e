package authstate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Machine owns the session authentication state, its context and the
// transition history. All transitions are serialized through a single
// worker goroutine draining a FIFO queue, so the machine behaves like a
// single-threaded interpreter no matter how many goroutines submit events.
type Machine struct {
	cfg    Config
	logger *slog.Logger
	clock  func() time.Time

	// mu guards the queue, the active set, listeners and lifecycle flags.
	mu       sync.Mutex
	queue    []*operation
	active   map[uuid.UUID]struct{}
	closed   bool
	wake     chan struct{}
	done     chan struct{}
	stopped  chan struct{}
	recovery *recoveryState

	listeners         map[uuid.UUID]func(StateChange)
	recoveryListeners map[uuid.UUID]func(RecoveryAttempt)

	// stateMu guards state, ctx and history. The worker goroutine is the
	// only writer; query methods take read locks for snapshots.
	stateMu sync.RWMutex
	state   State
	ctx     Context
	history []TransitionRecord
}

// operation is a queued transition request with its completion signal.
type operation struct {
	id       uuid.UUID
	event    Event
	delta    delta
	recovery bool
	reply    chan opResult
}

type opResult struct {
	ctx *Context
	err error
}

// recoveryState tracks the timer chain scheduled after memory pressure.
type recoveryState struct {
	timer     *time.Timer
	attempt   int
	remaining int
}

// New creates a new authentication state machine and starts its worker.
// The machine begins in StateInitializing.
func New(opts ...Option) *Machine {
	m := &Machine{
		cfg:               DefaultConfig(),
		logger:            slog.Default(),
		clock:             time.Now,
		active:            make(map[uuid.UUID]struct{}),
		wake:              make(chan struct{}, 1),
		done:              make(chan struct{}),
		stopped:           make(chan struct{}),
		listeners:         make(map[uuid.UUID]func(StateChange)),
		recoveryListeners: make(map[uuid.UUID]func(RecoveryAttempt)),
		state:             StateInitializing,
	}

	for _, opt := range opts {
		opt(m)
	}

	go m.run()

	return m
}

// Initialize bootstraps the machine from persisted session data. With
// tokens present the machine moves to authenticated, otherwise to
// unauthenticated.
func (m *Machine) Initialize(ctx context.Context, tokens *Tokens, user *User) (*Context, error) {
	return m.submit(ctx, EventInitialize, delta{tokens: tokens, user: user})
}

// LoginSuccess reports a completed sign-in with fresh credentials.
func (m *Machine) LoginSuccess(ctx context.Context, tokens Tokens, user User) (*Context, error) {
	if tokens.AccessToken == "" {
		return nil, ErrMissingCredentials
	}
	return m.submit(ctx, EventLoginSuccess, delta{tokens: &tokens, user: &user})
}

// RefreshToken reports that a token refresh is starting. Optional tokens
// replace the current pair (e.g. a rotated refresh token).
func (m *Machine) RefreshToken(ctx context.Context, tokens *Tokens) (*Context, error) {
	return m.submit(ctx, EventRefreshToken, delta{tokens: tokens})
}

// TokenExpired reports an expired token or a failed refresh attempt.
// While the retry budget lasts the machine stays in refreshing and the
// returned context carries the incremented retry counter; once the budget
// is exhausted the machine moves to expired and ErrRefreshExhausted is
// returned.
func (m *Machine) TokenExpired(ctx context.Context, cause error) (*Context, error) {
	return m.submit(ctx, EventTokenExpired, delta{err: cause})
}

// NetworkError reports loss of connectivity; the machine degrades to offline.
func (m *Machine) NetworkError(ctx context.Context, cause error) error {
	_, err := m.submit(ctx, EventNetworkError, delta{err: cause})
	return err
}

// Logout clears the session and returns to unauthenticated.
func (m *Machine) Logout(ctx context.Context) error {
	_, err := m.submit(ctx, EventLogout, delta{})
	return err
}

// ClearError recovers from offline or error states. Optional tokens and
// user restore an authenticated session when recovering from offline.
func (m *Machine) ClearError(ctx context.Context, tokens *Tokens, user *User) (*Context, error) {
	return m.submit(ctx, EventClearError, delta{tokens: tokens, user: user})
}

// MemoryPressure reports a memory-pressure signal; the machine degrades to
// offline and schedules bounded recovery probes.
func (m *Machine) MemoryPressure(ctx context.Context) error {
	_, err := m.submit(ctx, EventMemoryPressure, delta{})
	return err
}

// StorageError reports a persistence failure, fatal for the session.
func (m *Machine) StorageError(ctx context.Context, cause error) error {
	_, err := m.submit(ctx, EventStorageError, delta{err: cause})
	return err
}

// CurrentState returns the active state.
func (m *Machine) CurrentState() State {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

// Context returns a read-only snapshot of the machine context.
func (m *Machine) Context() Context {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.ctx.clone()
}

// IsAuthenticated reports whether the user is currently considered signed in.
func (m *Machine) IsAuthenticated() bool {
	return m.CurrentState() == StateAuthenticated
}

// IsOffline reports whether the machine is in the offline state.
func (m *Machine) IsOffline() bool {
	return m.CurrentState() == StateOffline
}

// HasError reports whether the machine is in the error state.
func (m *Machine) HasError() bool {
	return m.CurrentState() == StateError
}

// RecentTransitions returns up to n of the most recent transition records,
// oldest first.
func (m *Machine) RecentTransitions(n int) []TransitionRecord {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if n <= 0 || len(m.history) == 0 {
		return nil
	}
	if n > len(m.history) {
		n = len(m.history)
	}
	out := make([]TransitionRecord, n)
	copy(out, m.history[len(m.history)-n:])
	return out
}

// Subscribe registers a listener invoked synchronously, in transition
// order, after each accepted transition. The returned function removes
// the subscription.
func (m *Machine) Subscribe(fn func(StateChange)) (unsubscribe func()) {
	id := uuid.New()

	m.mu.Lock()
	if !m.closed {
		m.listeners[id] = fn
	}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// OnRecoveryAttempt registers a listener for memory-pressure recovery
// probes. The returned function removes the subscription.
func (m *Machine) OnRecoveryAttempt(fn func(RecoveryAttempt)) (unsubscribe func()) {
	id := uuid.New()

	m.mu.Lock()
	if !m.closed {
		m.recoveryListeners[id] = fn
	}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.recoveryListeners, id)
		m.mu.Unlock()
	}
}

// Close tears the machine down: pending operations are rejected, listeners
// removed, history and context cleared. Safe to call more than once.
func (m *Machine) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	pending := m.queue
	m.queue = nil
	m.listeners = make(map[uuid.UUID]func(StateChange))
	m.recoveryListeners = make(map[uuid.UUID]func(RecoveryAttempt))
	if m.recovery != nil && m.recovery.timer != nil {
		m.recovery.timer.Stop()
	}
	m.recovery = nil
	m.mu.Unlock()

	close(m.done)
	<-m.stopped

	for _, op := range pending {
		op.reply <- opResult{err: ErrMachineClosed}
	}

	m.stateMu.Lock()
	m.ctx = Context{}
	m.history = nil
	m.stateMu.Unlock()

	return nil
}

// submit enqueues an operation and blocks the caller until the worker has
// executed it. Enqueueing never blocks other submitters; only the caller's
// own wait is suspended. An abandoned wait (ctx cancelled) does not cancel
// the operation itself.
func (m *Machine) submit(ctx context.Context, event Event, d delta) (*Context, error) {
	op := &operation{
		id:    uuid.New(),
		event: event,
		delta: d,
		reply: make(chan opResult, 1),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrMachineClosed
	}
	m.queue = append(m.queue, op)
	m.mu.Unlock()

	m.signal()

	// Every enqueued operation is guaranteed a reply: either the worker
	// executes it or Close rejects it with ErrMachineClosed.
	select {
	case res := <-op.reply:
		return res.ctx, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Machine) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// run is the serializer's worker loop: the only goroutine that mutates
// state, context and history. The ticker re-drains the queue as a safety
// net in case a wake-up was missed.
func (m *Machine) run() {
	defer close(m.stopped)

	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-m.wake:
			m.drain()
		case <-ticker.C:
			m.drain()
		}
	}
}

// drain executes queued operations strictly one at a time, FIFO.
func (m *Machine) drain() {
	for {
		m.mu.Lock()
		if m.closed || len(m.queue) == 0 {
			m.mu.Unlock()
			return
		}
		op := m.queue[0]
		m.queue = m.queue[1:]
		m.active[op.id] = struct{}{}
		if len(m.active) > 1 {
			// Single-flight invariant; can only trip on a machine bug.
			m.logger.Error("serializer invariant violated",
				slog.Int("active_operations", len(m.active)))
		}
		m.mu.Unlock()

		res := m.execute(op)

		m.mu.Lock()
		delete(m.active, op.id)
		m.mu.Unlock()

		op.reply <- res
	}
}

// execute applies a single operation against the transition table.
func (m *Machine) execute(op *operation) opResult {
	if op.recovery {
		m.runRecoveryProbe()
		return opResult{}
	}

	from := m.state

	// A failed refresh with budget remaining keeps the machine in
	// refreshing: no transition, no notification, just a bumped counter.
	if from == StateRefreshing && op.event == EventTokenExpired &&
		m.ctx.RetryCount < m.cfg.MaxRetries-1 {
		return m.recordRetryableFailure(op)
	}

	to := m.resolveTarget(from, op.event, op.delta)
	if !CanTransition(from, op.event, to) {
		m.logger.Warn("transition refused",
			slog.String("state", string(from)),
			slog.String("event", string(op.event)),
			slog.String("operation_id", op.id.String()))
		return opResult{err: ErrInvalidTransition}
	}

	next := m.applyDelta(to, op.event, op.delta)

	m.stateMu.Lock()
	m.state = to
	m.ctx = next
	m.history = append(m.history, TransitionRecord{
		From:    from,
		To:      to,
		Event:   op.event,
		At:      m.clock(),
		Context: next.clone(),
	})
	if len(m.history) > m.cfg.HistoryLimit {
		m.history = append(m.history[:0], m.history[len(m.history)-m.cfg.HistoryLimit:]...)
	}
	m.stateMu.Unlock()

	m.logger.Debug("transition applied",
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("event", string(op.event)))

	m.publish(StateChange{From: from, To: to, Event: op.event, Context: next.clone()})

	if op.event == EventMemoryPressure {
		m.scheduleRecovery()
	} else if to != StateOffline {
		m.cancelRecovery()
	}

	snapshot := next.clone()
	res := opResult{ctx: &snapshot}
	if op.event == EventTokenExpired && to == StateExpired {
		res.err = ErrRefreshExhausted
	}
	return res
}

// resolveTarget picks the destination for events that permit more than one.
// The result is still validated against the transition table.
func (m *Machine) resolveTarget(from State, event Event, d delta) State {
	switch event {
	case EventInitialize:
		if from == StateInitializing && d.err != nil {
			return StateError
		}
		if d.tokens != nil {
			return StateAuthenticated
		}
		return StateUnauthenticated
	case EventLoginSuccess:
		return StateAuthenticated
	case EventRefreshToken:
		return StateRefreshing
	case EventTokenExpired:
		if from == StateAuthenticated && m.cfg.MaxRetries > 1 {
			return StateRefreshing
		}
		return StateExpired
	case EventNetworkError, EventMemoryPressure:
		return StateOffline
	case EventLogout:
		return StateUnauthenticated
	case EventClearError:
		if from == StateOffline && (d.tokens != nil || m.ctx.Tokens != nil) {
			return StateAuthenticated
		}
		return StateUnauthenticated
	case EventStorageError:
		return StateError
	default:
		// Unknown events resolve to the current state, which the table
		// never permits, so they are refused.
		return from
	}
}

// applyDelta merges the operation's partial update into the context
// according to the event's semantics.
func (m *Machine) applyDelta(to State, event Event, d delta) Context {
	next := m.ctx.clone()

	if d.tokens != nil {
		t := *d.tokens
		next.Tokens = &t
	}
	if d.user != nil {
		u := *d.user
		next.User = &u
	}
	if d.err != nil {
		next.LastError = d.err.Error()
	}

	switch event {
	case EventLoginSuccess:
		next.LastError = ""
		next.RetryCount = 0
		next.RetryBackoff = 0
		next.MemoryPressure = false
	case EventClearError:
		next.LastError = ""
		next.RetryCount = 0
		next.RetryBackoff = 0
		next.MemoryPressure = false
		if to == StateUnauthenticated {
			next.User = nil
			next.Tokens = nil
		}
	case EventRefreshToken:
		next.LastRefreshAt = m.clock()
	case EventTokenExpired:
		if to == StateRefreshing {
			// Entering refreshing via an expiry counts as the first
			// failed attempt against the retry budget.
			next.RetryCount++
			next.RetryBackoff = m.cfg.backoff(next.RetryCount)
			next.LastRefreshAt = m.clock()
		} else {
			next.RetryCount = m.cfg.MaxRetries
			next.RetryBackoff = 0
		}
	case EventLogout:
		next = Context{}
	case EventMemoryPressure:
		next.MemoryPressure = true
	case EventInitialize:
		if to == StateUnauthenticated {
			next.User = nil
			next.Tokens = nil
		}
	}

	return next
}

// recordRetryableFailure handles a refresh failure inside the retry budget:
// the state stays refreshing and the caller gets the updated context back,
// not an error, so a UI can render a "retrying" treatment.
func (m *Machine) recordRetryableFailure(op *operation) opResult {
	m.stateMu.Lock()
	m.ctx.RetryCount++
	m.ctx.RetryBackoff = m.cfg.backoff(m.ctx.RetryCount)
	m.ctx.LastRefreshAt = m.clock()
	if op.delta.err != nil {
		m.ctx.LastError = op.delta.err.Error()
	}
	snapshot := m.ctx.clone()
	m.stateMu.Unlock()

	m.logger.Info("refresh attempt failed, retrying",
		slog.Int("retry_count", snapshot.RetryCount),
		slog.Int("max_retries", m.cfg.MaxRetries),
		slog.Duration("backoff", snapshot.RetryBackoff))

	return opResult{ctx: &snapshot}
}

// publish delivers a state change to all subscribers, synchronously, so
// notification order matches transition order.
func (m *Machine) publish(change StateChange) {
	m.mu.Lock()
	fns := make([]func(StateChange), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

// scheduleRecovery arms the bounded probe chain after memory pressure.
func (m *Machine) scheduleRecovery() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.recovery != nil && m.recovery.timer != nil {
		m.recovery.timer.Stop()
	}
	m.recovery = &recoveryState{remaining: m.cfg.RecoveryAttempts}
	m.armRecoveryLocked()
}

// armRecoveryLocked arms the next probe timer; m.mu must be held.
func (m *Machine) armRecoveryLocked() {
	m.recovery.timer = time.AfterFunc(m.cfg.RecoveryInterval, func() {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return
		}
		m.queue = append(m.queue, &operation{
			id:       uuid.New(),
			recovery: true,
			reply:    make(chan opResult, 1),
		})
		m.mu.Unlock()
		m.signal()
	})
}

func (m *Machine) cancelRecovery() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recovery != nil {
		if m.recovery.timer != nil {
			m.recovery.timer.Stop()
		}
		m.recovery = nil
	}
}

// runRecoveryProbe executes one scheduled recovery attempt inside the
// drain loop. Exhaustion is logged, never escalated to the error state.
func (m *Machine) runRecoveryProbe() {
	m.mu.Lock()
	rec := m.recovery
	if rec == nil {
		m.mu.Unlock()
		return
	}
	if m.state != StateOffline || !m.ctx.MemoryPressure {
		m.recovery = nil
		m.mu.Unlock()
		return
	}
	rec.attempt++
	rec.remaining--
	attempt := rec.attempt
	remaining := rec.remaining
	if remaining > 0 {
		m.armRecoveryLocked()
	} else {
		m.recovery = nil
	}
	fns := make([]func(RecoveryAttempt), 0, len(m.recoveryListeners))
	for _, fn := range m.recoveryListeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	snapshot := m.Context()
	for _, fn := range fns {
		fn(RecoveryAttempt{Attempt: attempt, Remaining: remaining, Context: snapshot})
	}

	if remaining == 0 {
		m.logger.Warn("memory pressure recovery attempts exhausted",
			slog.Int("attempts", attempt))
	} else {
		m.logger.Info("memory pressure recovery attempt",
			slog.Int("attempt", attempt),
			slog.Int("remaining", remaining))
	}
}
