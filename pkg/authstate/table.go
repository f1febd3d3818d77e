package authstate

// transitionTable is the closed transition graph. It maps the current state
// and a triggering event to the set of destinations the machine may move to.
// Any (state, event) pair absent from the table is an illegal transition.
var transitionTable = map[State]map[Event][]State{
	StateInitializing: {
		EventInitialize:   {StateAuthenticated, StateUnauthenticated, StateError},
		EventNetworkError: {StateOffline},
		EventStorageError: {StateError},
	},
	StateUnauthenticated: {
		EventLoginSuccess: {StateAuthenticated},
		EventNetworkError: {StateOffline},
	},
	StateAuthenticated: {
		EventRefreshToken:   {StateRefreshing},
		EventTokenExpired:   {StateExpired, StateRefreshing},
		EventLogout:         {StateUnauthenticated},
		EventNetworkError:   {StateOffline},
		EventMemoryPressure: {StateOffline},
	},
	StateRefreshing: {
		EventLoginSuccess: {StateAuthenticated},
		EventTokenExpired: {StateExpired},
		EventNetworkError: {StateOffline},
		EventStorageError: {StateError},
	},
	StateExpired: {
		EventLoginSuccess: {StateAuthenticated},
		EventLogout:       {StateUnauthenticated},
		EventRefreshToken: {StateRefreshing},
	},
	StateOffline: {
		EventLoginSuccess: {StateAuthenticated},
		EventInitialize:   {StateAuthenticated, StateUnauthenticated},
		EventLogout:       {StateUnauthenticated},
		EventClearError:   {StateAuthenticated, StateUnauthenticated},
	},
	StateError: {
		EventClearError: {StateUnauthenticated},
		EventLogout:     {StateUnauthenticated},
		EventInitialize: {StateAuthenticated, StateUnauthenticated},
	},
}

// CanTransition reports whether the table permits moving from one state to
// another on the given event.
func CanTransition(from State, event Event, to State) bool {
	targets, ok := transitionTable[from]
	if !ok {
		return false
	}
	for _, allowed := range targets[event] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the destinations the table permits for the given
// state and event. An empty result means the event is illegal in that state.
func AllowedTargets(from State, event Event) []State {
	targets, ok := transitionTable[from]
	if !ok {
		return nil
	}
	out := make([]State, len(targets[event]))
	copy(out, targets[event])
	return out
}
