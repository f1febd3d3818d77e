package authstate

import "context"

type machineContextKey struct{}

// WithMachine adds a machine to the context
func WithMachine(ctx context.Context, m *Machine) context.Context {
	return context.WithValue(ctx, machineContextKey{}, m)
}

// FromContext retrieves a machine from the context
func FromContext(ctx context.Context) (*Machine, bool) {
	m, ok := ctx.Value(machineContextKey{}).(*Machine)
	return m, ok
}

// MustFromContext retrieves a machine from the context or panics
func MustFromContext(ctx context.Context) *Machine {
	m, ok := FromContext(ctx)
	if !ok {
		panic("authstate: machine not found in context")
	}
	return m
}
