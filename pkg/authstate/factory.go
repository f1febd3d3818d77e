package authstate

import "sync"

// Factory hands out one shared Machine per scope key, so call sites that
// previously relied on a global singleton can share an instance within a
// session scope without implicit global state.
type Factory struct {
	mu       sync.Mutex
	machines map[string]*Machine
	opts     []Option
}

// NewFactory creates a factory; the options are applied to every machine
// it constructs.
func NewFactory(opts ...Option) *Factory {
	return &Factory{
		machines: make(map[string]*Machine),
		opts:     opts,
	}
}

// Get returns the machine for the scope, creating it on first use.
func (f *Factory) Get(scope string) *Machine {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.machines[scope]; ok {
		return m
	}
	m := New(f.opts...)
	f.machines[scope] = m
	return m
}

// Release closes and removes the machine for the scope, if any.
func (f *Factory) Release(scope string) error {
	f.mu.Lock()
	m, ok := f.machines[scope]
	delete(f.machines, scope)
	f.mu.Unlock()

	if !ok {
		return nil
	}
	return m.Close()
}

// Close tears down every machine the factory created.
func (f *Factory) Close() error {
	f.mu.Lock()
	machines := f.machines
	f.machines = make(map[string]*Machine)
	f.mu.Unlock()

	var err error
	for _, m := range machines {
		if cerr := m.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
