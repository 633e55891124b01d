package service

import (
	"context"
	"fmt"
)

// MemorySupervisor is an in-memory Supervisor for tests. It records the
// spec of every installed entry and the order of operations.
type MemorySupervisor struct {
	Entries map[string]Spec
	Ops     []string

	// FailWith, when set, is returned by every mutating operation.
	FailWith error
}

// NewMemorySupervisor creates an empty in-memory supervisor.
func NewMemorySupervisor() *MemorySupervisor {
	return &MemorySupervisor{Entries: make(map[string]Spec)}
}

// Install implements the Supervisor interface.
func (m *MemorySupervisor) Install(_ context.Context, spec Spec) error {
	m.Ops = append(m.Ops, "install:"+spec.Name)
	if m.FailWith != nil {
		return m.FailWith
	}
	if _, exists := m.Entries[spec.Name]; exists {
		return fmt.Errorf("service %q already exists", spec.Name)
	}
	m.Entries[spec.Name] = spec
	return nil
}

// Remove implements the Supervisor interface.
func (m *MemorySupervisor) Remove(_ context.Context, name string) error {
	m.Ops = append(m.Ops, "remove:"+name)
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.Entries, name)
	return nil
}

// Stop implements the Supervisor interface.
func (m *MemorySupervisor) Stop(_ context.Context, name string) error {
	m.Ops = append(m.Ops, "stop:"+name)
	return m.FailWith
}

// IsRegistered implements the Supervisor interface.
func (m *MemorySupervisor) IsRegistered(name string) (bool, error) {
	_, ok := m.Entries[name]
	return ok, nil
}
