/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package firewall manages the ingress rule that lets operators reach the
// monitored server's listen port. The Table interface keeps orchestration
// logic portable and testable against an in-memory fake.
package firewall

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/coreos/go-iptables/iptables"
)

// Table is the capability interface over the OS firewall rule table.
type Table interface {
	// EnsureIngressRule allows inbound TCP traffic on port. Re-applying
	// an existing rule is a no-op.
	EnsureIngressRule(port int) error

	// DeleteIngressRule removes the rule for port. Deleting an absent
	// rule is a no-op.
	DeleteIngressRule(port int) error
}

// IPTables applies ingress rules to the filter table's INPUT chain.
type IPTables struct {
	ipt *iptables.IPTables
}

// NewIPTables creates an iptables-backed Table.
func NewIPTables() (*IPTables, error) {
	ipt, err := iptables.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize iptables: %w", err)
	}
	return &IPTables{ipt: ipt}, nil
}

func ruleSpec(port int) []string {
	return []string{"-p", "tcp", "--dport", strconv.Itoa(port), "-j", "ACCEPT"}
}

// EnsureIngressRule implements the Table interface.
func (t *IPTables) EnsureIngressRule(port int) error {
	if err := t.ipt.AppendUnique("filter", "INPUT", ruleSpec(port)...); err != nil {
		return fmt.Errorf("failed to add ingress rule for port %d: %w", port, err)
	}
	slog.Info("ingress rule ensured", "port", port)
	return nil
}

// DeleteIngressRule implements the Table interface.
func (t *IPTables) DeleteIngressRule(port int) error {
	if err := t.ipt.DeleteIfExists("filter", "INPUT", ruleSpec(port)...); err != nil {
		return fmt.Errorf("failed to delete ingress rule for port %d: %w", port, err)
	}
	slog.Info("ingress rule removed", "port", port)
	return nil
}

// Memory is an in-memory Table for tests.
type Memory struct {
	Ports map[int]bool

	// FailWith, when set, is returned by every operation.
	FailWith error
}

// NewMemory creates an empty in-memory table.
func NewMemory() *Memory {
	return &Memory{Ports: make(map[int]bool)}
}

// EnsureIngressRule implements the Table interface.
func (m *Memory) EnsureIngressRule(port int) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.Ports[port] = true
	return nil
}

// DeleteIngressRule implements the Table interface.
func (m *Memory) DeleteIngressRule(port int) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.Ports, port)
	return nil
}
