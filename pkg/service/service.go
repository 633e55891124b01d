/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package service registers the monitored server with the OS service
// supervisor. The Supervisor interface keeps the lifecycle logic portable
// and testable against an in-memory fake; the production implementation
// is backed by the kardianos/service wrapper.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/sentinel-installer/pkg/errors"
)

// Spec describes one background-service entry.
type Spec struct {
	Name        string
	DisplayName string
	Description string
	ExePath     string
	WorkDir     string
	Args        []string
	Env         map[string]string
}

// Supervisor is the capability interface over the OS service supervisor.
type Supervisor interface {
	Install(ctx context.Context, spec Spec) error
	Remove(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	IsRegistered(name string) (bool, error)
}

// Result reports what a lifecycle operation did.
type Result struct {
	Changed bool   `json:"changed" yaml:"changed"`
	Message string `json:"message" yaml:"message"`
}

// Manager drives service registration with force/settle semantics and an
// optional service-wrapper helper fetched on first use.
type Manager struct {
	Supervisor Supervisor

	// Wrapper, when set, must be available before the first registration.
	Wrapper *WrapperCache

	// SettleDelay is the pause between removing an existing entry and
	// re-registering under the same name, to avoid racing the
	// supervisor's name release.
	SettleDelay time.Duration

	// sleep is overridable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewManager creates a Manager over the given supervisor.
func NewManager(sup Supervisor) *Manager {
	return &Manager{
		Supervisor:  sup,
		SettleDelay: 2 * time.Second,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Register registers the service entry. An existing entry without force
// is left untouched and reported as a warning; with force the existing
// entry is stopped and removed first, with a settle delay before
// re-registering. Failures never abort the install: the server can run
// in the foreground until the operator registers the service manually.
func (m *Manager) Register(ctx context.Context, spec Spec, force bool) (*Result, error) {
	if m.Wrapper != nil {
		if _, err := m.Wrapper.Ensure(ctx); err != nil {
			return &Result{}, errors.Wrap(errors.ErrCodeStepWarning,
				fmt.Sprintf("service wrapper unavailable; register manually with your service manager (unit %q, exec %q)",
					spec.Name, spec.ExePath),
				err)
		}
	}

	registered, err := m.Supervisor.IsRegistered(spec.Name)
	if err != nil {
		return &Result{}, errors.Wrap(errors.ErrCodeStepWarning,
			"could not query service supervisor", err)
	}

	if registered {
		if !force {
			slog.Info("service already registered, leaving existing entry", "name", spec.Name)
			return &Result{Message: "already registered"}, errors.Newf(errors.ErrCodeStepWarning,
				"service %q already registered; use force to replace it", spec.Name)
		}

		slog.Info("replacing existing service entry", "name", spec.Name)
		if err := m.Supervisor.Stop(ctx, spec.Name); err != nil {
			slog.Warn("could not stop existing service", "name", spec.Name, "error", err)
		}
		if err := m.Supervisor.Remove(ctx, spec.Name); err != nil {
			return &Result{}, errors.Wrap(errors.ErrCodeStepWarning,
				"failed to remove existing service entry", err)
		}
		if err := m.sleep(ctx, m.SettleDelay); err != nil {
			return &Result{}, errors.Wrap(errors.ErrCodeStepWarning,
				"interrupted while waiting for service name release", err)
		}
	}

	if err := m.Supervisor.Install(ctx, spec); err != nil {
		return &Result{}, errors.Wrap(errors.ErrCodeStepWarning,
			fmt.Sprintf("failed to register service %q; register manually with your service manager", spec.Name),
			err)
	}

	slog.Info("service registered", "name", spec.Name)
	return &Result{Changed: true, Message: "registered"}, nil
}

// Unregister stops and removes the service entry. An absent entry is a
// no-op.
func (m *Manager) Unregister(ctx context.Context, name string) (*Result, error) {
	registered, err := m.Supervisor.IsRegistered(name)
	if err != nil {
		return &Result{}, errors.Wrap(errors.ErrCodeStepWarning,
			"could not query service supervisor", err)
	}
	if !registered {
		return &Result{Message: "not registered"}, nil
	}

	if err := m.Supervisor.Stop(ctx, name); err != nil {
		slog.Warn("could not stop service before removal", "name", name, "error", err)
	}
	if err := m.Supervisor.Remove(ctx, name); err != nil {
		return &Result{}, errors.Wrap(errors.ErrCodeStepWarning,
			fmt.Sprintf("failed to unregister service %q", name), err)
	}

	slog.Info("service unregistered", "name", name)
	return &Result{Changed: true, Message: "unregistered"}, nil
}

// IsRegistered reports whether a service entry with the given name
// exists. Query failures report false.
func (m *Manager) IsRegistered(name string) bool {
	registered, err := m.Supervisor.IsRegistered(name)
	if err != nil {
		slog.Warn("could not query service supervisor", "name", name, "error", err)
		return false
	}
	return registered
}
