package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kardianos/service"
)

// KardianosSupervisor is the production Supervisor backed by the
// kardianos/service library, which speaks systemd, launchd, and the
// Windows service manager through one API.
type KardianosSupervisor struct{}

func (k *KardianosSupervisor) svc(spec Spec) (service.Service, error) {
	cfg := &service.Config{
		Name:             spec.Name,
		DisplayName:      spec.DisplayName,
		Description:      spec.Description,
		Executable:       spec.ExePath,
		Arguments:        spec.Args,
		WorkingDirectory: spec.WorkDir,
		Option:           make(service.KeyValue),
		EnvVars:          spec.Env,
	}
	if cfg.DisplayName == "" {
		cfg.DisplayName = spec.Name
	}
	return service.New(nil, cfg)
}

// Install implements the Supervisor interface.
func (k *KardianosSupervisor) Install(_ context.Context, spec Spec) error {
	s, err := k.svc(spec)
	if err != nil {
		return fmt.Errorf("failed to create service handle: %w", err)
	}
	if err := s.Install(); err != nil {
		return fmt.Errorf("failed to install service %q: %w", spec.Name, err)
	}
	return nil
}

// Remove implements the Supervisor interface.
func (k *KardianosSupervisor) Remove(_ context.Context, name string) error {
	s, err := k.svc(Spec{Name: name})
	if err != nil {
		return fmt.Errorf("failed to create service handle: %w", err)
	}
	if err := s.Uninstall(); err != nil {
		return fmt.Errorf("failed to uninstall service %q: %w", name, err)
	}
	return nil
}

// Stop implements the Supervisor interface.
func (k *KardianosSupervisor) Stop(_ context.Context, name string) error {
	s, err := k.svc(Spec{Name: name})
	if err != nil {
		return fmt.Errorf("failed to create service handle: %w", err)
	}
	if err := s.Stop(); err != nil {
		return fmt.Errorf("failed to stop service %q: %w", name, err)
	}
	return nil
}

// IsRegistered implements the Supervisor interface.
func (k *KardianosSupervisor) IsRegistered(name string) (bool, error) {
	s, err := k.svc(Spec{Name: name})
	if err != nil {
		return false, fmt.Errorf("failed to create service handle: %w", err)
	}

	_, err = s.Status()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, service.ErrNotInstalled):
		return false, nil
	default:
		return false, fmt.Errorf("failed to query service %q: %w", name, err)
	}
}
