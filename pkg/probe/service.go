package probe

import (
	"context"
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"
)

// ServiceProber checks whether a service unit with the configured name is
// already known to systemd. On hosts without a reachable systemd bus the
// result stays unknown; the installer treats that as "no prior service".
type ServiceProber struct {
	UnitName string

	// Timeout bounds the dbus round trip.
	Timeout time.Duration
}

// Name implements the Prober interface.
func (p *ServiceProber) Name() string { return "service" }

// Probe queries systemd over dbus for the unit's load state.
func (p *ServiceProber) Probe(ctx context.Context, r *Report) {
	unit := p.UnitName
	if unit == "" {
		return
	}
	r.Service.Name = unit

	timeout := p.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		slog.Warn("could not connect to systemd, service state unknown", "error", err)
		return
	}
	defer conn.Close()

	units, err := conn.ListUnitsByNamesContext(ctx, []string{unit + ".service"})
	if err != nil {
		slog.Warn("could not list service units", "unit", unit, "error", err)
		return
	}

	r.Service.Known = true
	for _, u := range units {
		if u.LoadState != "not-found" {
			r.Service.Registered = true
			return
		}
	}
}
