package probe

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

// PortProber checks whether the configured listen port can be bound.
type PortProber struct {
	Host string
	Port int
}

// Name implements the Prober interface.
func (p *PortProber) Name() string { return "port" }

// Probe attempts a short-lived bind on the configured address. A bind
// refused with EADDRINUSE marks the port in use; any other failure leaves
// the result unknown.
func (p *PortProber) Probe(ctx context.Context, r *Report) {
	host := p.Host
	if host == "" {
		host = "0.0.0.0"
	}
	r.Port.Port = p.Port

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(p.Port)))
	if err == nil {
		_ = ln.Close()
		r.Port.Known = true
		return
	}

	if errors.Is(err, unix.EADDRINUSE) {
		r.Port.InUse = true
		r.Port.Known = true
		return
	}

	slog.Warn("could not determine port availability", "port", p.Port, "error", err)
}
