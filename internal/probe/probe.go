// Package probe decides whether a sync attempt is worth making: it
// checks that the device has a usable network interface, that an
// external well-known host answers, and that the central store itself
// responds to a trivial round trip. A failed probe only gates the sync
// attempt; it is never fatal to the caller.
package probe

import (
	"context"
	"net"
	"time"

	"github.com/jicmugot16/fieldsync/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultHost    = "8.8.8.8:53"
	DefaultTimeout = 3 * time.Second
)

// CentralPinger is the slice of the central store the probe needs.
type CentralPinger interface {
	Ping(ctx context.Context) error
}

// Probe performs the three-step reachability check. The dial and
// interface functions are swappable for tests.
type Probe struct {
	host    string
	timeout time.Duration
	central CentralPinger
	log     logging.Logger

	dial       func(ctx context.Context, network, addr string) (net.Conn, error)
	interfaces func() ([]net.Interface, error)
	addrs      func(iface *net.Interface) ([]net.Addr, error)
}

// New builds a probe against the given external host and central store.
// Empty host or non-positive timeout fall back to the defaults.
func New(host string, timeout time.Duration, central CentralPinger, log logging.Logger) *Probe {
	if host == "" {
		host = DefaultHost
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := &net.Dialer{}
	return &Probe{
		host:       host,
		timeout:    timeout,
		central:    central,
		log:        log,
		dial:       d.DialContext,
		interfaces: net.Interfaces,
		addrs:      (*net.Interface).Addrs,
	}
}

// IsReachable returns true only when the interface, external-host and
// central-store checks all pass within the probe timeout.
func (p *Probe) IsReachable(ctx context.Context) bool {
	if !p.hasActiveInterface(ctx) {
		p.log.Debug(ctx, "probe: no active network interface")
		return false
	}

	if err := p.checkExternalHost(ctx); err != nil {
		p.log.Debug(ctx, "probe: external host unreachable", "host", p.host, "error", err)
		return false
	}

	pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.central.Ping(pingCtx); err != nil {
		p.log.Debug(ctx, "probe: central store unreachable", "error", err)
		return false
	}

	return true
}

// hasActiveInterface reports whether some non-loopback interface is up
// with at least one assigned address.
func (p *Probe) hasActiveInterface(ctx context.Context) bool {
	ifaces, err := p.interfaces()
	if err != nil {
		p.log.Warn(ctx, "probe: listing interfaces failed", "error", err)
		return false
	}
	for i := range ifaces {
		iface := &ifaces[i]
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := p.addrs(iface)
		if err != nil || len(addrs) == 0 {
			continue
		}
		return true
	}
	return false
}

// checkExternalHost dials the well-known host, retrying a couple of
// times with a constant backoff. WiFi on the device often takes a
// moment to pass traffic after associating.
func (p *Probe) checkExternalHost(ctx context.Context) error {
	backoff := retry.WithMaxRetries(2, retry.NewConstant(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		conn, err := p.dial(dialCtx, "tcp", p.host)
		if err != nil {
			return retry.RetryableError(err)
		}
		return conn.Close()
	})
}
