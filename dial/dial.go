// Package dial is a reference mount-orchestrator helper: it resolves a
// hostname to candidate addresses and connects a byte stream, handing
// back a wandrews.dev/p9fsclient.Endpoint. DNS resolution and socket
// connect live here, deliberately outside the protocol core itself.
//
// It follows mount_p9fs's address-trial loop: resolve every address a
// name could mean, then try each in turn until one connects.
package dial

import (
	"context"
	"fmt"
	"net"
	"time"

	"aqwari.net/retry"
)

// connectBackoff paces the delay between trying successive candidate
// addresses, the same shape as the send engine's sendBackoff.
var connectBackoff = retry.Exponential(10 * time.Millisecond).Max(2 * time.Second)

// TCP resolves host on the 9P port (564, the IANA-assigned default) or
// the port embedded in host if one is given, and dials the first
// address that accepts a connection within timeout.
func TCP(ctx context.Context, host string, timeout time.Duration) (net.Conn, error) {
	hostname, port, err := splitHostPort(host)
	if err != nil {
		return nil, err
	}

	addrs, err := net.DefaultResolver.LookupHost(ctx, hostname)
	if err != nil {
		return nil, fmt.Errorf("dial: resolve %s: %w", hostname, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("dial: %s has no addresses", hostname)
	}

	var lastErr error
	d := net.Dialer{Timeout: timeout}
	for i, addr := range addrs {
		if i > 0 {
			time.Sleep(connectBackoff(i))
		}
		conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(addr, port))
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("dial: all addresses for %s failed, last error: %w", hostname, lastErr)
}

func splitHostPort(host string) (hostname, port string, err error) {
	hostname, port, err = net.SplitHostPort(host)
	if err != nil {
		return host, "564", nil
	}
	return hostname, port, nil
}
