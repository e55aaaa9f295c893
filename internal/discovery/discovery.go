// Package discovery finds Emby servers on the local network using the
// server's UDP discovery protocol.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/five82/embycli/internal/logging"
)

const (
	// DefaultAddr is the broadcast address Emby servers listen on.
	DefaultAddr = "255.255.255.255:7359"
	// DefaultTimeout is how long to wait for replies.
	DefaultTimeout = 3 * time.Second

	probe      = "who is EmbyServer?"
	maxPayload = 4096
)

// Server is one discovery reply.
type Server struct {
	Address string `json:"Address"`
	ID      string `json:"Id"`
	Name    string `json:"Name"`
}

// Options controls a discovery run.
type Options struct {
	Addr    string
	Timeout time.Duration
}

// Discover broadcasts the probe and collects replies until the timeout
// elapses or ctx is done. Replies are deduplicated by server ID and kept in
// arrival order; datagrams that do not decode are skipped.
func Discover(ctx context.Context, opts Options) ([]Server, error) {
	addr := opts.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	target, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}

	lc := net.ListenConfig{Control: enableBroadcast}
	conn, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("open discovery socket: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.WriteTo([]byte(probe), target); err != nil {
		return nil, fmt.Errorf("send discovery probe: %w", err)
	}
	logging.Debug().Str("addr", target.String()).Dur("timeout", timeout).Msg("discovery probe sent")

	var servers []Server
	seen := make(map[string]struct{})
	buf := make([]byte, maxPayload)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				break
			}
			return servers, fmt.Errorf("read discovery reply: %w", err)
		}
		var s Server
		if err := json.Unmarshal(buf[:n], &s); err != nil {
			logging.Debug().Str("from", from.String()).Err(err).Msg("skipping undecodable discovery reply")
			continue
		}
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		servers = append(servers, s)
	}

	if err := ctx.Err(); err != nil {
		return servers, err
	}
	return servers, nil
}
