package evalrpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyServing reports a unix socket owned by a live evaluator.
var ErrAlreadyServing = errors.New("an evaluator is already serving on this socket")

const unixScheme = "unix:"

// UnixSocketPath returns the socket path for unix:<path> addresses.
func UnixSocketPath(address string) (string, bool) {
	if !strings.HasPrefix(address, unixScheme) {
		return "", false
	}
	path := strings.TrimPrefix(strings.TrimPrefix(address, unixScheme), "//")
	if path == "" {
		return "", false
	}
	return path, true
}

// ListenUnix binds path, replacing a stale socket file left behind by a
// crashed server. A socket that still accepts connections is never removed.
func ListenUnix(ctx context.Context, path string, probeTimeout time.Duration, retries int) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("ensure socket dir: %w", err)
	}

	var lc net.ListenConfig
	for attempt := 0; attempt <= retries; attempt++ {
		listener, err := lc.Listen(ctx, "unix", path)
		if err == nil {
			_ = os.Chmod(path, 0o600)
			return listener, nil
		}

		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("listen unix %s: %w", path, err)
		}

		alive, probeErr := probeSocket(ctx, path, probeTimeout)
		if alive {
			return nil, ErrAlreadyServing
		}
		if probeErr != nil {
			return nil, fmt.Errorf("probe existing socket %s: %w", path, probeErr)
		}

		if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale socket %s: %w", path, removeErr)
		}

		if attempt < retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(25*(attempt+1)) * time.Millisecond):
			}
		}
	}

	return nil, fmt.Errorf("failed to acquire socket %s after %d retries", path, retries)
}

// probeSocket reports whether something is accepting connections on path.
func probeSocket(ctx context.Context, path string, timeout time.Duration) (bool, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err == nil {
		_ = conn.Close()
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED) {
		return false, nil
	}
	return false, fmt.Errorf("probe socket: %w", err)
}
