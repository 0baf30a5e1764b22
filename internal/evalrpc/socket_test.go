package evalrpc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUnixSocketPath(t *testing.T) {
	tests := []struct {
		address string
		want    string
		ok      bool
	}{
		{address: "unix:/tmp/dfarun.sock", want: "/tmp/dfarun.sock", ok: true},
		{address: "unix:///tmp/dfarun.sock", want: "/tmp/dfarun.sock", ok: true},
		{address: "unix:", ok: false},
		{address: "127.0.0.1:50077", ok: false},
	}

	for _, tc := range tests {
		got, ok := UnixSocketPath(tc.address)
		require.Equal(t, tc.ok, ok, tc.address)
		require.Equal(t, tc.want, got, tc.address)
	}
}

func TestListenUnixRecoversStaleSocket(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "dfarun.sock")
	require.NoError(t, os.WriteFile(socketPath, []byte("stale"), 0o600))

	listener, err := ListenUnix(context.Background(), socketPath, 50*time.Millisecond, 2)
	require.NoError(t, err)
	require.NoError(t, listener.Close())
}

func TestListenUnixRefusesLiveSocket(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "dfarun.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		for {
			conn, acceptErr := listener.Accept()
			if acceptErr != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	_, err = ListenUnix(context.Background(), socketPath, 80*time.Millisecond, 1)
	require.ErrorIs(t, err, ErrAlreadyServing)

	_, statErr := os.Stat(socketPath)
	require.NoError(t, statErr)
}

func TestServeOverUnixSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "dfarun.sock")
	listener, err := ListenUnix(context.Background(), socketPath, 50*time.Millisecond, 0)
	require.NoError(t, err)

	automaton := testAutomaton(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, listener, automaton, nil)
	}()

	client, err := Dial(context.Background(), "unix:"+socketPath, 2*time.Second)
	require.NoError(t, err)
	defer client.Close()

	outcome, err := client.Evaluate(context.Background(), []byte("aa"))
	require.NoError(t, err)
	require.True(t, bool(outcome))

	cancel()
	require.NoError(t, <-done)
}
