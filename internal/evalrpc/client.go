package evalrpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rbright/dfarun/internal/dfa"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client evaluates words through a running evaluator.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to endpoint, waits up to timeout for the connection to be
// ready, and confirms the evaluator reports SERVING.
func Dial(ctx context.Context, endpoint string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("evaluator endpoint is empty")
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	options := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(endpoint, options...)
	if err != nil {
		return nil, fmt.Errorf("dial evaluator %q: %w", endpoint, err)
	}

	readyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn.Connect()
	if err := waitForReady(readyCtx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("wait for evaluator readiness: %w", err)
	}

	resp, err := healthpb.NewHealthClient(conn).Check(readyCtx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("check evaluator health: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		_ = conn.Close()
		return nil, fmt.Errorf("evaluator at %q is %s", endpoint, resp.GetStatus())
	}

	return &Client{conn: conn}, nil
}

// Evaluate sends word to the evaluator.
func (c *Client) Evaluate(ctx context.Context, word []byte) (dfa.Outcome, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.conn.Invoke(ctx, evaluateMethod, wrapperspb.Bytes(word), out); err != nil {
		return dfa.Reject, fmt.Errorf("evaluate: %w", err)
	}
	return dfa.Outcome(out.GetValue()), nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
