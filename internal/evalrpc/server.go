package evalrpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/google/uuid"
	"github.com/rbright/dfarun/internal/dfa"
	"github.com/rbright/dfarun/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Server answers Evaluate calls against one finished automaton. The
// automaton is only read, so handlers run concurrently without locking.
type Server struct {
	automaton *dfa.Automaton
	logger    *slog.Logger
}

// NewServer wraps automaton for evaluation.
func NewServer(automaton *dfa.Automaton, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{automaton: automaton, logger: logger}
}

// Evaluate runs the automaton over the request bytes.
func (s *Server) Evaluate(ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	if s.automaton == nil {
		return nil, status.Error(codes.FailedPrecondition, "no automaton loaded")
	}

	requestID := uuid.NewString()
	word := req.GetValue()
	outcome := s.automaton.Run(word)
	s.logger.Info("evaluate",
		"request_id", requestID,
		"length", len(word),
		"outcome", outcome.String(),
	)
	return wrapperspb.Bool(outcome == dfa.Accept), nil
}

// Serve registers the evaluator and the standard health service on a new
// gRPC server and serves listener until ctx is cancelled.
func Serve(ctx context.Context, listener net.Listener, automaton *dfa.Automaton, logger *slog.Logger) error {
	if automaton == nil {
		return errors.New("serve: automaton is nil")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	grpcServer := grpc.NewServer()
	RegisterEvaluatorServer(grpcServer, NewServer(automaton, logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			healthServer.Shutdown()
			grpcServer.GracefulStop()
		case <-stopped:
		}
	}()

	logger.Info("evaluator serving", "address", listener.Addr().String(), "states", automaton.StateCount())
	if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve evaluator: %w", err)
	}
	return nil
}
