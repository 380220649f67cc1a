// Package handler implements RpcFacade (§4.6, §6): the thin translation
// layer between RPC requests and registry/supervisor operations. It
// performs no business logic beyond argument extraction, error-kind
// translation, and result packaging, so that every registry invariant is
// enforced exactly once, in pkg/registry.
package handler

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/foldend/foldend/pkg/registry"
	"github.com/foldend/foldend/pkg/rpcapi"
	"github.com/foldend/foldend/pkg/supervisor"
	"github.com/foldend/foldend/pkg/trace"
)

// Server implements rpcapi.FoldendServer, backed by a supervisor's registry
// and trace bus.
type Server struct {
	rpcapi.UnimplementedFoldendServer

	supervisor *supervisor.Supervisor
}

// New constructs a Server bound to sup.
func New(sup *supervisor.Supervisor) *Server {
	return &Server{supervisor: sup}
}

// statusFor translates a registry sentinel error into a grpc/status error
// carrying the code named in SPEC_FULL.md's error-kind-to-code mapping.
// Errors that aren't one of the registry's sentinels are reported as
// Internal.
func statusFor(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, registry.ErrAlreadyRegistered):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, registry.ErrPathConflict):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, registry.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, registry.ErrAlreadyUp):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, registry.ErrLimitReached):
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// stateFor packages err (nil or otherwise) as a HandlerState for endpoints
// that report per-directory outcomes inline rather than as a gRPC error.
func stateFor(isAlive bool, err error) rpcapi.HandlerState {
	if err != nil {
		return rpcapi.HandlerState{IsAlive: isAlive, Message: err.Error()}
	}
	return rpcapi.HandlerState{IsAlive: isAlive, Message: "ok"}
}

// Register implements rpcapi.FoldendServer.Register.
func (s *Server) Register(ctx context.Context, req *rpcapi.RegisterRequest) (*rpcapi.RegisterResponse, error) {
	err := s.supervisor.Registry.Register(req.DirectoryPath, req.ConfigPath, false, "")
	if err != nil {
		return nil, statusFor(err)
	}
	return &rpcapi.RegisterResponse{State: rpcapi.HandlerState{IsAlive: false, Message: "registered"}}, nil
}

// GetDirectoryStatus implements rpcapi.FoldendServer.GetDirectoryStatus.
func (s *Server) GetDirectoryStatus(ctx context.Context, req *rpcapi.GetDirectoryStatusRequest) (*rpcapi.GetDirectoryStatusResponse, error) {
	summaries, err := s.supervisor.Registry.Summary(req.DirectoryPath)
	if err != nil {
		return nil, statusFor(err)
	}

	result := make(map[string]rpcapi.HandlerSummary, len(summaries))
	for path, summary := range summaries {
		result[path] = rpcapi.HandlerSummary{
			DirectoryPath: summary.DirectoryPath,
			IsAlive:       summary.IsAlive,
			ConfigPath:    summary.ConfigPath,
			AutoStart:     summary.AutoStart,
			Description:   summary.Description,
		}
	}
	return &rpcapi.GetDirectoryStatusResponse{Summaries: result}, nil
}

// StartHandler implements rpcapi.FoldendServer.StartHandler.
func (s *Server) StartHandler(ctx context.Context, req *rpcapi.StartHandlerRequest) (*rpcapi.StartHandlerResponse, error) {
	if req.DirectoryPath == "" {
		results, err := s.supervisor.Registry.StartAll()
		if err != nil {
			return nil, statusFor(err)
		}
		states := make(map[string]rpcapi.HandlerState, len(results))
		for path, startErr := range results {
			states[path] = stateFor(startErr == nil, startErr)
		}
		return &rpcapi.StartHandlerResponse{States: states}, nil
	}

	err := s.supervisor.Registry.Start(req.DirectoryPath)
	if err != nil && errors.Is(err, registry.ErrNotFound) {
		return nil, statusFor(err)
	}
	return &rpcapi.StartHandlerResponse{
		States: map[string]rpcapi.HandlerState{req.DirectoryPath: stateFor(err == nil, err)},
	}, nil
}

// StopHandler implements rpcapi.FoldendServer.StopHandler.
func (s *Server) StopHandler(ctx context.Context, req *rpcapi.StopHandlerRequest) (*rpcapi.StopHandlerResponse, error) {
	if req.DirectoryPath == "" {
		summaries, err := s.supervisor.Registry.Summary("")
		if err != nil {
			return nil, statusFor(err)
		}
		states := make(map[string]rpcapi.HandlerState, len(summaries))
		for path := range summaries {
			stopErr := s.supervisor.Registry.Stop(path, req.Remove)
			states[path] = stateFor(false, stopErr)
		}
		return &rpcapi.StopHandlerResponse{States: states}, nil
	}

	err := s.supervisor.Registry.Stop(req.DirectoryPath, req.Remove)
	if err != nil {
		return nil, statusFor(err)
	}
	return &rpcapi.StopHandlerResponse{
		States: map[string]rpcapi.HandlerState{req.DirectoryPath: stateFor(false, nil)},
	}, nil
}

// ModifyHandler implements rpcapi.FoldendServer.ModifyHandler.
func (s *Server) ModifyHandler(ctx context.Context, req *rpcapi.ModifyHandlerRequest) (*rpcapi.ModifyHandlerResponse, error) {
	patch := registry.Patch{AutoStart: req.AutoStart, Description: req.Description}
	if err := s.supervisor.Registry.Modify(req.DirectoryPath, patch); err != nil {
		return nil, statusFor(err)
	}
	return &rpcapi.ModifyHandlerResponse{}, nil
}

// TraceHandler implements rpcapi.FoldendServer.TraceHandler: it validates
// the requested directory (if any) is registered and alive, subscribes to
// the trace bus, and streams messages until the client disconnects or (for
// a single-directory trace) an end-of-stream sentinel is observed.
func (s *Server) TraceHandler(req *rpcapi.TraceHandlerRequest, stream rpcapi.Foldend_TraceHandlerServer) error {
	if req.DirectoryPath != "" {
		summaries, err := s.supervisor.Registry.Summary(req.DirectoryPath)
		if err != nil {
			return statusFor(err)
		}
		if !summaries[req.DirectoryPath].IsAlive {
			return status.Error(codes.NotFound, fmt.Sprintf("%s is not alive", req.DirectoryPath))
		}
	} else {
		summaries, err := s.supervisor.Registry.Summary("")
		if err != nil {
			return statusFor(err)
		}
		anyAlive := false
		for _, summary := range summaries {
			if summary.IsAlive {
				anyAlive = true
				break
			}
		}
		if !anyAlive {
			return status.Error(codes.Unavailable, "no handlers are alive")
		}
	}

	subscription := s.supervisor.Trace.Subscribe(req.DirectoryPath)
	defer subscription.Unsubscribe()

	log := s.supervisor.Logger().Sublogger("trace")
	log.Debugf("subscription %s opened for %q", subscription.ID, req.DirectoryPath)
	defer log.Debugf("subscription %s closed", subscription.ID)

	for {
		select {
		case <-stream.Context().Done():
			return stream.Context().Err()
		case message, ok := <-subscription.Messages:
			if !ok {
				return nil
			}
			if err := stream.Send(toWireMessage(message)); err != nil {
				return err
			}
			if req.DirectoryPath != "" && message.ActionName == nil {
				return nil
			}
		}
	}
}

func toWireMessage(message trace.Message) *rpcapi.TraceMessage {
	return &rpcapi.TraceMessage{
		DirectoryPath: message.DirectoryPath,
		ActionName:    message.ActionName,
		Text:          message.Text,
	}
}
