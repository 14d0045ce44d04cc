package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/WangQiHao-Charlie/screpd/pkg/screp"
)

// ScrepServer adapts a screp.Runner to the screp.v1.Screp gRPC service.
//
// Run takes a Struct with either "path" (a replay file on the server) or
// "replay" (base64 replay bytes), plus an optional "options" Struct using
// the options document keys. It answers with the fields of screp.Result.
type ScrepServer struct {
	runner *screp.Runner
	// Optional discovery data
	Features []string
	Metadata map[string]string
}

var _ ScrepService = (*ScrepServer)(nil)

func NewScrepServer(runner *screp.Runner, features []string, metadata map[string]string) *ScrepServer {
	return &ScrepServer{runner: runner, Features: features, Metadata: metadata}
}

// Run bridges the gRPC request to Runner.Run.
func (s *ScrepServer) Run(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, opts, err := decodeRunRequest(req)
	if err != nil {
		return nil, err
	}
	res, err := s.runner.Run(ctx, in, opts)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := encodeResult(res)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return out, nil
}

// Version returns the screp version record; an empty Struct when screp
// cannot report one.
func (s *ScrepServer) Version(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	v := s.runner.Version(ctx)
	m := make(map[string]any, len(v))
	for k, val := range v {
		m[string(k)] = val
	}
	return structpb.NewStruct(m)
}

// Discover returns static capabilities.
func (s *ScrepServer) Discover(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	features := make([]any, 0, len(s.Features))
	for _, f := range s.Features {
		features = append(features, f)
	}
	meta := make(map[string]any, len(s.Metadata))
	for k, v := range s.Metadata {
		meta[k] = v
	}
	return structpb.NewStruct(map[string]any{
		"features":  features,
		"metadata":  meta,
		"command":   s.runner.Command(),
		"available": s.runner.Available(),
	})
}

func decodeRunRequest(req *structpb.Struct) (screp.Input, screp.Options, error) {
	fields := req.GetFields()
	path := fields["path"].GetStringValue()
	replay, hasReplay := fields["replay"]

	var in screp.Input
	switch {
	case path != "" && hasReplay:
		return in, screp.Options{}, status.Error(codes.InvalidArgument, "set either path or replay, not both")
	case path != "":
		in = screp.FileInput(path)
	case hasReplay:
		data, err := base64.StdEncoding.DecodeString(replay.GetStringValue())
		if err != nil {
			return in, screp.Options{}, status.Errorf(codes.InvalidArgument, "replay: %v", err)
		}
		in = screp.BytesInput(data)
	default:
		return in, screp.Options{}, status.Error(codes.InvalidArgument, "path or replay is required")
	}

	var opts screp.Options
	if o := fields["options"]; o != nil {
		st := o.GetStructValue()
		if st == nil {
			return in, screp.Options{}, status.Error(codes.InvalidArgument, "options must be a struct")
		}
		parsed, err := screp.ParseOptions(st.AsMap())
		if err != nil {
			return in, screp.Options{}, toStatus(err)
		}
		opts = parsed
	}
	return in, opts, nil
}

func encodeResult(res *screp.Result) (*structpb.Struct, error) {
	m := map[string]any{
		"options":        res.Options.AsMap(),
		"exitCode":       nil,
		"diagnostics":    res.Diagnostics,
		"stderr":         res.Stderr,
		"abortSignal":    nil,
		"hasValidResult": res.HasValidResult(),
		"data":           nil,
	}
	if res.ExitCode != nil {
		m["exitCode"] = *res.ExitCode
	}
	if res.AbortSignal != "" {
		m["abortSignal"] = res.AbortSignal
	}
	if len(res.Raw) > 0 {
		var doc map[string]any
		if err := json.Unmarshal(res.Raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		m["data"] = doc
	}
	return structpb.NewStruct(m)
}

// toStatus collapses runner errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, screp.ErrInvalidOptions):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, fs.ErrNotExist):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// Register attaches s to a gRPC server.
func Register(r grpc.ServiceRegistrar, s ScrepService) {
	r.RegisterService(&ServiceDesc, s)
}
