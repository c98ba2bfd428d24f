package server

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/jobs"
	"github.com/joseph-ayodele/jobs-tracker/internal/result"
)

// JobsServiceName is the fully qualified gRPC service name.
const JobsServiceName = "jobs.v1.JobsService"

// JobsServiceServer is the gRPC surface of the record store. Messages are
// google.protobuf.Struct so records keep their custom fields.
type JobsServiceServer interface {
	ListJobs(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListResultTypes(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// JobsServiceDesc describes JobsServiceServer for grpc.Server.RegisterService.
var JobsServiceDesc = grpc.ServiceDesc{
	ServiceName: JobsServiceName,
	HandlerType: (*JobsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("ListJobs", JobsServiceServer.ListJobs),
		unaryMethod("GetJob", JobsServiceServer.GetJob),
		unaryMethod("CreateJob", JobsServiceServer.CreateJob),
		unaryMethod("UpdateJob", JobsServiceServer.UpdateJob),
		unaryMethod("DeleteJob", JobsServiceServer.DeleteJob),
		unaryMethod("ListResultTypes", JobsServiceServer.ListResultTypes),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterJobsServiceServer registers srv on s.
func RegisterJobsServiceServer(s grpc.ServiceRegistrar, srv JobsServiceServer) {
	s.RegisterService(&JobsServiceDesc, srv)
}

type unaryCall func(JobsServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(JobsServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + JobsServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(JobsServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// JobsServer implements JobsServiceServer over the record store.
type JobsServer struct {
	svc    *jobs.Service
	logger *slog.Logger
}

func NewJobsServer(svc *jobs.Service, logger *slog.Logger) *JobsServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobsServer{svc: svc, logger: logger}
}

func (s *JobsServer) ListJobs(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	o := result.FromJobs(s.svc.List(ctx))
	if err := o.GRPCError(); err != nil {
		return nil, err
	}
	list := make([]any, len(o.Jobs))
	for i, j := range o.Jobs {
		list[i] = j.ToMap()
	}
	return newStruct(map[string]any{"jobs": list})
}

func (s *JobsServer) GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requestID(req)
	if err != nil {
		return nil, err
	}
	return jobStruct(result.FromJob(s.svc.Get(ctx, id)))
}

func (s *JobsServer) CreateJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return jobStruct(result.FromJob(s.svc.Create(ctx, requestFields(req))))
}

func (s *JobsServer) UpdateJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requestID(req)
	if err != nil {
		return nil, err
	}
	return jobStruct(result.FromJob(s.svc.Update(ctx, id, requestFields(req))))
}

func (s *JobsServer) DeleteJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requestID(req)
	if err != nil {
		return nil, err
	}
	o := result.FromDelete(s.svc.Delete(ctx, id))
	if err := o.GRPCError(); err != nil {
		return nil, err
	}
	return newStruct(map[string]any{"success": o.Deleted})
}

func (s *JobsServer) ListResultTypes(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	types := s.svc.ResultTypes()
	values := make([]any, len(types))
	for i, t := range types {
		values[i] = t
	}
	return newStruct(map[string]any{"result_types": values})
}

func requestID(req *structpb.Struct) (int64, error) {
	v, ok := req.GetFields()["id"]
	if !ok {
		return 0, common.InvalidArgumentError("id is required")
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue <= 0 || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue >= math.MaxInt64 {
		return 0, common.InvalidArgumentError("id must be a positive integer")
	}
	return int64(n.NumberValue), nil
}

func requestFields(req *structpb.Struct) entity.Fields {
	fields := entity.Fields{}
	if v, ok := req.GetFields()["fields"]; ok {
		if st := v.GetStructValue(); st != nil {
			fields = st.AsMap()
		}
	}
	return fields
}

func jobStruct(o result.Outcome) (*structpb.Struct, error) {
	if err := o.GRPCError(); err != nil {
		return nil, err
	}
	return newStruct(o.Job.ToMap())
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, common.InternalError("encode response")
	}
	return st, nil
}

// UnaryLogging assigns a request id from x-request-id metadata, or a fresh
// one, and logs each call.
func UnaryLogging(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get("x-request-id"); len(vals) > 0 {
				id = vals[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		ctx = common.WithRequestID(ctx, id)
		ctx = common.WithLogger(ctx, logger.With("request_id", id))

		resp, err := handler(ctx, req)

		code := status.Code(err)
		logger.Info("grpc request",
			"request_id", id,
			"method", info.FullMethod,
			"code", code.String(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}
