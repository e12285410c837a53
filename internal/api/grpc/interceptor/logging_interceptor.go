package interceptor

import (
	"context"
	"runtime/debug"
	"time"

	"menu-booking-backend/internal/logger"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type LoggingInterceptor struct {
	toStatus func(error) error
}

// NewLoggingInterceptor converts handler errors with toStatus before logging.
func NewLoggingInterceptor(toStatus func(error) error) *LoggingInterceptor {
	return &LoggingInterceptor{toStatus: toStatus}
}

// Unary returns a server interceptor that tags each call with a request ID,
// logs its outcome and turns panics into codes.Internal.
func (i *LoggingInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()
		reqID := requestID(ctx)
		l := logger.Get().With("request_id", reqID, "rpc", info.FullMethod)
		ctx = logger.WithContext(ctx, l)

		defer func() {
			if p := recover(); p != nil {
				l.Error("Panic in gRPC handler", "panic", p, "stack", string(debug.Stack()))
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
			code := status.Code(err)
			if code == codes.OK || code == codes.NotFound || code == codes.InvalidArgument {
				l.Debug("grpc", "code", code.String(), "duration", time.Since(start))
			} else {
				l.Warn("grpc", "code", code.String(), "duration", time.Since(start), "error", err)
			}
		}()

		resp, err = handler(ctx, req)
		if err != nil && i.toStatus != nil {
			err = i.toStatus(err)
		}
		return resp, err
	}
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get("x-request-id"); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}
