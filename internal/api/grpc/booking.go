package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const BookingServiceName = "booking.v1.BookingService"

// BookingServer carries the booking operations. Messages are
// google.protobuf.Struct with the same field names as the REST JSON bodies.
type BookingServer interface {
	CreateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CancelBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetAvailableSlots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

func (h *BookingHandler) CreateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	itemID, err := int32Field(req, "itemId")
	if err != nil {
		return nil, err
	}
	res, err := h.bookingSvc.CreateBooking(ctx, domain.BookingRequest{
		ItemID:        itemID,
		Date:          stringField(req, "date"),
		StartTime:     stringField(req, "startTime"),
		EndTime:       stringField(req, "endTime"),
		CustomerName:  stringField(req, "customerName"),
		CustomerEmail: stringField(req, "customerEmail"),
		CustomerPhone: stringField(req, "customerPhone"),
	})
	if err != nil {
		return nil, err
	}
	return toStruct(res)
}

func (h *BookingHandler) GetBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := int32Field(req, "id")
	if err != nil {
		return nil, err
	}
	res, err := h.bookingSvc.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStruct(res)
}

func (h *BookingHandler) CancelBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := int32Field(req, "id")
	if err != nil {
		return nil, err
	}
	res, err := h.bookingSvc.CancelBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStruct(res)
}

func (h *BookingHandler) GetAvailableSlots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	itemID, err := int32Field(req, "itemId")
	if err != nil {
		return nil, err
	}
	slots, err := h.bookingSvc.GetAvailableSlots(ctx, itemID, stringField(req, "date"))
	if err != nil {
		return nil, err
	}
	return toStruct(slots)
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func int32Field(req *structpb.Struct, name string) (int32, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue < 1 || n.NumberValue > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, name)
	}
	return int32(n.NumberValue), nil
}

// toStruct renders v through its JSON tags so gRPC and REST bodies match.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func registerBookingServer(s grpc.ServiceRegistrar, srv BookingServer) {
	s.RegisterService(&bookingServiceDesc, srv)
}

func unaryHandler(method string, call func(BookingServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	fullMethod := "/" + BookingServiceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BookingServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(BookingServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var bookingServiceDesc = grpc.ServiceDesc{
	ServiceName: BookingServiceName,
	HandlerType: (*BookingServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreateBooking", BookingServer.CreateBooking),
		unaryHandler("GetBooking", BookingServer.GetBooking),
		unaryHandler("CancelBooking", BookingServer.CancelBooking),
		unaryHandler("GetAvailableSlots", BookingServer.GetAvailableSlots),
	},
	Streams: []grpc.StreamDesc{},
}
