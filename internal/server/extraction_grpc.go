package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ExtractionServiceName = "actes.v1.Extraction"

	extractMethod     = "/" + ExtractionServiceName + "/Extract"
	extractFileMethod = "/" + ExtractionServiceName + "/ExtractFile"
)

// ExtractionServer is the server API of the actes.v1.Extraction service.
// Requests and responses are well-known protobuf types, so no generated
// message code is needed.
type ExtractionServer interface {
	// Extract runs the engine on raw OCR text.
	Extract(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// ExtractFile runs the whole pipeline on a document path on the server.
	ExtractFile(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterExtractionServer(s grpc.ServiceRegistrar, srv ExtractionServer) {
	s.RegisterService(&Extraction_ServiceDesc, srv)
}

func _Extraction_Extract_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExtractionServer).Extract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: extractMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExtractionServer).Extract(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Extraction_ExtractFile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExtractionServer).ExtractFile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: extractFileMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExtractionServer).ExtractFile(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var Extraction_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ExtractionServiceName,
	HandlerType: (*ExtractionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: _Extraction_Extract_Handler},
		{MethodName: "ExtractFile", Handler: _Extraction_ExtractFile_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "actes/v1/extraction.proto",
}

// ExtractionClient calls the actes.v1.Extraction service.
type ExtractionClient struct {
	cc grpc.ClientConnInterface
}

func NewExtractionClient(cc grpc.ClientConnInterface) *ExtractionClient {
	return &ExtractionClient{cc: cc}
}

func (c *ExtractionClient) Extract(ctx context.Context, text string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, extractMethod, wrapperspb.String(text), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ExtractionClient) ExtractFile(ctx context.Context, path string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, extractFileMethod, wrapperspb.String(path), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
