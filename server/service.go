package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tailored-agentic-units/msgstore/filestore"
)

// Connect procedure names of the message store service.
const (
	ServiceName = "msgstore.v1.MessageStoreService"

	SaveProcedure     = "/" + ServiceName + "/Save"
	ReadProcedure     = "/" + ServiceName + "/Read"
	FilePathProcedure = "/" + ServiceName + "/FilePath"
)

// StoreIDHeader carries the id of the store instance that served a request.
const StoreIDHeader = "Msgstore-Store-Id"

// Save request field names.
const (
	fieldMessageID = "message_id"
	fieldMessage   = "message"
)

// maxWireID is the largest id a JSON/struct number carries exactly.
const maxWireID = 1 << 53

type service struct {
	store *filestore.MessageStore
}

// NewHandler returns the mount path and handler for the message store
// service. Every procedure is served under the returned path prefix.
func NewHandler(store *filestore.MessageStore, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := &service{store: store}

	mux := http.NewServeMux()
	mux.Handle(SaveProcedure, connect.NewUnaryHandler(SaveProcedure, svc.save, opts...))
	mux.Handle(ReadProcedure, connect.NewUnaryHandler(ReadProcedure, svc.read, opts...))
	mux.Handle(FilePathProcedure, connect.NewUnaryHandler(FilePathProcedure, svc.filePath, opts...))

	return "/" + ServiceName + "/", mux
}

func (s *service) save(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[emptypb.Empty], error) {
	id, message, err := parseSaveRequest(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.Save(ctx, id, message); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return respond(s.store, &emptypb.Empty{}), nil
}

func (s *service) read(ctx context.Context, req *connect.Request[wrapperspb.UInt64Value]) (*connect.Response[wrapperspb.StringValue], error) {
	id := filestore.MessageID(req.Msg.GetValue())

	message, ok, err := s.store.Read(ctx, id)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("message %d not found", id))
	}

	return respond(s.store, wrapperspb.String(message)), nil
}

func (s *service) filePath(_ context.Context, req *connect.Request[wrapperspb.UInt64Value]) (*connect.Response[wrapperspb.StringValue], error) {
	path := s.store.FilePath(filestore.MessageID(req.Msg.GetValue()))
	return respond(s.store, wrapperspb.String(path)), nil
}

func respond[T any](store *filestore.MessageStore, msg *T) *connect.Response[T] {
	res := connect.NewResponse(msg)
	res.Header().Set(StoreIDHeader, store.ID())
	return res
}

func parseSaveRequest(msg *structpb.Struct) (filestore.MessageID, string, error) {
	fields := msg.GetFields()

	idValue, ok := fields[fieldMessageID].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, "", fmt.Errorf("%w: %s must be a number", ErrInvalidMessageID, fieldMessageID)
	}
	n := idValue.NumberValue
	if n < 0 || n > maxWireID || math.Trunc(n) != n {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidMessageID, n)
	}

	messageValue, ok := fields[fieldMessage].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return 0, "", errors.New("message must be a string")
	}

	return filestore.MessageID(n), messageValue.StringValue, nil
}

func newSaveRequest(id filestore.MessageID, message string) (*structpb.Struct, error) {
	if id > maxWireID {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidMessageID, id, uint64(maxWireID))
	}
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldMessageID: structpb.NewNumberValue(float64(id)),
			fieldMessage:   structpb.NewStringValue(message),
		},
	}, nil
}
