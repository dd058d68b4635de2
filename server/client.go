package server

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tailored-agentic-units/msgstore/filestore"
)

// Client calls a remote message store service.
type Client struct {
	save     *connect.Client[structpb.Struct, emptypb.Empty]
	read     *connect.Client[wrapperspb.UInt64Value, wrapperspb.StringValue]
	filePath *connect.Client[wrapperspb.UInt64Value, wrapperspb.StringValue]
}

// NewClient creates a Client for the service at baseURL. A nil httpClient
// uses http.DefaultClient.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &Client{
		save:     connect.NewClient[structpb.Struct, emptypb.Empty](httpClient, baseURL+SaveProcedure, opts...),
		read:     connect.NewClient[wrapperspb.UInt64Value, wrapperspb.StringValue](httpClient, baseURL+ReadProcedure, opts...),
		filePath: connect.NewClient[wrapperspb.UInt64Value, wrapperspb.StringValue](httpClient, baseURL+FilePathProcedure, opts...),
	}
}

// Save stores message under id on the remote store.
func (c *Client) Save(ctx context.Context, id filestore.MessageID, message string) error {
	req, err := newSaveRequest(id, message)
	if err != nil {
		return err
	}
	_, err = c.save.CallUnary(ctx, connect.NewRequest(req))
	return err
}

// Read returns the message for id. A missing message is reported as
// ok == false with a nil error.
func (c *Client) Read(ctx context.Context, id filestore.MessageID) (string, bool, error) {
	res, err := c.read.CallUnary(ctx, connect.NewRequest(wrapperspb.UInt64(uint64(id))))
	if err != nil {
		if connect.CodeOf(err) == connect.CodeNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return res.Msg.GetValue(), true, nil
}

// FilePath returns the path the remote store uses for id.
func (c *Client) FilePath(ctx context.Context, id filestore.MessageID) (string, error) {
	res, err := c.filePath.CallUnary(ctx, connect.NewRequest(wrapperspb.UInt64(uint64(id))))
	if err != nil {
		return "", err
	}
	return res.Msg.GetValue(), nil
}
