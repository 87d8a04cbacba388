package ports

import (
	"context"
	"net/url"
)

// RESTClient is the transport used by controllers and services to talk to
// the backend. Implementations decode the response body (unwrapping the
// {data, success, message} envelope when present) into out, which may be
// nil when the caller does not care about the payload.
type RESTClient interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	PostJSON(ctx context.Context, path string, body any, out any) error
	PutJSON(ctx context.Context, path string, body any, out any) error
	DeleteJSON(ctx context.Context, path string, out any) error
}
