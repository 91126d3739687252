package ctxutil

import "context"

type requestKey struct{}

// Request identifies the inbound HTTP call a unit of work belongs to.
type Request struct {
	ID      string
	TraceID string
}

func WithRequest(ctx context.Context, r Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

func RequestFrom(ctx context.Context) (Request, bool) {
	if ctx == nil {
		return Request{}, false
	}
	r, ok := ctx.Value(requestKey{}).(Request)
	return r, ok
}

// RequestID returns the request id carried by ctx, or "".
func RequestID(ctx context.Context) string {
	r, _ := RequestFrom(ctx)
	return r.ID
}

func TraceID(ctx context.Context) string {
	r, _ := RequestFrom(ctx)
	return r.TraceID
}
