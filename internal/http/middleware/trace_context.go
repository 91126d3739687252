package middleware

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/procuremind-backend/internal/platform/ctxutil"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"

	maxRequestIDLen = 128
)

// AttachTraceContext gives every request an id and a trace id. A caller
// supplied request id is kept when it is short printable text; the trace id
// comes from the active span when otelgin runs first.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := ctxutil.Request{
			ID:      cleanID(c.GetHeader(HeaderRequestID)),
			TraceID: cleanID(c.GetHeader(HeaderTraceID)),
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			req.TraceID = sc.TraceID().String()
		}
		if req.TraceID == "" {
			req.TraceID = req.ID
		}

		c.Request = c.Request.WithContext(ctxutil.WithRequest(c.Request.Context(), req))
		c.Header(HeaderRequestID, req.ID)
		c.Header(HeaderTraceID, req.TraceID)
		c.Next()
	}
}

func cleanID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxRequestIDLen {
		return ""
	}
	for _, r := range id {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return ""
		}
	}
	return id
}
