package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/procuremind-backend/internal/platform/ctxutil"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

// RequestLogger writes one line per request. Route params such as the rfq or
// quote id are logged under their own names; 5xx lines carry the cause that
// the response body hides.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if req, ok := ctxutil.RequestFrom(c.Request.Context()); ok {
			kv = append(kv, "request_id", req.ID, "trace_id", req.TraceID)
		}
		for _, p := range c.Params {
			kv = append(kv, "param_"+p.Key, p.Value)
		}
		if last := c.Errors.Last(); last != nil {
			kv = append(kv, "error", last.Error())
		}

		switch {
		case status >= 500:
			log.Error("request failed", kv...)
		case status >= 400:
			log.Warn("request rejected", kv...)
		default:
			log.Debug("request served", kv...)
		}
	}
}
