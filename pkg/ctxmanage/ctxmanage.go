package ctxmanage

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type key string

// TraceIdKey is the context key under which the per-request trace id is stored.
const TraceIdKey key = "1"

// AddTraceIdToContext generates a new trace id and stores it in the context.
func AddTraceIdToContext(ctx context.Context) context.Context {
	traceId := uuid.NewString()
	return context.WithValue(ctx, TraceIdKey, traceId)
}

// GetTraceIdOfRequest returns the trace id stored on the request context,
// or a fresh one if the middleware did not run.
func GetTraceIdOfRequest(c *gin.Context) string {
	ctx := c.Request.Context()
	traceId, ok := ctx.Value(TraceIdKey).(string)
	if !ok {
		traceId = uuid.NewString()
	}
	return traceId
}
