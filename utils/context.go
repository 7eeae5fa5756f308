package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type rqIDKey struct{}

type userIDKey struct{}

func GetRequestIDFromCtx(ctx context.Context) string {
	rqID, ok := ctx.Value(rqIDKey{}).(string)
	if !ok {
		return ""
	}
	return rqID
}

// CreateCtxWithRqID carries the request ID set by the logging middleware
// from the gin context into a plain context for the service layers.
func CreateCtxWithRqID(c *gin.Context) context.Context {
	rqID := c.GetString("rqID")
	if rqID == "" {
		rqID = uuid.NewString()
	}
	return context.WithValue(c.Request.Context(), rqIDKey{}, rqID)
}

// CtxWithRqID attaches an existing request ID, used by background jobs
// to correlate their log lines.
func CtxWithRqID(ctx context.Context, rqID string) context.Context {
	return context.WithValue(ctx, rqIDKey{}, rqID)
}

func CtxWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func GetUserIDFromCtx(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}
