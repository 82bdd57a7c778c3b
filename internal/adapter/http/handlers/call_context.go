package handlers

import (
	"context"
	"strings"

	"billing_gateway/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderActorID   = "X-Actor-Id"
	HeaderRequestID = "X-Request-ID"
)

// callContext attaches who asked for the call to the request context. A
// request id is generated when the caller sent none.
func callContext(c *gin.Context, accountID uuid.UUID) context.Context {
	requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
	if requestID == "" {
		requestID = uuid.NewString()
		c.Header(HeaderRequestID, requestID)
	}
	return entities.WithCallContext(c.Request.Context(), entities.CallContext{
		AccountID: accountID,
		Actor:     strings.TrimSpace(c.GetHeader(HeaderActorID)),
		RequestID: requestID,
	})
}
