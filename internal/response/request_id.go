package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is where the request id lives on the gin context;
// the envelope metadata reads it back from there.
const ContextKeyRequestID = "request_id"

// RequestIDMiddleware tags every request with an id, honoring an
// X-Request-ID the caller already sent so ids correlate across hops.
// The id is echoed back in the response header and in the envelope
// metadata.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
