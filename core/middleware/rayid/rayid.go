package rayid

import (
	"webboot/core/logger"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the request and response header carrying the ray id.
const HeaderName = "X-Ray-ID"

// New creates a Fiber middleware assigning a ray id to every request. An id sent by
// the client is kept when it is a valid UUID, otherwise a random UUID is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := resolve(c.Get(HeaderName))
		c.Locals(logger.RayIDKey, id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}

// Gin is the Gin counterpart of New.
func Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := resolve(c.GetHeader(HeaderName))
		c.Set(logger.RayIDKey, id)
		c.Header(HeaderName, id)
		c.Next()
	}
}

// resolve returns the client id in canonical form, or a fresh one when it isn't a UUID.
// The id ends up in response headers and every log line, so arbitrary input is dropped.
func resolve(clientID string) string {
	if clientID != "" {
		if id, err := uuid.Parse(clientID); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}
