package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/devevents-app/devevents/internal/entity"
)

const identityKey = "identity"

// Identity extracts the caller identity set by the auth proxy in front of
// this service. The headers are trusted; the service performs no
// authentication of its own.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, entity.Identity{
			UserID: c.GetHeader("X-User-Id"),
			Email:  c.GetHeader("X-User-Email"),
			Name:   c.GetHeader("X-User-Name"),
		})
		c.Next()
	}
}

// GetIdentity returns the caller identity for this request. Zero value when
// the request is anonymous.
func GetIdentity(c *gin.Context) entity.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(entity.Identity); ok {
			return id
		}
	}
	return entity.Identity{}
}
