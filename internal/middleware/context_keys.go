package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
)

const actorKey = contextKey("actor")

// GetActorFromContext retrieves the authenticated principal resolved by the
// auth middleware. The boolean reports whether one was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actorVal := c.Request.Context().Value(actorKey)
	if actorVal == nil {
		return domain.Actor{}, false
	}
	actor, ok := actorVal.(domain.Actor)
	if !ok {
		return domain.Actor{}, false
	}
	return actor, true
}
