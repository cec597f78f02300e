package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
	"github.com/adisatriyo/inventory-api/pkg/helpers"
	"github.com/adisatriyo/inventory-api/pkg/response"
)

const CtxActorKey = "actor"

// Actor is the request's authenticated identity. User is nil when the token
// verified but the record could not be hydrated; handlers that only need the
// identifier keep working, handlers that need the username check Username().
type Actor struct {
	UserID string
	User   *entity.User
}

// Username reports the acting user's username and whether the actor was
// hydrated from the credential store.
func (a Actor) Username() (string, bool) {
	if a.User == nil {
		return "", false
	}
	return a.User.Username, true
}

// ActorFrom reads the actor set by BearerAuth/HydrateActor.
func ActorFrom(c *gin.Context) Actor {
	v, ok := c.Get(CtxActorKey)
	if !ok {
		return Actor{}
	}
	a, _ := v.(Actor)
	return a
}

// BearerAuth validates the Authorization header token and stores the minimal
// actor (claims only) in the Gin context. A missing token is 401, a bad or
// expired one is 403.
func BearerAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortMessage(c, http.StatusUnauthorized, "Authentication token is missing")
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.AbortMessage(c, http.StatusForbidden, "Token is not valid")
			return
		}
		c.Set(CtxActorKey, Actor{UserID: claims.UserID})
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
