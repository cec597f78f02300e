package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
	repo "github.com/adisatriyo/inventory-api/internal/domain/repository"
)

func profileKey(userID string) string {
	return "user:profile:" + userID
}

// HydrateActor replaces the minimal claims-only actor with the full user
// record so downstream handlers can read attributes like the username. The
// lookup goes through a Redis hash first and falls back to Postgres; the
// cache is fail-open. A user that no longer exists does not fail the request,
// the actor just stays claims-only, and the cached profile is dropped so the
// deletion is seen at most cacheTTL after the last cache refresh.
func HydrateActor(users repo.UserRepository, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor.UserID == "" || actor.User != nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		if rdb != nil {
			if data, err := rdb.HGetAll(ctx, profileKey(actor.UserID)).Result(); err == nil && data["username"] != "" {
				actor.User = &entity.User{ID: actor.UserID, Username: data["username"]}
				c.Set(CtxActorKey, actor)
				c.Next()
				return
			}
		}

		u, err := users.GetByID(ctx, actor.UserID)
		if err != nil {
			if rdb != nil && errors.Is(err, repo.ErrNotFound) {
				_ = rdb.Del(ctx, profileKey(actor.UserID)).Err()
			}
			if logger != nil {
				logger.WithField("user_id", actor.UserID).Debug("actor hydration fell back to claims")
			}
			c.Next()
			return
		}

		actor.User = u
		c.Set(CtxActorKey, actor)

		if rdb != nil {
			key := profileKey(u.ID)
			pipe := rdb.Pipeline()
			pipe.HSet(ctx, key, map[string]any{"username": u.Username})
			pipe.Expire(ctx, key, cacheTTL)
			if _, rErr := pipe.Exec(ctx); rErr != nil && logger != nil {
				logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
			}
		}
		c.Next()
	}
}
