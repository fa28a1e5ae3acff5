package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/utils"
	"github.com/clubhq/clubhub/backend/pkg/logger"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

const contextCaller = "caller"

// Identify resolves the session cookie into a Caller when present and
// valid. A missing or invalid cookie leaves the request anonymous; the
// route decides whether that is acceptable.
func Identify(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := utils.ParseSessionToken(token)
		if err != nil {
			logger.Debug().Err(err).Msg("session cookie rejected")
			c.Next()
			return
		}

		c.Set(contextCaller, &models.Caller{
			UID:     claims.UID,
			Email:   claims.Email,
			Name:    claims.Name,
			Role:    claims.Role,
			IsAdmin: claims.IsAdmin,
		})
		c.Next()
	}
}

// AuthRequired aborts with 401 when the request carries no verified
// identity.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerFrom(c) == nil {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired aborts with 403 unless the caller carries the admin claim.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller == nil {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		if !caller.IsAdmin {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFrom returns the verified caller, or nil for anonymous requests.
func CallerFrom(c *gin.Context) *models.Caller {
	if v, exists := c.Get(contextCaller); exists {
		return v.(*models.Caller)
	}
	return nil
}
