package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/childcheck-app/cache"
	"github.com/yeremiapane/childcheck-app/utils"
)

// AuthMiddleware memvalidasi bearer token: parse JWT, lalu konsultasi
// blacklist supaya token yang sudah logout ditolak 401.
func AuthMiddleware(blacklist cache.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		if claims.StaffID == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid staff id in token"))
			c.Abort()
			return
		}

		revoked, err := blacklist.IsBlacklisted(c.Request.Context(), tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			c.Abort()
			return
		}
		if revoked {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("token has been revoked"))
			c.Abort()
			return
		}

		c.Set("staff_id", claims.StaffID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
