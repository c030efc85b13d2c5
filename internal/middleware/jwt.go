package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/internal/resputil"
	"github.com/raids-lab/taskflow/internal/util"
)

func AuthProtected(db *gorm.DB, tokenMgr *util.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		t := strings.Split(authHeader, " ")
		if len(t) < 2 || t[0] != "Bearer" {
			resputil.HTTPError(c, http.StatusUnauthorized, "Invalid token", resputil.TokenInvalid)
			c.Abort()
			return
		}

		authToken := t[1]
		token, err := tokenMgr.CheckToken(authToken)
		if err != nil {
			resputil.HTTPError(c, http.StatusUnauthorized, err.Error(), resputil.TokenExpired)
			c.Abort()
			return
		}

		// Writes are checked against the user row, so a role change or a
		// disabled account takes effect before the token expires.
		if c.Request.Method != http.MethodGet {
			var user model.User
			if err := db.WithContext(c).Take(&user, token.UserID).Error; err != nil {
				resputil.HTTPError(c, http.StatusUnauthorized, "User not found", resputil.TokenInvalid)
				c.Abort()
				return
			}
			if user.Status != model.StatusActive {
				resputil.HTTPError(c, http.StatusUnauthorized, "User is not active", resputil.UserInactive)
				c.Abort()
				return
			}
			if user.Role != token.RolePlatform {
				resputil.HTTPError(c, http.StatusUnauthorized, "Platform token not match", resputil.TokenExpired)
				c.Abort()
				return
			}
		}

		util.SetJWTContext(c, token)
		c.Next()
	}
}

func AuthAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.GetToken(c)
		if token.RolePlatform != model.RoleAdmin {
			resputil.HTTPError(c, http.StatusForbidden, "Not Admin", resputil.UserNotAllowed)
			c.Abort()
			return
		}
		c.Next()
	}
}
