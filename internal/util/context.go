package util

import (
	"github.com/gin-gonic/gin"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/pkg/board"
)

const (
	UserIDKey       = "x-user-id"
	UsernameKey     = "x-user-name"
	RolePlatformKey = "x-role-platform"
	RequestIDKey    = "x-request-id"
)

func SetJWTContext(
	c *gin.Context,
	msg JWTMessage,
) {
	c.Set(UserIDKey, msg.UserID)
	c.Set(UsernameKey, msg.Username)
	c.Set(RolePlatformKey, msg.RolePlatform)
}

func GetToken(ctx *gin.Context) JWTMessage {
	var msg JWTMessage
	msg.UserID = ctx.GetUint(UserIDKey)
	msg.Username = ctx.GetString(UsernameKey)

	if rolePlatform, ok := ctx.Get(RolePlatformKey); ok {
		msg.RolePlatform, _ = rolePlatform.(model.Role)
	}
	return msg
}

// GetActor returns the authenticated caller as a board actor.
func GetActor(ctx *gin.Context) board.Actor {
	token := GetToken(ctx)
	return board.Actor{UserID: token.UserID, Role: token.RolePlatform}
}
