package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/internal/util"
	"github.com/raids-lab/taskflow/pkg/board"
)

type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterProtected(group *gin.RouterGroup)
	RegisterAdmin(group *gin.RouterGroup)
}

// RegisterConfig carries the dependencies shared by every manager.
type RegisterConfig struct {
	DB       *gorm.DB
	Board    *board.Service
	TokenMgr *util.TokenManager
}

// Registers holds the constructors of all managers. Each handler file
// appends its own in init.
var Registers []func(conf *RegisterConfig) Manager
