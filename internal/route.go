package internal

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/raids-lab/taskflow/docs"
	"github.com/raids-lab/taskflow/internal/handler"
	"github.com/raids-lab/taskflow/internal/middleware"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

const (
	APIPrefix      = "/api/v1"
	APIAdminPrefix = "/api/v1/admin"
)

type Backend struct {
	R *gin.Engine
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.R.ServeHTTP(w, r)
}

// Register builds the gin engine with every manager in handler.Registers
// mounted under its name.
func Register(registerConfig *handler.RegisterConfig) *Backend {
	s := new(Backend)
	s.R = gin.New()
	s.R.Use(gin.Recovery(), middleware.RequestLogger())

	// liveness probe
	s.R.GET("/v1/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ok",
		})
	})

	s.RegisterService(registerConfig)

	docs.SwaggerInfo.BasePath = "/api"
	s.R.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return s
}

func (b *Backend) RegisterService(conf *handler.RegisterConfig) {
	// Enable CORS for http://localhost:XXXX in debug mode
	if gin.Mode() == gin.DebugMode {
		fe := os.Getenv("TASKFLOW_FE_PORT")
		if fe != "" {
			url := "http://localhost:" + fe
			corsConf := cors.DefaultConfig()
			corsConf.AllowOrigins = []string{url}
			corsConf.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
			b.R.Use(cors.New(corsConf))
		}
	}

	managers := lo.Map(handler.Registers, func(register func(*handler.RegisterConfig) handler.Manager, _ int) handler.Manager {
		return register(conf)
	})
	logutils.Log.Debugf("registered managers: %v", lo.Map(managers, func(m handler.Manager, _ int) string {
		return m.GetName()
	}))

	///////////////////////////////////////
	//// Public routers, no need login ////
	///////////////////////////////////////

	publicRouter := b.R.Group(APIPrefix)
	for _, mgr := range managers {
		mgr.RegisterPublic(publicRouter.Group(mgr.GetName()))
	}

	///////////////////////////////////////
	//// Protected routers, need login ////
	///////////////////////////////////////

	protectedRouter := b.R.Group(APIPrefix)
	protectedRouter.Use(middleware.AuthProtected(conf.DB, conf.TokenMgr))
	for _, mgr := range managers {
		mgr.RegisterProtected(protectedRouter.Group(mgr.GetName()))
	}

	///////////////////////////////////////
	//// Admin routers, need admin role ///
	///////////////////////////////////////

	adminRouter := b.R.Group(APIAdminPrefix)
	adminRouter.Use(middleware.AuthProtected(conf.DB, conf.TokenMgr), middleware.AuthAdmin())
	for _, mgr := range managers {
		mgr.RegisterAdmin(adminRouter.Group(mgr.GetName()))
	}
}
