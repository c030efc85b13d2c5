package helper

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/raids-lab/taskflow/dao/query"
	"github.com/raids-lab/taskflow/internal/handler"
	"github.com/raids-lab/taskflow/internal/util"
	"github.com/raids-lab/taskflow/pkg/board"
	"github.com/raids-lab/taskflow/pkg/config"
	"github.com/raids-lab/taskflow/pkg/notify"
)

// ConfigInitializer loads configuration and builds the shared dependencies.
type ConfigInitializer struct {
	backendConfig *config.Config
}

func NewConfigInitializer() *ConfigInitializer {
	return &ConfigInitializer{
		backendConfig: config.GetConfig(),
	}
}

func (ci *ConfigInitializer) GetBackendConfig() *config.Config {
	return ci.backendConfig
}

// LoadDebugEnvironment reads .debug.env in gin debug mode and applies the
// local port.
func (ci *ConfigInitializer) LoadDebugEnvironment() error {
	if gin.Mode() != gin.DebugMode {
		return nil
	}

	err := godotenv.Load(".debug.env")
	if err != nil {
		return err
	}

	be := os.Getenv("TASKFLOW_BE_PORT")
	if be == "" {
		return fmt.Errorf("TASKFLOW_BE_PORT is not set")
	}
	ci.backendConfig.ServerAddr = ":" + be

	return nil
}

// InitializeRegisterConfig opens the database, applies migrations and wires
// the board service.
func (ci *ConfigInitializer) InitializeRegisterConfig() (*handler.RegisterConfig, error) {
	db := query.GetDB()
	if err := query.Migrate(db); err != nil {
		return nil, err
	}

	auth := ci.backendConfig.Auth
	registerConfig := &handler.RegisterConfig{
		DB:       db,
		Board:    board.NewService(db, notify.New(ci.backendConfig)),
		TokenMgr: util.NewTokenManager(auth.AccessTokenSecret, auth.AccessTokenExpiryHour, auth.RefreshTokenExpiryHour),
	}
	return registerConfig, nil
}
