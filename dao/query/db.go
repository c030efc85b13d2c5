package query

import (
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/raids-lab/taskflow/pkg/config"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

var (
	once     sync.Once
	instance *gorm.DB
)

const (
	maxIdleConns  = 5
	maxOpenConns  = 10
	slowThreshold = 200 * time.Millisecond
)

// GetDB returns the singleton instance of the database connection.
func GetDB() *gorm.DB {
	once.Do(func() {
		var err error
		instance, err = Open(config.GetConfig())
		if err != nil {
			panic(err)
		}
	})
	return instance
}

// Open connects to the database described by cfg and registers read replicas.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if len(cfg.Database.Replicas) > 0 && cfg.Database.Driver == config.DriverPostgres {
		replicas := lo.Map(cfg.Database.Replicas, func(dsn string, _ int) gorm.Dialector {
			return postgres.Open(dsn)
		})
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register replicas: %w", err)
		}
		logutils.Log.Infof("registered %d read replicas", len(replicas))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetMaxOpenConns(maxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	logutils.Log.Infof("%s init success!", cfg.Database.Driver)
	return db, nil
}

func newDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg := cfg.Database.Postgres
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			pg.Host, pg.User, pg.Password, pg.DBName, pg.Port, pg.SSLMode, pg.TimeZone)
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.Database.SQLite.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func newLogger() logger.Interface {
	return logger.New(logutils.Log, logger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
