package config

import (
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

type Config struct {
	// Port Settings
	Host       string `json:"host"`       // The domain name of the server.
	ServerAddr string `json:"serverAddr"` // The address the server endpoint binds to.

	Auth struct {
		AccessTokenSecret      string `json:"accessTokenSecret"`
		AccessTokenExpiryHour  int    `json:"accessTokenExpiryHour"`
		RefreshTokenExpiryHour int    `json:"refreshTokenExpiryHour"`
	} `json:"auth"`

	// DB Settings
	Database struct {
		Driver   string   `json:"driver"` // postgres or sqlite
		Replicas []string `json:"replicas"`
		Postgres struct {
			Host     string `json:"host"`
			Port     string `json:"port"`
			DBName   string `json:"dbname"`
			User     string `json:"user"`
			Password string `json:"password"`
			SSLMode  string `json:"sslmode"`
			TimeZone string `json:"TimeZone"`
		} `json:"postgres"`
		SQLite struct {
			Path string `json:"path"`
		} `json:"sqlite"`
	} `json:"database"`

	SMTP struct {
		Enable   bool   `json:"enable"`
		Host     string `json:"host"`
		Port     int    `json:"port"`
		User     string `json:"user"`
		Password string `json:"password"`
		From     string `json:"from"`
	} `json:"smtp"`

	// Overdue task reminders
	Reminder struct {
		Enable bool   `json:"enable"`
		Spec   string `json:"spec"` // cron expression
	} `json:"reminder"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

func IsDebugMode() bool {
	return gin.Mode() == gin.DebugMode
}

// initConfig reads TASKFLOW_CONFIG_PATH if set, ./etc/debug-config.yaml in
// debug mode and /etc/taskflow/config.yaml otherwise.
func initConfig() *Config {
	var configPath string
	switch {
	case os.Getenv("TASKFLOW_CONFIG_PATH") != "":
		configPath = os.Getenv("TASKFLOW_CONFIG_PATH")
	case IsDebugMode():
		configPath = "./etc/debug-config.yaml"
	default:
		configPath = "/etc/taskflow/config.yaml"
	}
	klog.Info("config path: ", configPath)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		klog.Error("init config", err)
		panic(err)
	}
	return cfg
}

// LoadConfig reads the YAML file at filePath and fills unset fields with defaults.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = ":8088"
	}
	if c.Auth.AccessTokenExpiryHour == 0 {
		c.Auth.AccessTokenExpiryHour = 24
	}
	if c.Auth.RefreshTokenExpiryHour == 0 {
		c.Auth.RefreshTokenExpiryHour = 168
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Postgres.SSLMode == "" {
		c.Database.Postgres.SSLMode = "disable"
	}
	if c.Database.Postgres.TimeZone == "" {
		c.Database.Postgres.TimeZone = "UTC"
	}
	if c.Database.SQLite.Path == "" {
		c.Database.SQLite.Path = "taskflow.db"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Reminder.Spec == "" {
		c.Reminder.Spec = "0 8 * * *"
	}
}
