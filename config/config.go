package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	StoreDriver string `envconfig:"STORE_DRIVER" default:"file"`    // file | sqlite | postgres | bolt
	StorePath   string `envconfig:"STORE_PATH"   default:"db.json"` // file, sqlite and bolt drivers
	DatabaseURL string `envconfig:"DATABASE_URL"`                   // postgres driver

	HTTPPort string `envconfig:"HTTP_PORT" default:":8081"`
	GrpcPort string `envconfig:"GRPC_PORT" default:":50051"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	BackupDir         string `envconfig:"BACKUP_DIR"          default:"backups"`
	BackupSchedule    string `envconfig:"BACKUP_SCHEDULE"`
	LowStockThreshold int    `envconfig:"LOW_STOCK_THRESHOLD" default:"5"`
}

var drivers = []string{"file", "sqlite", "postgres", "bolt"}

// LoadConfig reads an optional .env file (envFile, or ./.env when empty) and
// then the process environment.
func LoadConfig(envFile string, logger *logrus.Logger) (*Config, error) {
	files := []string{}
	if envFile != "" {
		files = append(files, envFile)
	}
	err := godotenv.Load(files...)
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: StoreDriver=%s, HTTP Port=%s, GRPC Port=%s, LogLevel=%s", cfg.StoreDriver, cfg.HTTPPort, cfg.GrpcPort, cfg.LogLevel)
	if cfg.DatabaseURL != "" {
		logger.Info("Configuration loaded: DatabaseURL is set")
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	known := false
	for _, d := range drivers {
		if d == c.StoreDriver {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("configuration error: STORE_DRIVER %q must be one of %v", c.StoreDriver, drivers)
	}
	if c.StoreDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("configuration error: DATABASE_URL is not set")
	}
	if c.StoreDriver != "postgres" && c.StorePath == "" {
		return fmt.Errorf("configuration error: STORE_PATH is not set")
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("configuration error: LOW_STOCK_THRESHOLD cannot be negative")
	}
	return nil
}
