package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// LoggerConfig maps application config onto the logger's. Source locations
// are only added in development.
func LoggerConfig(cfg *config.Config) logger.Config {
	lc := logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: logger.DefaultServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
		AddSource:   cfg.Environment == logger.EnvironmentDev,
		MaxSizeMB:   logger.DefaultMaxSizeMB,
		MaxBackups:  logger.DefaultMaxBackups,
		MaxAgeDays:  logger.DefaultMaxAgeDays,
	}
	if cfg.LogDir != "" {
		lc.FilePath = filepath.Join(cfg.LogDir, LogFileName)
	}
	return lc
}

// SetupLogger installs the default logger writing to stdout and, when LOG_DIR
// is set, a rotating file. The returned closer must be closed on exit.
func SetupLogger(cfg *config.Config) (io.Closer, error) {
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
			return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateLogsDir, err)
		}
	}

	lc := LoggerConfig(cfg)
	closer := logger.InitLogger(lc)

	slog.Info(LogMsgLoggingInitialized, "level", lc.LogLevel(), "file", lc.FilePath)
	slog.Info(LogMsgStartingRewardEngine,
		"environment", cfg.Environment,
		"version", cfg.Version)
	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"timezone", cfg.Location.String(),
		"pity_scope", cfg.PityScope)

	for _, w := range cfg.Warnings() {
		slog.Warn(LogMsgConfigWarning, "warning", w)
	}

	return closer, nil
}
