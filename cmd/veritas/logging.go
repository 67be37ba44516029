package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/veritasnet/veritas-cli/pkg/credstore"
)

var loggerOnce sync.Once

// initLogging routes structured logs to a rotating file under the config
// directory. Console output stays reserved for command results; --verbose
// lowers the file log level to debug.
func initLogging() error {
	var initErr error
	loggerOnce.Do(func() {
		logPath := viper.GetString("logging.file")
		if logPath == "" {
			dir := cfgDir
			if dir == "" {
				dir = credstore.DefaultDir()
			}
			logPath = filepath.Join(dir, "cli.log")
		}

		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			initErr = fmt.Errorf("creating log directory: %w", err)
			return
		}

		rotatingWriter := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    viper.GetInt("logging.max_size"),
			MaxBackups: viper.GetInt("logging.max_files"),
			MaxAge:     30,
			Compress:   true,
		}

		level := parseLogLevel(viper.GetString("logging.level"))
		if verbose {
			level = slog.LevelDebug
		}

		handler := slog.NewJSONHandler(rotatingWriter, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
	})
	return initErr
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
