package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger *zap.Logger
)

// Init builds the process-wide logger. LOG_LEVEL overrides the default level
// of the chosen profile.
func Init(development bool) error {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(logLevel)); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	l, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return err
	}

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

// L returns the process logger, falling back to a development logger when
// Init was never called (tests mostly).
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger, _ = zap.NewDevelopment()
	}
	return logger
}

// Component returns a logger tagged with the component name.
func Component(name string) *zap.Logger {
	return L().With(zap.String("component", name))
}

// Sync flushes buffered log entries.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		_ = logger.Sync()
	}
}
