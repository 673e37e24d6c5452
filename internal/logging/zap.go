package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field names shared by the command-line and library loggers.
const (
	FieldError   = "error"
	FieldPath    = "path"
	FieldEngine  = "engine"
	FieldVersion = "version"
	FieldEvent   = "event"
)

// ZapLevel maps a level name onto a zap level. Unknown names are info.
func ZapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewZap builds the logger handed to the bridge and the Go engine.
// Output goes to path, or to stderr when path is empty. The edit
// command passes a file so that log lines do not land on the screen.
func NewZap(level, path string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(ZapLevel(level))
	cfg.DisableStacktrace = true
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return logger, nil
}
