// Package logger wraps a process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// log is the global zap logger instance. It is a no-op until Initialize runs.
var log = zap.NewNop()

// Config holds logger configuration
type Config struct {
	Debug bool
	// Quiet raises the level to warnings; used by the CLI when stdout carries
	// machine-readable output.
	Quiet bool
}

// Initialize builds the global logger. Logs always go to stderr so stdout
// stays clean for the upload link.
func Initialize(cfg Config) error {
	var zapConfig zap.Config
	if cfg.Debug {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	switch {
	case cfg.Debug:
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case cfg.Quiet:
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	l, err := zapConfig.Build()
	if err != nil {
		return err
	}
	log = l
	return nil
}

// Default returns the global logger
func Default() *zap.Logger {
	return log
}

// Named returns a child of the global logger tagged with a component name.
func Named(name string) *zap.Logger {
	return log.Named(name)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = log.Sync()
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

// Error logs an error message
func Error(err error, fields ...zap.Field) {
	if err != nil {
		log.Error(err.Error(), fields...)
	} else {
		log.Error("error occurred", fields...)
	}
}
