package repack

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger receives merge events
type Logger interface {
	Verbose(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	// DuplicateIgnored reports a member skipped because the target already declares it
	DuplicateIgnored(kind string, member fmt.Stringer)
}

type zapLogger struct {
	logger *zap.Logger
}

// NewLogger adapts zap logger, verbose messages are logged at debug level
func NewLogger(logger *zap.Logger) Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLogger{logger: logger}
}

// NewDevelopmentLogger returns console logger, verbose enables debug level
func NewDevelopmentLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if !verbose {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return config.Build()
}

func (l *zapLogger) Verbose(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

func (l *zapLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, fields...)
}

func (l *zapLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, fields...)
}

func (l *zapLogger) Error(msg string, fields ...zap.Field) {
	l.logger.Error(msg, fields...)
}

func (l *zapLogger) DuplicateIgnored(kind string, member fmt.Stringer) {
	l.logger.Info("ignoring duplicate "+kind, zap.Stringer(kind, member))
}
