package utils

import (
	"fmt"
	"io"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/config"
)

// AnnotateLogger attaches the split parameters to every message written by the returned logger.
func AnnotateLogger(logger *zap.Logger, method string, split *api.TSplit) *zap.Logger {
	logger = logger.With(zap.String("method", method))

	if split != nil {
		logger = logger.With(
			zap.Stringer("operation", split.Operation),
			zap.String("node", split.Node),
			zap.String("host", split.Endpoint.GetHost()),
			zap.Uint32("port", split.Endpoint.GetPort()),
			zap.String("namespace", split.Namespace),
			zap.String("set", split.Set),
		)
	}

	return logger
}

func LogCloserError(logger *zap.Logger, closer io.Closer, msg string) {
	if err := closer.Close(); err != nil {
		logger.Error(msg, zap.Error(err))
	}
}

func NewLoggerFromConfig(cfg *config.TLoggerConfig) (*zap.Logger, error) {
	if cfg == nil {
		return NewDefaultLogger()
	}

	level, err := convertToZapLogLevel(cfg.GetLogLevel())
	if err != nil {
		return nil, fmt.Errorf("convert log level: %w", err)
	}

	loggerCfg := zap.NewProductionConfig()
	loggerCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	loggerCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	loggerCfg.Encoding = "console"
	loggerCfg.Sampling = nil
	loggerCfg.Level.SetLevel(level)

	logger, err := loggerCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}

	return logger, nil
}

func NewDefaultLogger() (*zap.Logger, error) {
	return NewLoggerFromConfig(&config.TLoggerConfig{LogLevel: config.ELogLevel_DEBUG})
}

func NewTestLogger(t *testing.T) *zap.Logger { return zaptest.NewLogger(t) }

func convertToZapLogLevel(lvl config.ELogLevel) (zapcore.Level, error) {
	switch lvl {
	case config.ELogLevel_TRACE, config.ELogLevel_DEBUG:
		return zapcore.DebugLevel, nil
	case config.ELogLevel_INFO:
		return zapcore.InfoLevel, nil
	case config.ELogLevel_WARN:
		return zapcore.WarnLevel, nil
	case config.ELogLevel_ERROR:
		return zapcore.ErrorLevel, nil
	case config.ELogLevel_FATAL:
		return zapcore.FatalLevel, nil
	}

	return zapcore.InvalidLevel, fmt.Errorf("unknown log level '%s'", lvl)
}
