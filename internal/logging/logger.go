package logging

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Options selects the encoder and minimum level of the logger.
type Options struct {
	// Production switches to zap's JSON encoder and sampling.
	Production bool
	// Level is a zap level name ("debug", "info", "warn", "error").
	// Empty means info.
	Level string
}

// New builds the process logger: a slog front-end over a zap core, tagged
// with the service name. The returned func flushes buffered entries.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if opts.Production {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := zapConfig.Build(zap.Fields(zap.String("service", "usercrud")))
	if err != nil {
		return nil, nil, fmt.Errorf("build zap logger: %w", err)
	}

	return fromCore(zapLogger.Core()), zapLogger.Sync, nil
}

func fromCore(core zapcore.Core) *slog.Logger {
	return slog.New(zapslog.NewHandler(core))
}
