package logging

import (
	"log/slog"

	"go.uber.org/zap/zapcore"
)

// FromCore wraps an existing zap core, e.g. an observer core.
func FromCore(core zapcore.Core) *slog.Logger {
	return fromCore(core)
}
