package logger

import (
	"log/slog"

	"go.uber.org/fx/fxevent"
)

// FxEventLogger routes fx lifecycle events through the application logger.
func FxEventLogger(logger *slog.Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
}
