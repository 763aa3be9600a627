package extensibility

import (
	"fmt"
	"log/slog"
	"time"
)

// SafeAction wraps a reaction callback so a panic is logged and swallowed
// instead of unwinding through the chart's drain. Each run is logged at
// debug level with its duration.
func SafeAction(logger *slog.Logger, name string, fn func()) func() {
	if logger == nil {
		logger = slog.Default()
	}
	return func() {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("action panicked", "action", name, "panic", fmt.Sprint(r))
				return
			}
			logger.Debug("action completed", "action", name, "duration", time.Since(start))
		}()
		fn()
	}
}

// SafeValueAction is SafeAction for callbacks taking one value.
func SafeValueAction[T any](logger *slog.Logger, name string, fn func(T)) func(T) {
	return func(v T) {
		SafeAction(logger, name, func() { fn(v) })()
	}
}
