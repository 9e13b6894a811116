package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

// TelemetryStatus classifies how a command execution ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to telemetry callbacks once a command returns.
// Logger already carries the command fields and the execution context.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is an optional callback invoked after every execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs the outcome through info.Logger, falling back to
// fallback when the handler did not supply one.
func DefaultTelemetry[T command.Message](fallback interfaces.Logger) Telemetry[T] {
	fallback = logging.Ensure(fallback)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		if info.Logger == nil {
			info.Logger = logging.WithFields(fallback, info.Fields)
		}
		logOutcome(info)
	}
}

func logOutcome(info TelemetryInfo) {
	logger := logging.Ensure(info.Logger)
	elapsed := info.Duration.Milliseconds()
	switch info.Status {
	case TelemetryStatusSuccess:
		logger.Info("command.execute.success", "duration_ms", elapsed)
	case TelemetryStatusContextError:
		logger.Warn("command.execute.context_error", "duration_ms", elapsed, "error", info.Error)
	default:
		logger.Error("command.execute.failed", "duration_ms", elapsed, "error", info.Error)
	}
}
