package goadvice

import (
	"context"
	"log/slog"
	"time"
)

// LogAround logs every matched invocation with its duration and outcome.
func LogAround(name string, matcher Matcher, logger *slog.Logger) Advice {
	if logger == nil {
		logger = slog.Default()
	}
	return Around(name, matcher, func(ctx context.Context, inv *Invocation, proceed Proceed) (any, error) {
		start := time.Now()
		logger.InfoContext(ctx, "invoking operation",
			"operation", inv.Operation.Name,
			"invocationId", inv.ID,
			"args", len(inv.Args),
		)

		result, err := proceed(ctx)
		duration := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "operation failed",
				"operation", inv.Operation.Name,
				"invocationId", inv.ID,
				"duration", duration,
				"error", err,
			)
		} else {
			logger.InfoContext(ctx, "operation completed",
				"operation", inv.Operation.Name,
				"invocationId", inv.ID,
				"duration", duration,
			)
		}
		return result, err
	})
}

func LogBefore(name string, matcher Matcher, logger *slog.Logger, msg string) Advice {
	if logger == nil {
		logger = slog.Default()
	}
	return Before(name, matcher, func(ctx context.Context, inv *Invocation) error {
		logger.InfoContext(ctx, msg, "operation", inv.Operation.Name, "invocationId", inv.ID)
		return nil
	})
}

func LogAfter(name string, matcher Matcher, logger *slog.Logger, msg string) Advice {
	if logger == nil {
		logger = slog.Default()
	}
	return After(name, matcher, func(ctx context.Context, inv *Invocation) error {
		logger.InfoContext(ctx, msg, "operation", inv.Operation.Name, "invocationId", inv.ID)
		return nil
	})
}

func LogAfterThrowing(name string, matcher Matcher, logger *slog.Logger, msg string) Advice {
	if logger == nil {
		logger = slog.Default()
	}
	return AfterThrowing(name, matcher, func(ctx context.Context, inv *Invocation, err error) error {
		logger.ErrorContext(ctx, msg, "operation", inv.Operation.Name, "invocationId", inv.ID, "error", err)
		return nil
	})
}
