package goadvice

import (
	"context"
	"log/slog"
)

// SuppressAll drops every error that is not an advice failure.
func SuppressAll(err error) bool {
	return !IsAdviceError(err)
}

type suppressingInvoker struct {
	inner  Invoker
	filter func(error) bool
	logger *slog.Logger
}

// Suppress wraps an Invoker so that errors accepted by filter are logged and swallowed:
// the call returns (nil, nil). The chain itself never suppresses; this is the caller's choice.
func Suppress(inner Invoker, filter func(error) bool, logger *slog.Logger) Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	if filter == nil {
		filter = SuppressAll
	}
	return &suppressingInvoker{inner: inner, filter: filter, logger: logger}
}

func (s *suppressingInvoker) Invoke(ctx context.Context, operation string, args ...any) (any, error) {
	result, err := s.inner.Invoke(ctx, operation, args...)
	if err != nil && s.filter(err) {
		s.logger.Warn("invocation error suppressed", "operation", operation, "error", err)
		return nil, nil
	}
	return result, err
}
