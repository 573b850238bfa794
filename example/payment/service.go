// Package payment is a small service used to demonstrate goadvice wiring.
package payment

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
)

//go:generate go run github.com/CherkashinEvgeny/goadvice/cmd/goadvice --file=advised_gen.go github.com/CherkashinEvgeny/goadvice/example/payment Service

var ErrTestException = errors.New("test exception")

type Service interface {
	MakePayment(ctx context.Context) error
	IncrementPayment(ctx context.Context, amount int) (int, error)
	ThrowsException(ctx context.Context) error
}

// LocalService keeps the running payment total in memory.
type LocalService struct {
	mu     sync.Mutex
	total  int
	logger *slog.Logger
}

func NewLocalService(logger *slog.Logger) *LocalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalService{logger: logger}
}

func (s *LocalService) MakePayment(ctx context.Context) error {
	s.logger.InfoContext(ctx, "making payment")
	return nil
}

func (s *LocalService) IncrementPayment(ctx context.Context, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total += amount
	s.logger.InfoContext(ctx, "payment incremented", "amount", amount, "total", s.total)
	return s.total, nil
}

func (s *LocalService) ThrowsException(context.Context) error {
	return ErrTestException
}

func (s *LocalService) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}
