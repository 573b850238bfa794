package payment

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/CherkashinEvgeny/goadvice"
)

var (
	makePayment      = goadvice.MustExecution("payment.Service.MakePayment()")
	incrementPayment = goadvice.MustExecution("payment.Service.IncrementPayment(*)")
	throwsException  = goadvice.MustExecution("payment.Service.ThrowsException()")
)

// Advice is the advice set of the payment demo, in registration order.
func Advice(logger *slog.Logger) []goadvice.Advice {
	if logger == nil {
		logger = slog.Default()
	}
	return []goadvice.Advice{
		goadvice.LogBefore("logStartPayment", makePayment, logger, "Payment Starting..."),
		goadvice.LogAfter("logEndPayment", makePayment, logger, "Payment Ending..."),
		goadvice.LogBefore("logBeforeIncrement", incrementPayment, logger, "Before incrementing"),
		goadvice.LogAfter("logAfterIncrement", incrementPayment, logger, "After Incrementing..."),
		goadvice.Around("logAroundIncrement", incrementPayment,
			func(ctx context.Context, inv *goadvice.Invocation, proceed goadvice.Proceed) (any, error) {
				logger.InfoContext(ctx, "Start around Incrementing...", "amount", inv.Args[0])
				result, err := proceed(ctx)
				logger.InfoContext(ctx, "End around Incrementing...", "total", result)
				return result, err
			}),
		goadvice.AfterThrowing("logException", throwsException,
			func(ctx context.Context, _ *goadvice.Invocation, err error) error {
				logger.ErrorContext(ctx, "Exception caught", "error", err)
				return nil
			}),
	}
}

// Wire is the composition root: it registers impl, attaches Advice and returns the
// advised service. With suppress set, ErrTestException is logged and dropped at the
// call boundary instead of reaching the caller.
func Wire(impl Service, logger *slog.Logger, suppress bool) (Service, error) {
	c := goadvice.NewContainer(goadvice.WithLogger(logger))
	if err := RegisterService(c, impl); err != nil {
		return nil, errors.Wrap(err, "register payment service")
	}
	if err := c.Advise(Advice(logger)...); err != nil {
		return nil, errors.Wrap(err, "advise payment service")
	}
	chain, err := c.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build payment chain")
	}
	var invoker goadvice.Invoker = chain
	if suppress {
		invoker = goadvice.Suppress(chain, func(err error) bool {
			return errors.Is(err, ErrTestException)
		}, logger)
	}
	return NewServiceAdvised(invoker), nil
}
