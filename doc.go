// Package goadvice intercepts named operations with Before, After, Around and
// AfterThrowing advice.
//
// Wiring is explicit. Operations and advice are registered in a Container during
// startup, Build matches every advice against every operation once and returns a
// Chain that never changes afterwards:
//
//	c := goadvice.NewContainer(goadvice.WithLogger(logger))
//	_ = c.Register(goadvice.Operation{Name: "payment.Service.MakePayment", Body: body})
//	_ = c.Advise(
//		goadvice.LogBefore("start", goadvice.Exact("payment.Service.MakePayment"), logger, "Payment Starting..."),
//		goadvice.LogAfter("end", goadvice.MustExecution("payment.Service.*()"), logger, "Payment Ending..."),
//	)
//	chain, err := c.Build()
//	...
//	result, err := chain.Invoke(ctx, "payment.Service.MakePayment")
//
// Target errors reach the caller unchanged after every AfterThrowing advice has seen
// them. Callers that want to drop errors say so explicitly with Suppress.
//
// Typed wrappers over an interface are generated by cmd/goadvice.
package goadvice
