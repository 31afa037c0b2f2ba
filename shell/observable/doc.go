// Package observable provides wrappers that instrument command and query handlers
// with metrics, tracing and logging while the handlers themselves stay pure.
//
// Wrappers are applied explicitly at wiring time:
//
//	coreHandler := removebook.NewCommandHandler(remoteClient)
//
//	handler, err := observable.NewCommandWrapper(
//		coreHandler,
//		observable.WithCommandMetrics[removebook.Command](metricsCollector),
//		observable.WithCommandTracing[removebook.Command](tracingCollector),
//		observable.WithCommandContextualLogging[removebook.Command](logger),
//	)
//
// Every option is optional. Tests of business logic use the bare handlers.
//
// Outcomes are classified with shell.StatusFor: success, idempotent, rejected (local
// validation or remote conflict), transport, canceled, timeout and error.
package observable
