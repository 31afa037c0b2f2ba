package desk

import (
	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/reconcile"
	"github.com/AntonStoeckl/librarydesk/shell"
	"github.com/AntonStoeckl/librarydesk/shell/observable"
)

type sessionOptions struct {
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	clock            shell.Clock
	notifier         reconcile.Notifier
	scope            core.BorrowScope
	retryOptions     []shell.RetryOption
}

// Option configures a Session.
type Option func(*sessionOptions)

// WithLogging sets the logger of every component.
func WithLogging(logger shell.Logger) Option {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithContextualLogging sets the contextual logger of every component.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(o *sessionOptions) {
		o.contextualLogger = logger
	}
}

// WithMetrics sets the metrics collector of every component.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(o *sessionOptions) {
		o.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector of the handlers and the reconciler.
func WithTracing(collector shell.TracingCollector) Option {
	return func(o *sessionOptions) {
		o.tracingCollector = collector
	}
}

// WithClock sets the clock of the ISBN debounce timer.
func WithClock(clock shell.Clock) Option {
	return func(o *sessionOptions) {
		o.clock = clock
	}
}

// WithNotifier sets the receiver of mutation outcomes.
func WithNotifier(notifier reconcile.Notifier) Option {
	return func(o *sessionOptions) {
		o.notifier = notifier
	}
}

// WithBorrowScope selects whose borrow records the session projects.
func WithBorrowScope(scope core.BorrowScope) Option {
	return func(o *sessionOptions) {
		o.scope = scope
	}
}

// WithRetryOptions sets the retry configuration of every read.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(o *sessionOptions) {
		o.retryOptions = opts
	}
}

func queryOptions[Q shell.Query, R any](o sessionOptions) []observable.QueryOption[Q, R] {
	return []observable.QueryOption[Q, R]{
		observable.WithQueryLogging[Q, R](o.logger),
		observable.WithQueryContextualLogging[Q, R](o.contextualLogger),
		observable.WithQueryMetrics[Q, R](o.metricsCollector),
		observable.WithQueryTracing[Q, R](o.tracingCollector),
	}
}

func commandOptions[C shell.Command](o sessionOptions) []observable.CommandOption[C] {
	return []observable.CommandOption[C]{
		observable.WithCommandLogging[C](o.logger),
		observable.WithCommandContextualLogging[C](o.contextualLogger),
		observable.WithCommandMetrics[C](o.metricsCollector),
		observable.WithCommandTracing[C](o.tracingCollector),
	}
}

func wrapQuery[Q shell.Query, R any](
	handler shell.QueryHandler[Q, R],
	o sessionOptions,
) (shell.QueryHandler[Q, R], error) {
	wrapped, err := observable.NewQueryWrapper[Q, R](handler, queryOptions[Q, R](o)...)
	if err != nil {
		return nil, err
	}

	return wrapped, nil
}

func wrapCommand[C shell.Command](handler shell.CommandHandler[C], o sessionOptions) (shell.CommandHandler[C], error) {
	wrapped, err := observable.NewCommandWrapper[C](handler, commandOptions[C](o)...)
	if err != nil {
		return nil, err
	}

	return wrapped, nil
}
