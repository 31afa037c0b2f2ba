package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/librarydesk/desk"
	"github.com/AntonStoeckl/librarydesk/oteladapters"
	"github.com/AntonStoeckl/librarydesk/shell/config"
	"github.com/AntonStoeckl/librarydesk/shell/remote"
)

const serviceName = "deskctl"

// app holds what every subcommand shares. The session is opened by the subcommand
// because some choose the borrow scope.
type app struct {
	out      io.Writer
	errOut   io.Writer
	envFiles []string

	cfg       config.Config
	logger    *oteladapters.SlogBridgeLogger
	providers *config.ObservabilityProviders
	client    *remote.Client
	session   *desk.Session
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "deskctl",
		Short:         "Manage the inventory and loans of a library service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "load settings from these .env files instead of ./.env")

	root.AddCommand(
		newBooksCommand(a),
		newISBNCommand(a),
		newBorrowCommand(a),
		newBorrowsCommand(a),
		newCategoriesCommand(a),
	)

	return root
}

func (a *app) init() error {
	var opts []config.Option
	if len(a.envFiles) > 0 {
		opts = append(opts, config.WithEnvFiles(a.envFiles...))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = oteladapters.NewSlogBridgeLoggerWithHandler(serviceName,
		slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if a.providers, err = config.NewObservabilityProviders(serviceName); err != nil {
		return err
	}

	clientOpts := []remote.Option{
		remote.WithTimeout(cfg.RequestTimeout),
		remote.WithContextualLogging(a.logger),
	}
	if cfg.ProxyAddr != "" {
		clientOpts = append(clientOpts, remote.WithSOCKS5Proxy(cfg.ProxyAddr))
	}
	if cfg.AuthToken != "" {
		clientOpts = append(clientOpts, remote.WithAuthToken(cfg.AuthToken))
	}

	a.client, err = remote.NewClient(cfg.APIBaseURL, clientOpts...)

	return err
}

// open creates the session of the running subcommand.
func (a *app) open(opts ...desk.Option) (*desk.Session, error) {
	opts = append([]desk.Option{
		desk.WithContextualLogging(a.logger),
		desk.WithMetrics(oteladapters.NewMetricsCollector(a.providers.MeterProvider.Meter(serviceName))),
		desk.WithTracing(oteladapters.NewTracingCollector(a.providers.TracerProvider.Tracer(serviceName))),
	}, opts...)

	session, err := desk.NewSession(a.cfg, a.client, opts...)
	if err != nil {
		return nil, err
	}
	a.session = session

	return session, nil
}

func (a *app) close() error {
	if a.session != nil {
		a.session.Close()
	}

	if a.providers == nil {
		return nil
	}

	return a.providers.Shutdown()
}
