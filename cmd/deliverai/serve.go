package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/deliverai/deliverai/internal/campaign"
	"github.com/deliverai/deliverai/internal/config"
	"github.com/deliverai/deliverai/internal/handlers"
	"github.com/deliverai/deliverai/internal/middlewares"
	"github.com/deliverai/deliverai/internal/optimizer"
	"github.com/deliverai/deliverai/internal/web"
	"github.com/deliverai/deliverai/pkg/logger"
	"github.com/deliverai/deliverai/pkg/mailer"
	"github.com/deliverai/deliverai/pkg/mailer/simulated"
	"github.com/deliverai/deliverai/pkg/sanitizer"
)

const sentryFlushTimeout = 2 * time.Second

func newServeCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the campaign dashboard until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), d)
		},
	}
}

func runServe(ctx context.Context, d deps) error {
	cfg, err := d.loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.Log, cfg.Sentry,
		middlewares.RequestIDExtractor(),
		campaign.RunIDExtractor(),
	)
	defer logger.FlushSentry(sentryFlushTimeout)

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug(fmt.Sprintf(format, args...))
	}))
	defer undo()
	if err != nil {
		log.Warn("failed to set GOMAXPROCS", slog.String("error", err.Error()))
	}

	opt, optErr := d.newOptimizer(ctx, cfg, log)
	if optErr != nil {
		log.Warn("optimizer unavailable, optimize requests will fail", slog.String("error", optErr.Error()))
		opt = optimizer.Unavailable(optErr)
	}

	c := newCampaign(cfg, opt, log)

	app := newApp(cfg, c, log, func(context.Context) error { return optErr })

	log.Info("starting deliverai",
		slog.String("version", version),
		slog.String("env", cfg.Env),
		slog.Duration("dispatch_delay", cfg.Dispatch.Delay),
		slog.Float64("failure_rate", cfg.Dispatch.FailureRate),
	)

	return app.Run(ctx, cfg.Server.Addr,
		web.ShutdownTimeout(cfg.Server.ShutdownTimeout),
		web.ShutdownHook(c.Close),
	)
}

// newCampaign wires the simulated delivery path: campaign → dispatcher →
// mailer → simulated sender.
func newCampaign(cfg *config.Config, opt campaign.Optimizer, log *slog.Logger) *campaign.Campaign {
	sender := mailer.New(
		simulated.New(simulated.WithFailureRate(cfg.Dispatch.FailureRate)),
		cfg.Mailer,
		mailer.WithLogger(log),
	)

	dispatcher := campaign.NewDispatcher(sender,
		campaign.WithDelay(cfg.Dispatch.Delay),
		campaign.WithRenderer(mailer.NewRenderer(mailer.WithHTMLFilter(sanitizer.SanitizeHTML))),
		campaign.WithDispatchLogger(log),
	)

	return campaign.New(opt, dispatcher,
		campaign.WithLogger(log),
		campaign.WithOptimizeTimeout(cfg.Gemini.Timeout),
	)
}

func newApp(cfg *config.Config, c handlers.Session, log *slog.Logger, optimizerReady func(context.Context) error) *web.App {
	return web.New(
		web.WithLogger(log),
		web.WithMiddleware(
			middlewares.RequestID(),
			middlewares.RequestLogger(),
			middlewares.Timeout(cfg.Server.RequestTimeout),
			middlewares.Recover(),
		),
		web.WithErrorHandler(handlers.ErrorHandler),
		web.WithNotFoundHandler(handlers.NotFound),
		web.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		web.WithHealthChecks(
			web.WithReadinessCheck("optimizer", optimizerReady),
		),
		web.WithHandlers(
			handlers.NewDashboard(c),
			handlers.NewAPI(c),
		),
	)
}
