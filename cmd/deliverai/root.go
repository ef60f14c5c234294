package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/deliverai/deliverai/internal/campaign"
	"github.com/deliverai/deliverai/internal/config"
	"github.com/deliverai/deliverai/internal/optimizer"
	"github.com/deliverai/deliverai/internal/optimizer/gemini"
)

// deps are the seams the commands are built on.
type deps struct {
	loadConfig   func() (*config.Config, error)
	newOptimizer func(ctx context.Context, cfg *config.Config, log *slog.Logger) (campaign.Optimizer, error)
}

func defaultDeps() deps {
	return deps{
		loadConfig:   config.Load,
		newOptimizer: newGeminiOptimizer,
	}
}

func newRootCmd(d deps) *cobra.Command {
	serve := newServeCmd(d)

	root := &cobra.Command{
		Use:   "deliverai",
		Short: "Compose, optimize and dry-run email campaigns",
		Long: `deliverai serves a dashboard where a draft email is rewritten by a
generative model for better inbox placement and then sent to a recipient
list through a simulated delivery loop.

Configuration is read from environment variables (GEMINI_API_KEY,
HTTP_ADDR, DISPATCH_DELAY, ...). Run without a subcommand to serve.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
	}

	root.AddCommand(serve, newParseCmd(), newOptimizeCmd(d))
	return root
}

// newGeminiOptimizer builds the Gemini backend with the configured prompt.
func newGeminiOptimizer(ctx context.Context, cfg *config.Config, log *slog.Logger) (campaign.Optimizer, error) {
	prompt, err := optimizer.LoadPrompt(cfg.Optimizer.PromptFile)
	if err != nil {
		return nil, err
	}

	client, err := gemini.New(ctx, cfg.Gemini,
		gemini.WithPrompt(prompt),
		gemini.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	log.Info("optimizer ready", slog.String("backend", "gemini"), slog.String("model", client.Model()))
	return client, nil
}
