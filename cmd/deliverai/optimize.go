package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deliverai/deliverai/internal/campaign"
	"github.com/deliverai/deliverai/pkg/logger"
)

func newOptimizeCmd(d deps) *cobra.Command {
	var (
		recipients string
		subject    string
		body       string
		bodyFile   string
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run the optimizer once and print the result as JSON",
		Example: `  deliverai optimize --recipients "a@example.com, b@example.com" \
    --subject "Spring sale" --body-file body.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if bodyFile != "" {
				data, err := os.ReadFile(bodyFile)
				if err != nil {
					return fmt.Errorf("read body: %w", err)
				}
				body = string(data)
			}

			draft := campaign.Draft{Recipients: recipients, Subject: subject, Body: body}.EmailDraft()
			if err := draft.Validate(); err != nil {
				return fmt.Errorf("draft is incomplete: %s", strings.Join(campaign.ValidationMessages(err), "; "))
			}

			cfg, err := d.loadConfig()
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log)

			opt, err := d.newOptimizer(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Gemini.Timeout)
			defer cancel()

			res, err := opt.Optimize(ctx, draft)
			if err != nil {
				return errors.Join(campaign.ErrOptimization, err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&recipients, "recipients", "", "recipients separated by newlines, commas or semicolons")
	f.StringVar(&subject, "subject", "", "email subject")
	f.StringVar(&body, "body", "", "email body in Markdown")
	f.StringVar(&bodyFile, "body-file", "", "read the body from a file")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")

	return cmd
}
