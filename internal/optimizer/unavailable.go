package optimizer

import (
	"context"

	"github.com/deliverai/deliverai/internal/campaign"
)

// Unavailable returns an optimizer that fails every call with cause.
// The server uses it when no backend could be configured, so the dashboard
// still loads and reports the problem when the user asks for an optimization.
func Unavailable(cause error) campaign.Optimizer {
	if cause == nil {
		cause = ErrNotConfigured
	}
	return campaign.OptimizerFunc(func(context.Context, campaign.EmailDraft) (*campaign.OptimizationResult, error) {
		return nil, cause
	})
}
