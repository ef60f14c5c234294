package campaign

import "context"

// Optimizer rewrites a draft for deliverability.
// Implementations return either a complete result or an error, never both.
type Optimizer interface {
	Optimize(ctx context.Context, draft EmailDraft) (*OptimizationResult, error)
}

// OptimizerFunc adapts a function to the Optimizer interface.
type OptimizerFunc func(ctx context.Context, draft EmailDraft) (*OptimizationResult, error)

// Optimize calls f(ctx, draft).
func (f OptimizerFunc) Optimize(ctx context.Context, draft EmailDraft) (*OptimizationResult, error) {
	return f(ctx, draft)
}
