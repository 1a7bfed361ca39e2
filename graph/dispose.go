package graph

import (
	"context"

	"github.com/hollowlab/rasterflow/observability"
	"github.com/hollowlab/rasterflow/product"
)

// Dispose pops gc's disposal stack front-to-back — the strict reverse of
// completed initialization order — disposing each context's operator, then
// its target product. Disposal is best-effort: individual failures are
// logged at warning level through gc's observability.Provider and do not
// stop traversal of the remaining contexts.
func (gc *GraphContext) Dispose(ctx context.Context) {
	for _, nc := range gc.initOrder {
		if nc.Operator != nil {
			if err := nc.Operator.Dispose(ctx); err != nil {
				gc.logDisposeFailure(ctx, nc.Node.ID, "operator", err)
			}
		}
		if disposer, ok := nc.TargetProduct.(product.ProductDisposer); ok {
			if err := disposer.Dispose(ctx); err != nil {
				gc.logDisposeFailure(ctx, nc.Node.ID, "target product", err)
			}
		}
	}
	gc.initOrder = nil
}

func (gc *GraphContext) logDisposeFailure(ctx context.Context, nodeID, what string, err error) {
	if gc.logger == nil {
		return
	}
	gc.logger.Warn(ctx, "graph: disposal failed",
		observability.String(observability.AttrGraphNodeID, nodeID),
		observability.String("graph.dispose.target", what),
		observability.Error(err),
	)
}
